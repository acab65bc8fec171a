package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"skillmates-backend/internal/domain"
	"skillmates-backend/internal/usecase"
	"skillmates-backend/pkg/relevance"
	"skillmates-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func searchProfiles() []domain.Profile {
	return []domain.Profile{
		{UserID: "1", Name: "Sam", Role: domain.RoleLearner, ExpertiseLevel: domain.ExpertiseBeginner, Skills: []string{"Guitar"}},
		{UserID: "2", Name: "Guitar Sam", Role: domain.RoleTeacher, ExpertiseLevel: domain.ExpertiseExpert, Skills: []string{"Cooking"}},
		{UserID: "3", Name: "Ana", Role: domain.RoleTeacher, Skills: []string{"Salsa"}},
	}
}

func newSearchUsecase(profiles *MockProfileRepo, recent *MockRecentRepo, quick int) domain.SearchUsecase {
	return usecase.NewSearchUsecase(profiles, recent, relevance.NewRanker(relevance.DefaultWeights()), quick, validation.New())
}

func TestQuickSearch(t *testing.T) {
	t.Run("Should return empty results for blank query without loading profiles", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		uc := newSearchUsecase(profiles, new(MockRecentRepo), 8)

		resp, err := uc.Quick(context.Background(), "   ")
		require.NoError(t, err)
		assert.Empty(t, resp.Results)
		assert.NotNil(t, resp.Results)
		profiles.AssertNotCalled(t, "ListAll", mock.Anything)
	})

	t.Run("Should rank and cap results", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		profiles.On("ListAll", mock.Anything).Return(searchProfiles(), nil)
		uc := newSearchUsecase(profiles, new(MockRecentRepo), 1)

		resp, err := uc.Quick(context.Background(), "guitar")
		require.NoError(t, err)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "Sam", resp.Results[0].Candidate.Name)
		assert.Equal(t, 5, resp.Results[0].Score)
	})

	t.Run("Should surface repository errors", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		profiles.On("ListAll", mock.Anything).Return([]domain.Profile(nil), errors.New("boom"))
		uc := newSearchUsecase(profiles, new(MockRecentRepo), 8)

		_, err := uc.Quick(context.Background(), "guitar")
		assert.Equal(t, http.StatusInternalServerError, appCode(t, err))
	})
}

func TestFullSearch(t *testing.T) {
	t.Run("Should filter after ranking and record recent search", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		recent := new(MockRecentRepo)
		profiles.On("ListAll", mock.Anything).Return(searchProfiles(), nil)
		recent.On("Push", mock.Anything, "u1", "guitar").Return([]string{"guitar"}, nil)
		uc := newSearchUsecase(profiles, recent, 8)

		resp, err := uc.Search(userCtx("u1"), " guitar ", domain.SearchFilter{Role: domain.RoleTeacher})
		require.NoError(t, err)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "Guitar Sam", resp.Results[0].Candidate.Name)
		recent.AssertExpectations(t)
	})

	t.Run("Should return all matches unbounded for anonymous users", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		recent := new(MockRecentRepo)
		profiles.On("ListAll", mock.Anything).Return(searchProfiles(), nil)
		uc := newSearchUsecase(profiles, recent, 1)

		resp, err := uc.Search(context.Background(), "guitar", domain.SearchFilter{Role: domain.FilterAll})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Total)
		recent.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should reject unknown filters", func(t *testing.T) {
		uc := newSearchUsecase(new(MockProfileRepo), new(MockRecentRepo), 8)
		_, err := uc.Search(context.Background(), "x", domain.SearchFilter{Expertise: "guru"})
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	})

	t.Run("Should still answer when recording fails", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		recent := new(MockRecentRepo)
		profiles.On("ListAll", mock.Anything).Return(searchProfiles(), nil)
		recent.On("Push", mock.Anything, "u1", "salsa").Return([]string(nil), errors.New("redis down"))
		uc := newSearchUsecase(profiles, recent, 8)

		resp, err := uc.Search(userCtx("u1"), "salsa", domain.SearchFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Total)
	})
}

func TestRecentSearches(t *testing.T) {
	recent := new(MockRecentRepo)
	uc := newSearchUsecase(new(MockProfileRepo), recent, 8)

	_, err := uc.RecentSearches(context.Background())
	assert.Equal(t, http.StatusUnauthorized, appCode(t, err))

	_, err = uc.RecordSearch(userCtx("u1"), "   ")
	assert.Equal(t, http.StatusBadRequest, appCode(t, err))

	recent.On("Push", mock.Anything, "u1", "go").Return([]string{"go"}, nil)
	list, err := uc.RecordSearch(userCtx("u1"), " go ")
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, list)

	recent.On("Clear", mock.Anything, "u1").Return(nil)
	assert.NoError(t, uc.ClearRecentSearches(userCtx("u1")))
}

func TestDashboardStats(t *testing.T) {
	conns := new(MockConnectionRepo)
	chats := new(MockChatRepo)
	uc := usecase.NewDashboardUsecase(conns, chats)

	conns.On("CountAccepted", mock.Anything, "u1").Return(3, nil)
	conns.On("CountIncomingPending", mock.Anything, "u1").Return(2, nil)
	chats.On("CountByParticipant", mock.Anything, "u1").Return(1, nil)

	stats, err := uc.GetStats(userCtx("u1"))
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardStats{Connections: 3, Chats: 1, PendingRequests: 2}, *stats)

	failing := new(MockConnectionRepo)
	failing.On("CountAccepted", mock.Anything, "u1").Return(0, errors.New("boom"))
	failing.On("CountIncomingPending", mock.Anything, "u1").Return(0, nil)
	uc = usecase.NewDashboardUsecase(failing, chats)

	_, err = uc.GetStats(userCtx("u1"))
	assert.Equal(t, http.StatusInternalServerError, appCode(t, err))
}
