package usecase_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"testing"

	"skillmates-backend/internal/domain"
	"skillmates-backend/internal/usecase"
	"skillmates-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakePhotoStore struct {
	userID string
	size   int
}

func (f *fakePhotoStore) PutPhoto(_ context.Context, userID, name string, data []byte) (string, error) {
	f.userID = userID
	f.size = len(data)
	return "https://cdn.example/" + userID + "/" + name + ".jpg", nil
}

func newProfileUsecase(repo *MockProfileRepo, conns *MockConnectionRepo, photos usecase.PhotoStore) domain.ProfileUsecase {
	return usecase.NewProfileUsecase(repo, conns, photos, nil, validation.New(), 64)
}

func TestUpdateMyProfile(t *testing.T) {
	t.Run("Should normalize tags and default role", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newProfileUsecase(repo, nil, nil)
		repo.On("GetByUserID", mock.Anything, "u1").Return(&domain.Profile{UserID: "u1", Username: "sam"}, nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(nil)

		p, err := uc.UpdateMyProfile(userCtx("u1"), domain.UpdateProfileRequest{
			Name:   " Sam Lee ",
			Skills: []string{"Guitar", " guitar", "", "Cooking"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Sam Lee", p.Name)
		assert.Equal(t, []string{"Guitar", "Cooking"}, p.Skills)
		assert.Equal(t, domain.RoleLearner, p.Role)
	})

	t.Run("Should store a blank name and show the username", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newProfileUsecase(repo, nil, nil)
		stored := &domain.Profile{UserID: "u1", Username: "sam", Name: "Sam"}
		stored.ApplyDefaults()
		repo.On("GetByUserID", mock.Anything, "u1").Return(stored, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Profile) bool {
			return p.StoredName() == ""
		})).Return(nil)

		p, err := uc.UpdateMyProfile(userCtx("u1"), domain.UpdateProfileRequest{Name: ""})
		require.NoError(t, err)
		assert.Equal(t, "sam", p.Name)
		assert.Empty(t, p.ToCandidate().Name)
		repo.AssertExpectations(t)
	})

	t.Run("Should reject invalid expertise", func(t *testing.T) {
		uc := newProfileUsecase(new(MockProfileRepo), nil, nil)
		_, err := uc.UpdateMyProfile(userCtx("u1"), domain.UpdateProfileRequest{ExpertiseLevel: "guru"})
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	})

	t.Run("Should require authentication", func(t *testing.T) {
		uc := newProfileUsecase(new(MockProfileRepo), nil, nil)
		_, err := uc.UpdateMyProfile(context.Background(), domain.UpdateProfileRequest{})
		assert.Equal(t, http.StatusUnauthorized, appCode(t, err))
	})
}

func TestSkills(t *testing.T) {
	profile := &domain.Profile{UserID: "u1", Skills: []string{"Guitar", "Go"}}

	t.Run("Should add a new skill", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newProfileUsecase(repo, nil, nil)
		repo.On("GetByUserID", mock.Anything, "u1").Return(profile, nil)
		repo.On("UpdateSkills", mock.Anything, "u1", []string{"Guitar", "Go", "Salsa"}).Return(nil)

		skills, err := uc.AddSkill(userCtx("u1"), " Salsa ")
		require.NoError(t, err)
		assert.Equal(t, []string{"Guitar", "Go", "Salsa"}, skills)
		assert.Equal(t, []string{"Guitar", "Go"}, profile.Skills)
	})

	t.Run("Should reject duplicate skill case-insensitively", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newProfileUsecase(repo, nil, nil)
		repo.On("GetByUserID", mock.Anything, "u1").Return(profile, nil)

		_, err := uc.AddSkill(userCtx("u1"), "guitar")
		assert.Equal(t, http.StatusConflict, appCode(t, err))
	})

	t.Run("Should remove a skill", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newProfileUsecase(repo, nil, nil)
		repo.On("GetByUserID", mock.Anything, "u1").Return(profile, nil)
		repo.On("UpdateSkills", mock.Anything, "u1", []string{"Go"}).Return(nil)

		skills, err := uc.RemoveSkill(userCtx("u1"), "GUITAR")
		require.NoError(t, err)
		assert.Equal(t, []string{"Go"}, skills)
	})

	t.Run("Should 404 on unknown skill", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newProfileUsecase(repo, nil, nil)
		repo.On("GetByUserID", mock.Anything, "u1").Return(profile, nil)

		_, err := uc.RemoveSkill(userCtx("u1"), "Chess")
		assert.Equal(t, http.StatusNotFound, appCode(t, err))
	})
}

func TestUploadPhoto(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 128, 32))))

	t.Run("Should be unavailable without storage", func(t *testing.T) {
		uc := newProfileUsecase(new(MockProfileRepo), nil, nil)
		_, err := uc.UploadPhoto(userCtx("u1"), buf.Bytes(), domain.ClientMeta{})
		assert.Equal(t, http.StatusServiceUnavailable, appCode(t, err))
	})

	t.Run("Should reject non-images", func(t *testing.T) {
		uc := newProfileUsecase(new(MockProfileRepo), nil, &fakePhotoStore{})
		_, err := uc.UploadPhoto(userCtx("u1"), []byte("%PDF-1.7 not an image"), domain.ClientMeta{})
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	})

	t.Run("Should resize, store and save URL", func(t *testing.T) {
		repo := new(MockProfileRepo)
		store := &fakePhotoStore{}
		uc := newProfileUsecase(repo, nil, store)
		repo.On("UpdatePhoto", mock.Anything, "u1", mock.AnythingOfType("string")).Return(nil)

		url, err := uc.UploadPhoto(userCtx("u1"), buf.Bytes(), domain.ClientMeta{IP: "1.1.1.1"})
		require.NoError(t, err)
		assert.Contains(t, url, "https://cdn.example/u1/")
		assert.Equal(t, "u1", store.userID)
		assert.Positive(t, store.size)
	})
}

func TestGetPublicProfile(t *testing.T) {
	target := &domain.Profile{UserID: "u2", Username: "ana"}

	t.Run("Should report not_logged_in for anonymous viewers", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newProfileUsecase(repo, new(MockConnectionRepo), nil)
		repo.On("GetByUserID", mock.Anything, "u2").Return(target, nil)

		p, err := uc.GetPublicProfile(context.Background(), "u2")
		require.NoError(t, err)
		assert.Equal(t, domain.ViewerNotLoggedIn, p.ConnectionStatus)
	})

	t.Run("Should resolve status for a signed-in viewer", func(t *testing.T) {
		repo := new(MockProfileRepo)
		conns := new(MockConnectionRepo)
		uc := newProfileUsecase(repo, conns, nil)
		repo.On("GetByUserID", mock.Anything, "u2").Return(target, nil)
		conns.On("Between", mock.Anything, "u1", "u2").Return([]domain.Connection{
			{FromUserID: "u2", ToUserID: "u1", Status: domain.ConnectionPending},
		}, nil)

		p, err := uc.GetPublicProfile(userCtx("u1"), "u2")
		require.NoError(t, err)
		assert.Equal(t, domain.ViewerRequestReceived, p.ConnectionStatus)
	})

	t.Run("Should 404 for unknown users", func(t *testing.T) {
		repo := new(MockProfileRepo)
		uc := newProfileUsecase(repo, nil, nil)
		repo.On("GetByUserID", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

		_, err := uc.GetPublicProfile(context.Background(), "nope")
		assert.Equal(t, http.StatusNotFound, appCode(t, err))
	})
}

func TestListMembers(t *testing.T) {
	profiles := new(MockProfileRepo)
	conns := new(MockConnectionRepo)
	uc := usecase.NewDirectoryUsecase(profiles, conns)

	expected := domain.DirectoryFilter{Role: "", Expertise: domain.ExpertiseExpert, Page: 1, PageSize: 20}
	profiles.On("List", mock.Anything, expected, "u1").Return([]domain.Profile{
		{UserID: "u2", Name: "Ana"},
		{UserID: "u3", Name: "Bo"},
	}, 2, nil)
	conns.On("ListForUser", mock.Anything, "u1").Return([]domain.Connection{
		{FromUserID: "u1", ToUserID: "u3", Status: domain.ConnectionAccepted},
	}, nil)

	page, err := uc.ListMembers(userCtx("u1"), domain.DirectoryFilter{Role: "all", Expertise: domain.ExpertiseExpert})
	require.NoError(t, err)
	require.Len(t, page.Members, 2)
	assert.Equal(t, domain.ViewerConnect, page.Members[0].ConnectionStatus)
	assert.Equal(t, domain.ViewerSkillmates, page.Members[1].ConnectionStatus)
	assert.Equal(t, 2, page.Total)
}
