package usecase

import (
	"context"
	"strings"

	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/apperror"
	"skillmates-backend/pkg/logger"
	"skillmates-backend/pkg/metrics"
	"skillmates-backend/pkg/relevance"

	"github.com/go-playground/validator/v10"
)

type searchUsecase struct {
	profileRepo domain.ProfileRepository
	recentRepo  domain.RecentSearchRepository
	ranker      *relevance.Ranker
	quickLimit  int
	validate    *validator.Validate
}

func NewSearchUsecase(
	profileRepo domain.ProfileRepository,
	recentRepo domain.RecentSearchRepository,
	ranker *relevance.Ranker,
	quickLimit int,
	validate *validator.Validate,
) domain.SearchUsecase {
	if quickLimit <= 0 {
		quickLimit = 8
	}
	return &searchUsecase{
		profileRepo: profileRepo,
		recentRepo:  recentRepo,
		ranker:      ranker,
		quickLimit:  quickLimit,
		validate:    validate,
	}
}

// candidates fetches the full member set. Search always ranks over fresh data.
func (u *searchUsecase) candidates(ctx context.Context) ([]relevance.Candidate, error) {
	profiles, err := u.profileRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	out := make([]relevance.Candidate, 0, len(profiles))
	for i := range profiles {
		out = append(out, profiles[i].ToCandidate())
	}
	return out, nil
}

func (u *searchUsecase) Quick(ctx context.Context, query string) (*domain.SearchResponse, error) {
	query = strings.TrimSpace(query)
	resp := &domain.SearchResponse{Query: query, Results: []relevance.Result{}}
	if query == "" {
		return resp, nil
	}

	cands, err := u.candidates(ctx)
	if err != nil {
		return nil, err
	}
	resp.Results = u.ranker.Search(query, cands, u.quickLimit)
	resp.Total = len(resp.Results)

	metrics.ObserveSearch("quick", resp.Total)
	return resp, nil
}

// Search ranks every member and filters afterwards. Authenticated calls also
// record the query in recent searches, so GET /v1/search has a write side
// effect that the CSRF check, which skips GET, does not guard.
func (u *searchUsecase) Search(ctx context.Context, query string, filter domain.SearchFilter) (*domain.SearchResponse, error) {
	if !validFilter(filter.Role, domain.RoleLearner, domain.RoleTeacher, domain.RoleBoth) {
		return nil, apperror.BadRequest("Role filter must be one of: all, learner, teacher, both")
	}
	if !validFilter(filter.Expertise, domain.ExpertiseBeginner, domain.ExpertiseIntermediate, domain.ExpertiseAdvanced, domain.ExpertiseExpert) {
		return nil, apperror.BadRequest("Expertise filter must be one of: all, beginner, intermediate, advanced, expert")
	}

	query = strings.TrimSpace(query)
	resp := &domain.SearchResponse{Query: query, Results: []relevance.Result{}}
	if query == "" {
		return resp, nil
	}

	cands, err := u.candidates(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range u.ranker.Search(query, cands, 0) {
		if filter.Matches(r.Candidate) {
			resp.Results = append(resp.Results, r)
		}
	}
	resp.Total = len(resp.Results)

	if userID := domain.UserIDFrom(ctx); userID != "" {
		if _, err := u.recentRepo.Push(ctx, userID, query); err != nil {
			logger.Log.Warn("failed to record recent search", "user_id", userID, "error", err)
		}
	}

	metrics.ObserveSearch("full", resp.Total)
	return resp, nil
}

func (u *searchUsecase) RecentSearches(ctx context.Context) ([]string, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	list, err := u.recentRepo.List(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (u *searchUsecase) RecordSearch(ctx context.Context, query string) ([]string, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	req := domain.RecordSearchRequest{Query: strings.TrimSpace(query)}
	if err := validate(u.validate, req); err != nil {
		return nil, err
	}
	list, err := u.recentRepo.Push(ctx, userID, req.Query)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (u *searchUsecase) ClearRecentSearches(ctx context.Context) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	if err := u.recentRepo.Clear(ctx, userID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func validFilter(value string, allowed ...string) bool {
	if value == "" || value == domain.FilterAll {
		return true
	}
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
