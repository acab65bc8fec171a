package domain

import (
	"context"

	"skillmates-backend/pkg/relevance"
)

type SearchFilter struct {
	Role      string
	Expertise string
}

// Matches reports whether c passes the filter. Empty or "all" fields match anything.
func (f SearchFilter) Matches(c relevance.Candidate) bool {
	if f.Role != "" && f.Role != FilterAll && c.Role != f.Role {
		return false
	}
	if f.Expertise != "" && f.Expertise != FilterAll && c.ExpertiseLevel != f.Expertise {
		return false
	}
	return true
}

type SearchResponse struct {
	Query   string             `json:"query"`
	Results []relevance.Result `json:"results"`
	Total   int                `json:"total"`
}

type RecordSearchRequest struct {
	Query string `json:"query" validate:"required,max=100"`
}

type RecentSearchRepository interface {
	// Push records query for userID and returns the updated list, newest first.
	Push(ctx context.Context, userID, query string) ([]string, error)
	List(ctx context.Context, userID string) ([]string, error)
	Clear(ctx context.Context, userID string) error
}

type SearchUsecase interface {
	// Quick returns the top results for the inline dropdown.
	Quick(ctx context.Context, query string) (*SearchResponse, error)
	// Search returns every ranked match that passes filter. It is not
	// read-only: when ctx carries a user, a non-blank query is pushed onto
	// that user's recent searches.
	Search(ctx context.Context, query string, filter SearchFilter) (*SearchResponse, error)
	RecentSearches(ctx context.Context) ([]string, error)
	RecordSearch(ctx context.Context, query string) ([]string, error)
	ClearRecentSearches(ctx context.Context) error
}
