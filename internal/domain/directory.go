package domain

import "context"

type DirectoryFilter struct {
	Role      string
	Expertise string
	Page      int
	PageSize  int
}

// Normalize applies paging defaults and clears "all" filters.
func (f *DirectoryFilter) Normalize() {
	if f.Role == FilterAll {
		f.Role = ""
	}
	if f.Expertise == FilterAll {
		f.Expertise = ""
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
}

type Member struct {
	Profile
	ConnectionStatus ViewerStatus `json:"connection_status"`
}

type MemberPage struct {
	Members  []Member `json:"members"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
}

type DirectoryUsecase interface {
	ListMembers(ctx context.Context, filter DirectoryFilter) (*MemberPage, error)
}
