package usecase

import (
	"context"

	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/apperror"
)

type directoryUsecase struct {
	profileRepo domain.ProfileRepository
	connRepo    domain.ConnectionRepository
}

func NewDirectoryUsecase(profileRepo domain.ProfileRepository, connRepo domain.ConnectionRepository) domain.DirectoryUsecase {
	return &directoryUsecase{profileRepo: profileRepo, connRepo: connRepo}
}

func (u *directoryUsecase) ListMembers(ctx context.Context, filter domain.DirectoryFilter) (*domain.MemberPage, error) {
	viewerID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	filter.Normalize()

	profiles, total, err := u.profileRepo.List(ctx, filter, viewerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	conns, err := u.connRepo.ListForUser(ctx, viewerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	members := make([]domain.Member, 0, len(profiles))
	for _, p := range profiles {
		members = append(members, domain.Member{
			Profile:          p,
			ConnectionStatus: domain.ResolveViewerStatus(viewerID, p.UserID, conns),
		})
	}

	return &domain.MemberPage{
		Members:  members,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}
