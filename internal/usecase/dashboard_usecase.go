package usecase

import (
	"context"

	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/apperror"

	"golang.org/x/sync/errgroup"
)

type dashboardUsecase struct {
	connRepo domain.ConnectionRepository
	chatRepo domain.ChatRepository
}

func NewDashboardUsecase(connRepo domain.ConnectionRepository, chatRepo domain.ChatRepository) domain.DashboardUsecase {
	return &dashboardUsecase{connRepo: connRepo, chatRepo: chatRepo}
}

func (u *dashboardUsecase) GetStats(ctx context.Context) (*domain.DashboardStats, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	var stats domain.DashboardStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Connections, err = u.connRepo.CountAccepted(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		stats.Chats, err = u.chatRepo.CountByParticipant(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingRequests, err = u.connRepo.CountIncomingPending(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.Internal(err)
	}
	return &stats, nil
}
