package usecase

import (
	"context"
	"errors"
	"time"

	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/apperror"
	"skillmates-backend/pkg/logger"
	"skillmates-backend/pkg/realtime"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type connectionUsecase struct {
	connRepo    domain.ConnectionRepository
	userRepo    domain.UserRepository
	profileRepo domain.ProfileRepository
	chatRepo    domain.ChatRepository
	publisher   Publisher
	validate    *validator.Validate
	now         func() time.Time
}

func NewConnectionUsecase(
	connRepo domain.ConnectionRepository,
	userRepo domain.UserRepository,
	profileRepo domain.ProfileRepository,
	chatRepo domain.ChatRepository,
	publisher Publisher,
	validate *validator.Validate,
) domain.ConnectionUsecase {
	return &connectionUsecase{
		connRepo:    connRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		chatRepo:    chatRepo,
		publisher:   publisherOrNoop(publisher),
		validate:    validate,
		now:         time.Now,
	}
}

func (u *connectionUsecase) SendRequest(ctx context.Context, toUserID string) (*domain.Connection, error) {
	fromID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(u.validate, domain.SendConnectionRequest{ToUserID: toUserID}); err != nil {
		return nil, err
	}
	if toUserID == fromID {
		return nil, apperror.BadRequest("You cannot send a request to yourself")
	}

	exists, err := u.userRepo.Exists(ctx, toUserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !exists {
		return nil, apperror.NotFound("User not found")
	}

	existing, err := u.connRepo.Between(ctx, fromID, toUserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	for _, c := range existing {
		switch c.Status {
		case domain.ConnectionAccepted:
			return nil, apperror.Conflict("You are already connected with this user")
		case domain.ConnectionPending:
			return nil, apperror.Conflict("Connection request already sent")
		}
	}

	names, err := u.profileRepo.GetSummaries(ctx, []string{fromID, toUserID})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	conn := &domain.Connection{
		ID:         uuid.NewString(),
		FromUserID: fromID,
		FromName:   nameOr(names, fromID),
		ToUserID:   toUserID,
		ToName:     nameOr(names, toUserID),
		Status:     domain.ConnectionPending,
		CreatedAt:  u.now().UTC(),
	}
	if err := u.connRepo.Create(ctx, conn); err != nil {
		return nil, wrapRepoErr(err, "User not found")
	}

	u.publisher.Publish(realtime.Event{Type: realtime.EventConnectionSent, Payload: conn}, toUserID)
	return conn, nil
}

func (u *connectionUsecase) ListIncoming(ctx context.Context) ([]domain.Connection, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	conns, err := u.connRepo.ListIncomingPending(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return conns, nil
}

func (u *connectionUsecase) Respond(ctx context.Context, id string, status domain.ConnectionStatus) (*domain.Connection, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(u.validate, domain.RespondConnectionRequest{Status: status}); err != nil {
		return nil, err
	}

	conn, err := u.connRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapRepoErr(err, "Connection request not found")
	}
	if conn.ToUserID != userID {
		return nil, apperror.Forbidden("Only the recipient can respond to this request")
	}
	if conn.Status != domain.ConnectionPending {
		return nil, apperror.Conflict("This request has already been answered")
	}

	respondedAt := u.now().UTC()
	if err := u.connRepo.UpdateStatus(ctx, id, status, respondedAt); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Conflict("This request has already been answered")
		}
		return nil, apperror.Internal(err)
	}
	conn.Status = status
	conn.RespondedAt = &respondedAt

	u.publisher.Publish(realtime.Event{Type: realtime.EventConnectionDone, Payload: conn}, conn.FromUserID)

	if status == domain.ConnectionAccepted {
		u.openChat(ctx, conn)
	}
	return conn, nil
}

// openChat creates the pair's chat. The connection is already accepted, so
// failures are logged rather than returned.
func (u *connectionUsecase) openChat(ctx context.Context, conn *domain.Connection) {
	chat := &domain.Chat{
		ID:           domain.PairKey(conn.FromUserID, conn.ToUserID),
		Participants: []string{conn.FromUserID, conn.ToUserID},
		ParticipantNames: map[string]string{
			conn.FromUserID: conn.FromName,
			conn.ToUserID:   conn.ToName,
		},
		ConnectionID: conn.ID,
		CreatedAt:    u.now().UTC(),
	}
	if err := u.chatRepo.Upsert(ctx, chat); err != nil {
		logger.Log.Error("failed to create chat for accepted connection",
			"connection_id", conn.ID, "chat_id", chat.ID, "error", err)
		return
	}
	u.publisher.Publish(realtime.Event{Type: realtime.EventChatCreated, ChatID: chat.ID, Payload: chat}, chat.Participants...)
}

func (u *connectionUsecase) ListSkillmates(ctx context.Context) ([]domain.Skillmate, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	conns, err := u.connRepo.ListAccepted(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	ids := make([]string, 0, len(conns))
	for _, c := range conns {
		ids = append(ids, c.Other(userID))
	}
	summaries, err := u.profileRepo.GetSummaries(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	mates := make([]domain.Skillmate, 0, len(conns))
	for _, c := range conns {
		other := c.Other(userID)
		member, ok := summaries[other]
		if !ok {
			name := c.FromName
			if other == c.ToUserID {
				name = c.ToName
			}
			member = domain.MemberSummary{UserID: other, Name: name}
		}
		mates = append(mates, domain.Skillmate{Connection: c, Member: member})
	}
	return mates, nil
}

func nameOr(summaries map[string]domain.MemberSummary, id string) string {
	if s, ok := summaries[id]; ok && s.Name != "" {
		return s.Name
	}
	return "User"
}
