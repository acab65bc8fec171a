package usecase

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/apperror"
	"skillmates-backend/pkg/metrics"
	"skillmates-backend/pkg/realtime"

	"github.com/google/uuid"
)

type chatUsecase struct {
	chatRepo    domain.ChatRepository
	profileRepo domain.ProfileRepository
	publisher   Publisher
	now         func() time.Time
}

func NewChatUsecase(chatRepo domain.ChatRepository, profileRepo domain.ProfileRepository, publisher Publisher) domain.ChatUsecase {
	return &chatUsecase{
		chatRepo:    chatRepo,
		profileRepo: profileRepo,
		publisher:   publisherOrNoop(publisher),
		now:         time.Now,
	}
}

// participantChat loads the chat and checks the caller belongs to it.
func (u *chatUsecase) participantChat(ctx context.Context, chatID string) (string, *domain.Chat, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return "", nil, err
	}
	chat, err := u.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return "", nil, wrapRepoErr(err, "Chat not found")
	}
	if !chat.HasParticipant(userID) {
		return "", nil, apperror.Forbidden("You are not a participant in this chat")
	}
	return userID, chat, nil
}

func (u *chatUsecase) ListChats(ctx context.Context) ([]domain.ChatSummary, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	chats, err := u.chatRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	others := make([]string, 0, len(chats))
	for i := range chats {
		others = append(others, chats[i].OtherParticipant(userID))
	}
	summaries, err := u.profileRepo.GetSummaries(ctx, others)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	out := make([]domain.ChatSummary, 0, len(chats))
	for _, c := range chats {
		other := c.OtherParticipant(userID)
		member, ok := summaries[other]
		if !ok {
			name := c.ParticipantNames[other]
			if name == "" {
				name = "User"
			}
			member = domain.MemberSummary{UserID: other, Name: name}
		}
		out = append(out, domain.ChatSummary{Chat: c, Other: member})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActivity().After(out[j].LastActivity())
	})
	return out, nil
}

func (u *chatUsecase) GetMessages(ctx context.Context, chatID string) ([]domain.Message, error) {
	if _, _, err := u.participantChat(ctx, chatID); err != nil {
		return nil, err
	}
	msgs, err := u.chatRepo.ListMessages(ctx, chatID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return msgs, nil
}

func (u *chatUsecase) SendMessage(ctx context.Context, chatID, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.BadRequest("Message cannot be empty")
	}
	if utf8.RuneCountInString(text) > domain.MaxMessageLength {
		return nil, apperror.BadRequest("Message must be at most 2000 characters")
	}

	userID, chat, err := u.participantChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:         uuid.NewString(),
		ChatID:     chat.ID,
		SenderID:   userID,
		SenderName: u.senderName(ctx, chat, userID),
		Text:       text,
		SentAt:     u.now().UTC(),
	}
	if err := u.chatRepo.AddMessage(ctx, msg); err != nil {
		return nil, wrapRepoErr(err, "Chat not found")
	}
	metrics.IncMessages()

	u.publisher.Publish(realtime.Event{Type: realtime.EventMessage, ChatID: chat.ID, Payload: msg}, chat.Participants...)
	return msg, nil
}

func (u *chatUsecase) senderName(ctx context.Context, chat *domain.Chat, userID string) string {
	if summaries, err := u.profileRepo.GetSummaries(ctx, []string{userID}); err == nil {
		if s, ok := summaries[userID]; ok {
			return s.Name
		}
	}
	if name := chat.ParticipantNames[userID]; name != "" {
		return name
	}
	return "User"
}

func (u *chatUsecase) DeleteChat(ctx context.Context, chatID string) error {
	_, chat, err := u.participantChat(ctx, chatID)
	if err != nil {
		return err
	}
	if err := u.chatRepo.Delete(ctx, chatID); err != nil {
		return wrapRepoErr(err, "Chat not found")
	}
	u.publisher.Publish(realtime.Event{Type: realtime.EventChatDeleted, ChatID: chatID}, chat.Participants...)
	return nil
}
