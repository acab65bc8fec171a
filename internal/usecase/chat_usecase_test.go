package usecase_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"skillmates-backend/internal/domain"
	"skillmates-backend/internal/usecase"
	"skillmates-backend/pkg/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pairChat() *domain.Chat {
	return &domain.Chat{
		ID:               domain.PairKey(alice, bob),
		Participants:     []string{alice, bob},
		ParticipantNames: map[string]string{alice: "Alice", bob: "Bob"},
	}
}

func TestSendMessage(t *testing.T) {
	t.Run("Should reject blank and oversized messages", func(t *testing.T) {
		uc := usecase.NewChatUsecase(new(MockChatRepo), new(MockProfileRepo), nil)

		_, err := uc.SendMessage(userCtx(alice), "x", "   ")
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))

		_, err = uc.SendMessage(userCtx(alice), "x", strings.Repeat("a", domain.MaxMessageLength+1))
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	})

	t.Run("Should forbid non-participants", func(t *testing.T) {
		chats := new(MockChatRepo)
		uc := usecase.NewChatUsecase(chats, new(MockProfileRepo), nil)
		chats.On("GetByID", mock.Anything, "c").Return(pairChat(), nil)

		_, err := uc.SendMessage(userCtx("mallory"), "c", "hi")
		assert.Equal(t, http.StatusForbidden, appCode(t, err))
		chats.AssertNotCalled(t, "AddMessage", mock.Anything, mock.Anything)
	})

	t.Run("Should store, trim and push the message", func(t *testing.T) {
		chats := new(MockChatRepo)
		profiles := new(MockProfileRepo)
		pub := &recordingPublisher{}
		uc := usecase.NewChatUsecase(chats, profiles, pub)

		chat := pairChat()
		chats.On("GetByID", mock.Anything, chat.ID).Return(chat, nil)
		profiles.On("GetSummaries", mock.Anything, []string{alice}).Return(map[string]domain.MemberSummary{}, nil)
		chats.On("AddMessage", mock.Anything, mock.AnythingOfType("*domain.Message")).Return(nil)

		msg, err := uc.SendMessage(userCtx(alice), chat.ID, "  hello  ")
		require.NoError(t, err)
		assert.Equal(t, "hello", msg.Text)
		assert.Equal(t, "Alice", msg.SenderName)

		require.Len(t, pub.events, 1)
		assert.Equal(t, realtime.EventMessage, pub.events[0].Event.Type)
		assert.ElementsMatch(t, []string{alice, bob}, pub.events[0].UserIDs)
	})
}

func TestListChats(t *testing.T) {
	chats := new(MockChatRepo)
	profiles := new(MockProfileRepo)
	uc := usecase.NewChatUsecase(chats, profiles, nil)

	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	carol := "33333333-3333-4333-8333-333333333333"

	chats.On("ListByParticipant", mock.Anything, alice).Return([]domain.Chat{
		{ID: domain.PairKey(alice, bob), Participants: []string{alice, bob}, ParticipantNames: map[string]string{bob: "Bob"}, LastMessageAt: &older},
		{ID: domain.PairKey(alice, carol), Participants: []string{alice, carol}, ParticipantNames: map[string]string{carol: "Carol"}, CreatedAt: newer},
	}, nil)
	profiles.On("GetSummaries", mock.Anything, []string{bob, carol}).Return(map[string]domain.MemberSummary{
		bob: {UserID: bob, Name: "Bobby", Role: domain.RoleTeacher},
	}, nil)

	out, err := uc.ListChats(userCtx(alice))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Carol", out[0].Other.Name, "deleted user falls back to participant name")
	assert.Equal(t, "Bobby", out[1].Other.Name)
}

func TestDeleteChat(t *testing.T) {
	chats := new(MockChatRepo)
	pub := &recordingPublisher{}
	uc := usecase.NewChatUsecase(chats, new(MockProfileRepo), pub)

	chat := pairChat()
	chats.On("GetByID", mock.Anything, chat.ID).Return(chat, nil)
	chats.On("Delete", mock.Anything, chat.ID).Return(nil)

	require.NoError(t, uc.DeleteChat(userCtx(bob), chat.ID))
	assert.Equal(t, []string{realtime.EventChatDeleted}, pub.types())

	err := uc.DeleteChat(userCtx("mallory"), chat.ID)
	assert.Equal(t, http.StatusForbidden, appCode(t, err))
}

func TestGetMessages_NotFound(t *testing.T) {
	chats := new(MockChatRepo)
	uc := usecase.NewChatUsecase(chats, new(MockProfileRepo), nil)
	chats.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	_, err := uc.GetMessages(userCtx(alice), "missing")
	assert.Equal(t, http.StatusNotFound, appCode(t, err))
}
