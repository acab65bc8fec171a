package usecase_test

import (
	"context"
	"sync"
	"time"

	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/realtime"

	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User, profile *domain.Profile) error {
	return m.Called(ctx, user, profile).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockProfileRepo) UpdateSkills(ctx context.Context, userID string, skills []string) error {
	return m.Called(ctx, userID, skills).Error(0)
}
func (m *MockProfileRepo) UpdatePhoto(ctx context.Context, userID, url string) error {
	return m.Called(ctx, userID, url).Error(0)
}
func (m *MockProfileRepo) List(ctx context.Context, f domain.DirectoryFilter, excludeID string) ([]domain.Profile, int, error) {
	args := m.Called(ctx, f, excludeID)
	return args.Get(0).([]domain.Profile), args.Int(1), args.Error(2)
}
func (m *MockProfileRepo) ListAll(ctx context.Context) ([]domain.Profile, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) GetSummaries(ctx context.Context, ids []string) (map[string]domain.MemberSummary, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[string]domain.MemberSummary), args.Error(1)
}

type MockConnectionRepo struct {
	mock.Mock
}

func (m *MockConnectionRepo) Create(ctx context.Context, c *domain.Connection) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockConnectionRepo) GetByID(ctx context.Context, id string) (*domain.Connection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Connection), args.Error(1)
}
func (m *MockConnectionRepo) Between(ctx context.Context, a, b string) ([]domain.Connection, error) {
	args := m.Called(ctx, a, b)
	return args.Get(0).([]domain.Connection), args.Error(1)
}
func (m *MockConnectionRepo) ListForUser(ctx context.Context, userID string) ([]domain.Connection, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Connection), args.Error(1)
}
func (m *MockConnectionRepo) ListIncomingPending(ctx context.Context, userID string) ([]domain.Connection, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Connection), args.Error(1)
}
func (m *MockConnectionRepo) ListAccepted(ctx context.Context, userID string) ([]domain.Connection, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Connection), args.Error(1)
}
func (m *MockConnectionRepo) UpdateStatus(ctx context.Context, id string, status domain.ConnectionStatus, at time.Time) error {
	return m.Called(ctx, id, status, at).Error(0)
}
func (m *MockConnectionRepo) CountAccepted(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
func (m *MockConnectionRepo) CountIncomingPending(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MockChatRepo struct {
	mock.Mock
}

func (m *MockChatRepo) Upsert(ctx context.Context, c *domain.Chat) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockChatRepo) GetByID(ctx context.Context, id string) (*domain.Chat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chat), args.Error(1)
}
func (m *MockChatRepo) ListByParticipant(ctx context.Context, userID string) ([]domain.Chat, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Chat), args.Error(1)
}
func (m *MockChatRepo) CountByParticipant(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
func (m *MockChatRepo) AddMessage(ctx context.Context, msg *domain.Message) error {
	return m.Called(ctx, msg).Error(0)
}
func (m *MockChatRepo) ListMessages(ctx context.Context, chatID string) ([]domain.Message, error) {
	args := m.Called(ctx, chatID)
	return args.Get(0).([]domain.Message), args.Error(1)
}
func (m *MockChatRepo) Delete(ctx context.Context, chatID string) error {
	return m.Called(ctx, chatID).Error(0)
}

type MockRecentRepo struct {
	mock.Mock
}

func (m *MockRecentRepo) Push(ctx context.Context, userID, query string) ([]string, error) {
	args := m.Called(ctx, userID, query)
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockRecentRepo) List(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockRecentRepo) Clear(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Event   realtime.Event
	UserIDs []string
}

func (p *recordingPublisher) Publish(event realtime.Event, userIDs ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Event: event, UserIDs: userIDs})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event.Type)
	}
	return out
}

func userCtx(id string) context.Context {
	return context.WithValue(context.Background(), domain.KeyUserID, id)
}
