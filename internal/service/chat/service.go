package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/po-simulator/backend/internal/model/chat"
	"github.com/zhouzirui/po-simulator/backend/internal/model/persona"
)

var (
	ErrPlayerRequired  = errors.New("player id is required")
	ErrUnknownRole     = errors.New("unknown persona role")
	ErrContentRequired = errors.New("content is required")
)

// Service 记录玩家与各角色之间的聊天消息，只追加，不修改。
type Service struct {
	mu     sync.RWMutex
	pairs  map[string][]chat.Message
	all    []chat.Message
	now    func() time.Time
	notify func(chat.Message)
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNotifier registers a callback invoked after every append.
func WithNotifier(fn func(chat.Message)) Option {
	return func(s *Service) { s.notify = fn }
}

// NewService bootstraps the in-memory conversation log.
func NewService(opts ...Option) *Service {
	s := &Service{
		pairs: make(map[string][]chat.Message),
		all:   make([]chat.Message, 0, 64),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PairKey identifies the conversation between a player and a persona.
func PairKey(playerID string, role persona.RoleID) string {
	return playerID + "-" + string(role)
}

// AddPrivateMessage records a message from the player to a persona.
func (s *Service) AddPrivateMessage(ctx context.Context, playerID string, role persona.RoleID, content, eventID string) (chat.Message, error) {
	return s.append(ctx, playerID, role, chat.Message{
		SenderID:   playerID,
		ReceiverID: string(role),
		Content:    content,
		EventID:    eventID,
	})
}

// AddPrivateReply records a persona's reply to the player.
func (s *Service) AddPrivateReply(ctx context.Context, role persona.RoleID, playerID, content, eventID string) (chat.Message, error) {
	return s.append(ctx, playerID, role, chat.Message{
		SenderID:   string(role),
		ReceiverID: playerID,
		Content:    content,
		EventID:    eventID,
	})
}

// Append records a message whose direction is inferred from which side is a
// persona. Exactly one of sender and receiver must be a known role.
func (s *Service) Append(ctx context.Context, senderID, receiverID, content, eventID string) (chat.Message, error) {
	senderRole := persona.RoleID(senderID)
	receiverRole := persona.RoleID(receiverID)

	switch {
	case receiverRole.Valid() && !senderRole.Valid():
		return s.AddPrivateMessage(ctx, senderID, receiverRole, content, eventID)
	case senderRole.Valid() && !receiverRole.Valid():
		return s.AddPrivateReply(ctx, senderRole, receiverID, content, eventID)
	default:
		return chat.Message{}, ErrUnknownRole
	}
}

func (s *Service) append(_ context.Context, playerID string, role persona.RoleID, msg chat.Message) (chat.Message, error) {
	if playerID == "" {
		return chat.Message{}, ErrPlayerRequired
	}
	if !role.Valid() {
		return chat.Message{}, ErrUnknownRole
	}
	if msg.Content == "" {
		return chat.Message{}, ErrContentRequired
	}

	msg.ID = uuid.NewString()
	msg.Timestamp = s.now().UTC()

	key := PairKey(playerID, role)
	s.mu.Lock()
	s.pairs[key] = append(s.pairs[key], msg)
	s.all = append(s.all, msg)
	s.mu.Unlock()

	if s.notify != nil {
		s.notify(msg)
	}
	return msg, nil
}

// PairHistory returns the ordered messages between a player and a persona.
func (s *Service) PairHistory(_ context.Context, playerID string, role persona.RoleID) []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := s.pairs[PairKey(playerID, role)]
	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied
}

// AllMessages returns every recorded message in append order.
func (s *Service) AllMessages(_ context.Context) []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]chat.Message, len(s.all))
	copy(copied, s.all)
	return copied
}
