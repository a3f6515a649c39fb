package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bull/iris-search/internal/logging"
	"github.com/bull/iris-search/internal/storage"
)

// Persister stores the serialized conversation map.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// snapshot is the persisted shape. The current conversation is not part of it.
type snapshot struct {
	Conversations map[string]*Thread `json:"conversations"`
}

// Store owns every Thread. All methods are safe for concurrent use; each
// mutation happens under one lock and is persisted before the lock is released.
type Store struct {
	mu            sync.Mutex
	conversations map[string]*Thread
	current       string

	persister Persister
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock replaces time.Now. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore loads any existing conversations from p. A nil persister keeps
// everything in memory.
func NewStore(ctx context.Context, p Persister, opts ...Option) (*Store, error) {
	s := &Store{
		conversations: make(map[string]*Thread),
		persister:     p,
		logger:        slog.Default(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if p == nil {
		return s, nil
	}
	data, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCorruptState, err)
	}
	for id, thread := range snap.Conversations {
		if thread == nil || len(thread.Messages) == 0 {
			continue
		}
		thread.ID = id
		s.conversations[id] = thread
	}
	return s, nil
}

// CreateConversation registers a thread seeded with question and makes it
// current.
func (s *Store) CreateConversation(ctx context.Context, question, collection string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := newID(question)
	for s.conversations[id] != nil {
		id = newID(question)
	}

	now := s.timestamp()
	s.conversations[id] = &Thread{
		ID:    id,
		Title: Title(question),
		Messages: []Message{{
			ID:        uuid.NewString(),
			Type:      TypeQuestion,
			Content:   question,
			Timestamp: now,
		}},
		Collection: collection,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.current = id
	s.persistLocked(ctx)
	return id
}

// AddMessage appends a message and returns its id. It reports false and
// changes nothing if the conversation does not exist.
func (s *Store) AddMessage(ctx context.Context, conversationID string, in MessageInput) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread, ok := s.conversations[conversationID]
	if !ok {
		return "", false
	}

	msg := Message{
		ID:        uuid.NewString(),
		Type:      in.Type,
		Content:   in.Content,
		Timestamp: s.timestamp(),
		IsLoading: in.IsLoading,
	}
	if in.Sources != nil {
		msg.Sources = cloneSources(in.Sources)
	}
	thread.Messages = append(thread.Messages, msg)
	s.touchLocked(thread, msg.Timestamp)
	s.persistLocked(ctx)
	return msg.ID, true
}

// UpdateMessage merges u into the message. A message that stopped loading
// never loads again, and editing cannot start while a message is loading;
// such fields are ignored. It reports false if either id is unknown.
func (s *Store) UpdateMessage(ctx context.Context, conversationID, messageID string, u MessageUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread, msg := s.findLocked(conversationID, messageID)
	if msg == nil {
		return false
	}

	if u.Content != nil {
		msg.Content = *u.Content
	}
	if u.Sources != nil {
		msg.Sources = cloneSources(u.Sources)
	}
	if u.IsLoading != nil && (!*u.IsLoading || msg.IsLoading) {
		msg.IsLoading = *u.IsLoading
	}
	if u.IsEditing != nil && (!*u.IsEditing || !msg.IsLoading) {
		msg.IsEditing = *u.IsEditing
	}

	s.touchLocked(thread, s.timestamp())
	s.persistLocked(ctx)
	return true
}

// StartEditingMessage sets IsEditing on the message.
func (s *Store) StartEditingMessage(ctx context.Context, conversationID, messageID string) bool {
	return s.UpdateMessage(ctx, conversationID, messageID, MessageUpdate{IsEditing: Bool(true)})
}

// StopEditingMessage clears IsEditing on the message.
func (s *Store) StopEditingMessage(ctx context.Context, conversationID, messageID string) bool {
	return s.UpdateMessage(ctx, conversationID, messageID, MessageUpdate{IsEditing: Bool(false)})
}

// DeleteMessage removes one message. The seed question cannot be removed
// while it is the only message, which keeps every thread non-empty.
func (s *Store) DeleteMessage(ctx context.Context, conversationID, messageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread, ok := s.conversations[conversationID]
	if !ok {
		return false
	}
	for i, m := range thread.Messages {
		if m.ID != messageID {
			continue
		}
		if len(thread.Messages) == 1 {
			return false
		}
		thread.Messages = append(thread.Messages[:i], thread.Messages[i+1:]...)
		s.touchLocked(thread, s.timestamp())
		s.persistLocked(ctx)
		return true
	}
	return false
}

// DeleteConversation removes a thread and clears it as current.
func (s *Store) DeleteConversation(ctx context.Context, conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return false
	}
	delete(s.conversations, conversationID)
	if s.current == conversationID {
		s.current = ""
	}
	s.persistLocked(ctx)
	return true
}

// GetConversation returns a copy of the thread.
func (s *Store) GetConversation(conversationID string) (*Thread, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread, ok := s.conversations[conversationID]
	if !ok {
		return nil, false
	}
	return thread.clone(), true
}

// ListConversations returns summaries ordered by UpdatedAt, newest first.
func (s *Store) ListConversations() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Summary, 0, len(s.conversations))
	for _, t := range s.conversations {
		items = append(items, Summary{
			ID:           t.ID,
			Title:        t.Title,
			Collection:   t.Collection,
			MessageCount: len(t.Messages),
			CreatedAt:    t.CreatedAt,
			UpdatedAt:    t.UpdatedAt,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})
	return items
}

// SetCurrentConversation points at an existing thread, or clears the pointer
// when id is empty.
func (s *Store) SetCurrentConversation(conversationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conversationID == "" {
		s.current = ""
		return true
	}
	if _, ok := s.conversations[conversationID]; !ok {
		return false
	}
	s.current = conversationID
	return true
}

// CurrentConversation returns the current thread id, if any.
func (s *Store) CurrentConversation() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != ""
}

// Snapshot serializes every thread in the persisted format.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marshalLocked()
}

func (s *Store) findLocked(conversationID, messageID string) (*Thread, *Message) {
	thread, ok := s.conversations[conversationID]
	if !ok {
		return nil, nil
	}
	for i := range thread.Messages {
		if thread.Messages[i].ID == messageID {
			return thread, &thread.Messages[i]
		}
	}
	return thread, nil
}

// touchLocked advances UpdatedAt strictly, even when the clock has not moved.
func (s *Store) touchLocked(t *Thread, at time.Time) {
	if !at.After(t.UpdatedAt) {
		at = t.UpdatedAt.Add(time.Nanosecond)
	}
	t.UpdatedAt = at
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Round(0)
}

func (s *Store) marshalLocked() ([]byte, error) {
	return json.Marshal(snapshot{Conversations: s.conversations})
}

// persistLocked writes the snapshot. Failures are logged; memory stays
// authoritative.
func (s *Store) persistLocked(ctx context.Context) {
	if s.persister == nil {
		return
	}
	ctx = logging.WithFields(ctx, logging.Fields{Component: "iris.conversation"})

	data, err := s.marshalLocked()
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode conversations", "error", err)
		return
	}
	if err := s.persister.Save(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "failed to persist conversations",
			"error", err, "conversations", len(s.conversations))
	}
}
