package conversation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/iris-search/internal/storage"
)

func newTestStore(t *testing.T, p Persister) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), p, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return s
}

// frozenClock always returns the same instant.
func frozenClock() func() time.Time {
	at := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

// tickingClock advances one second on every call.
func tickingClock() func() time.Time {
	at := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		at = at.Add(time.Second)
		return at
	}
}

func TestCreateConversation_SeedsQuestion(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	id := s.CreateConversation(ctx, "What is X?", "metal-patents")

	thread, ok := s.GetConversation(id)
	require.True(t, ok)
	require.Len(t, thread.Messages, 1)
	assert.Equal(t, TypeQuestion, thread.Messages[0].Type)
	assert.Equal(t, "What is X?", thread.Messages[0].Content)
	assert.Equal(t, "What is X?", thread.Title)
	assert.Equal(t, "metal-patents", thread.Collection)
	assert.True(t, strings.HasPrefix(id, "what-is-x-"), id)

	current, ok := s.CurrentConversation()
	require.True(t, ok)
	assert.Equal(t, id, current)
}

func TestCreateConversation_UniqueIDs(t *testing.T) {
	s := newTestStore(t, nil)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := s.CreateConversation(context.Background(), "same question", "")
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, s.ListConversations(), 50)
}

func TestAddThenUpdate_TransitionsLoading(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()
	id := s.CreateConversation(ctx, "q", "")

	msgID, ok := s.AddMessage(ctx, id, MessageInput{Type: TypeAnswer, IsLoading: true})
	require.True(t, ok)

	before, _ := s.GetConversation(id)
	created, _ := before.Last()
	require.True(t, created.IsLoading)
	assert.Empty(t, created.Content)

	similarity := 91.0
	ok = s.UpdateMessage(ctx, id, msgID, MessageUpdate{
		Content:   String("filled"),
		IsLoading: Bool(false),
		Sources:   []DocumentReference{{ID: "source-0", Title: "t", Filename: "f.pdf", Similarity: &similarity}},
	})
	require.True(t, ok)

	after, _ := s.GetConversation(id)
	filled, _ := after.Last()
	assert.False(t, filled.IsLoading)
	assert.Equal(t, "filled", filled.Content)
	assert.Equal(t, created.ID, filled.ID)
	assert.True(t, created.Timestamp.Equal(filled.Timestamp))
	require.Len(t, filled.Sources, 1)
	assert.Equal(t, 91.0, *filled.Sources[0].Similarity)
}

func TestUpdateMessage_FilledNeverReturnsToLoading(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()
	id := s.CreateConversation(ctx, "q", "")
	msgID, _ := s.AddMessage(ctx, id, MessageInput{Type: TypeAnswer, IsLoading: true})
	require.True(t, s.UpdateMessage(ctx, id, msgID, MessageUpdate{Content: String("a"), IsLoading: Bool(false)}))

	s.UpdateMessage(ctx, id, msgID, MessageUpdate{IsLoading: Bool(true)})

	thread, _ := s.GetConversation(id)
	last, _ := thread.Last()
	assert.False(t, last.IsLoading)
}

func TestEditing_IgnoredWhileLoading(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()
	id := s.CreateConversation(ctx, "q", "")
	msgID, _ := s.AddMessage(ctx, id, MessageInput{Type: TypeAnswer, IsLoading: true})

	s.StartEditingMessage(ctx, id, msgID)
	thread, _ := s.GetConversation(id)
	last, _ := thread.Last()
	assert.False(t, last.IsEditing)
}

func TestEditing_StartAndStop(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()
	id := s.CreateConversation(ctx, "q", "")
	thread, _ := s.GetConversation(id)
	questionID := thread.Messages[0].ID

	require.True(t, s.StartEditingMessage(ctx, id, questionID))
	thread, _ = s.GetConversation(id)
	assert.True(t, thread.Messages[0].IsEditing)

	require.True(t, s.UpdateMessage(ctx, id, questionID, MessageUpdate{Content: String("q2"), IsEditing: Bool(false)}))
	thread, _ = s.GetConversation(id)
	assert.False(t, thread.Messages[0].IsEditing)
	assert.Equal(t, "q2", thread.Messages[0].Content)

	require.True(t, s.StopEditingMessage(ctx, id, questionID))
}

func TestUnknownIDs_LeaveStateUnchanged(t *testing.T) {
	mem := storage.NewMemoryStorage()
	s := newTestStore(t, mem)
	ctx := context.Background()
	id := s.CreateConversation(ctx, "q", "")
	thread, _ := s.GetConversation(id)

	before, err := s.Snapshot()
	require.NoError(t, err)
	saves := mem.Saves()

	_, ok := s.AddMessage(ctx, "missing", MessageInput{Type: TypeQuestion, Content: "x"})
	assert.False(t, ok)
	assert.False(t, s.UpdateMessage(ctx, "missing", thread.Messages[0].ID, MessageUpdate{Content: String("x")}))
	assert.False(t, s.UpdateMessage(ctx, id, "missing", MessageUpdate{Content: String("x")}))
	assert.False(t, s.DeleteMessage(ctx, id, "missing"))
	assert.False(t, s.DeleteConversation(ctx, "missing"))
	assert.False(t, s.StartEditingMessage(ctx, "missing", "missing"))

	after, err := s.Snapshot()
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
	assert.Equal(t, saves, mem.Saves())
}

func TestUpdatedAt_StrictlyIncreases(t *testing.T) {
	s, err := NewStore(context.Background(), nil, WithClock(frozenClock()))
	require.NoError(t, err)
	ctx := context.Background()
	id := s.CreateConversation(ctx, "q", "")

	prev, _ := s.GetConversation(id)
	for i := 0; i < 3; i++ {
		s.AddMessage(ctx, id, MessageInput{Type: TypeAnswer, Content: "a"})
		next, _ := s.GetConversation(id)
		assert.True(t, next.UpdatedAt.After(prev.UpdatedAt))
		prev = next
	}
}

func TestDeleteMessage_KeepsSeed(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()
	id := s.CreateConversation(ctx, "q", "")
	thread, _ := s.GetConversation(id)

	assert.False(t, s.DeleteMessage(ctx, id, thread.Messages[0].ID))

	answerID, _ := s.AddMessage(ctx, id, MessageInput{Type: TypeAnswer, Content: "a"})
	assert.True(t, s.DeleteMessage(ctx, id, answerID))
	thread, _ = s.GetConversation(id)
	assert.Len(t, thread.Messages, 1)
}

func TestDeleteConversation_ClearsCurrent(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()
	id := s.CreateConversation(ctx, "q", "")

	assert.True(t, s.DeleteConversation(ctx, id))
	_, ok := s.GetConversation(id)
	assert.False(t, ok)
	_, ok = s.CurrentConversation()
	assert.False(t, ok)
}

func TestGetConversation_ReturnsCopy(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()
	id := s.CreateConversation(ctx, "q", "")

	thread, _ := s.GetConversation(id)
	thread.Messages[0].Content = "mutated"
	thread.Title = "mutated"

	again, _ := s.GetConversation(id)
	assert.Equal(t, "q", again.Messages[0].Content)
	assert.Equal(t, "q", again.Title)
}

func TestListConversations_NewestFirst(t *testing.T) {
	s, err := NewStore(context.Background(), nil, WithClock(tickingClock()))
	require.NoError(t, err)
	ctx := context.Background()
	first := s.CreateConversation(ctx, "first", "")
	second := s.CreateConversation(ctx, "second", "")
	s.AddMessage(ctx, first, MessageInput{Type: TypeAnswer, Content: "bump"})

	list := s.ListConversations()
	require.Len(t, list, 2)
	assert.Equal(t, first, list[0].ID)
	assert.Equal(t, 2, list[0].MessageCount)
	assert.Equal(t, second, list[1].ID)
}

func TestSetCurrentConversation(t *testing.T) {
	s := newTestStore(t, nil)
	id := s.CreateConversation(context.Background(), "q", "")

	assert.False(t, s.SetCurrentConversation("missing"))
	assert.True(t, s.SetCurrentConversation(""))
	_, ok := s.CurrentConversation()
	assert.False(t, ok)
	assert.True(t, s.SetCurrentConversation(id))
}

func TestPersistence_RoundTrip(t *testing.T) {
	mem := storage.NewMemoryStorage()
	ctx := context.Background()
	s := newTestStore(t, mem)

	id := s.CreateConversation(ctx, "How does Bi affect iron loss?", "metal-patents")
	msgID, _ := s.AddMessage(ctx, id, MessageInput{Type: TypeAnswer, IsLoading: true})
	page := 2
	s.UpdateMessage(ctx, id, msgID, MessageUpdate{
		Content:   String("Bi inclusions coarsen grains."),
		IsLoading: Bool(false),
		Sources:   []DocumentReference{{ID: "source-0", Title: "EP2439302", Filename: "EP2439302_A1.pdf", Page: &page}},
	})

	reloaded := newTestStore(t, mem)
	original, _ := s.GetConversation(id)
	got, ok := reloaded.GetConversation(id)
	require.True(t, ok)

	assert.Equal(t, original.ID, got.ID)
	assert.Equal(t, original.Title, got.Title)
	assert.Equal(t, original.Collection, got.Collection)
	require.Len(t, got.Messages, len(original.Messages))
	for i := range original.Messages {
		want, have := original.Messages[i], got.Messages[i]
		assert.Equal(t, want.ID, have.ID)
		assert.Equal(t, want.Type, have.Type)
		assert.Equal(t, want.Content, have.Content)
		assert.Equal(t, want.IsLoading, have.IsLoading)
		assert.Equal(t, want.Sources, have.Sources)
		assert.True(t, want.Timestamp.Equal(have.Timestamp))
	}
	assert.True(t, !got.Messages[1].Timestamp.Before(got.Messages[0].Timestamp))

	_, ok = reloaded.CurrentConversation()
	assert.False(t, ok, "current conversation is not persisted")
}

type failingPersister struct{ loadErr error }

func (f failingPersister) Load(context.Context) ([]byte, error) { return nil, f.loadErr }
func (f failingPersister) Save(context.Context, []byte) error   { return errors.New("disk full") }

func TestPersistence_SaveFailureKeepsMemoryState(t *testing.T) {
	s := newTestStore(t, failingPersister{})
	id := s.CreateConversation(context.Background(), "q", "")
	_, ok := s.GetConversation(id)
	assert.True(t, ok)
}

func TestNewStore_LoadErrors(t *testing.T) {
	_, err := NewStore(context.Background(), failingPersister{loadErr: storage.ErrStorageUnreachable})
	assert.ErrorIs(t, err, storage.ErrStorageUnreachable)

	mem := storage.NewMemoryStorage()
	require.NoError(t, mem.Save(context.Background(), []byte(`{"conversations":[1,2]}`)))
	_, err = NewStore(context.Background(), mem)
	assert.ErrorIs(t, err, storage.ErrCorruptState)
}
