// Package conversation is the registry of chat threads and the only place
// their messages are mutated.
package conversation

import "time"

// MessageType distinguishes the user's questions from the assistant's answers.
type MessageType string

const (
	TypeQuestion MessageType = "question"
	TypeAnswer   MessageType = "answer"
)

// MaxTitleLength bounds Thread.Title in runes.
const MaxTitleLength = 50

// DocumentReference is a cited source attached to an answer.
type DocumentReference struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Filename   string   `json:"filename"`
	URL        string   `json:"url,omitempty"`
	Collection string   `json:"collection,omitempty"`
	Source     string   `json:"source,omitempty"`
	Similarity *float64 `json:"similarity,omitempty"`
	Page       *int     `json:"page,omitempty"`
}

// Message is owned by exactly one Thread. Its ID and Timestamp never change.
type Message struct {
	ID        string              `json:"id"`
	Type      MessageType         `json:"type"`
	Content   string              `json:"content"`
	Timestamp time.Time           `json:"timestamp"`
	IsEditing bool                `json:"isEditing,omitempty"`
	IsLoading bool                `json:"isLoading,omitempty"`
	Sources   []DocumentReference `json:"sources,omitempty"`
}

// Thread is one conversation. Messages are in insertion order and never empty.
type Thread struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Messages   []Message `json:"messages"`
	Collection string    `json:"collection,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Last returns the most recent message.
func (t *Thread) Last() (Message, bool) {
	if len(t.Messages) == 0 {
		return Message{}, false
	}
	return t.Messages[len(t.Messages)-1], true
}

// Message finds a message by id.
func (t *Thread) Message(id string) (Message, bool) {
	for _, m := range t.Messages {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

// MessageInput is a new message before the store assigns id and timestamp.
type MessageInput struct {
	Type      MessageType
	Content   string
	IsLoading bool
	Sources   []DocumentReference
}

// MessageUpdate is a partial update; nil fields are left unchanged.
type MessageUpdate struct {
	Content   *string
	IsLoading *bool
	IsEditing *bool
	Sources   []DocumentReference
}

// Summary is the list view of a thread.
type Summary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Collection   string    `json:"collection,omitempty"`
	MessageCount int       `json:"messageCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (t *Thread) clone() *Thread {
	c := *t
	c.Messages = make([]Message, len(t.Messages))
	for i, m := range t.Messages {
		c.Messages[i] = m.clone()
	}
	return &c
}

func (m Message) clone() Message {
	if m.Sources != nil {
		m.Sources = cloneSources(m.Sources)
	}
	return m
}

func cloneSources(in []DocumentReference) []DocumentReference {
	out := make([]DocumentReference, len(in))
	for i, ref := range in {
		if ref.Similarity != nil {
			v := *ref.Similarity
			ref.Similarity = &v
		}
		if ref.Page != nil {
			v := *ref.Page
			ref.Page = &v
		}
		out[i] = ref
	}
	return out
}

// Helpers for building a MessageUpdate.
func String(s string) *string { return &s }
func Bool(b bool) *bool       { return &b }
