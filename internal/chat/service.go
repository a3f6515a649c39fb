// Package chat drives a conversation the way the chat page does: record the
// question, add a loading answer, then fill it with the search result.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bull/iris-search/internal/conversation"
	"github.com/bull/iris-search/internal/logging"
	"github.com/bull/iris-search/internal/search"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrNotEditable          = errors.New("only a question that is not loading can be edited")
)

const (
	// EmptyAnswer replaces a blank summary.
	EmptyAnswer = "I apologize, but I couldn't generate a response at this time."
	// FailedAnswer replaces the answer when the search call itself fails.
	FailedAnswer = "I apologize, but I encountered an error while processing your request. Please try again."

	// DefaultCollection labels sources that carry no collection.
	DefaultCollection = "General"
)

// Searcher is satisfied by *search.Orchestrator.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.SummaryResponse, error)
}

type Service struct {
	store    *conversation.Store
	searcher Searcher
	logger   *slog.Logger
}

func NewService(store *conversation.Store, searcher Searcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, searcher: searcher, logger: logger}
}

// Store exposes the underlying registry for read access.
func (s *Service) Store() *conversation.Store {
	return s.store
}

// Start creates a conversation for question and answers it.
func (s *Service) Start(ctx context.Context, question, collection string, filter search.Filter) (*conversation.Thread, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, search.ErrInvalidInput
	}
	id := s.store.CreateConversation(ctx, question, collection)
	return s.Respond(ctx, id, question, filter)
}

// Ask appends a follow-up question and answers it.
func (s *Service) Ask(ctx context.Context, conversationID, question string, filter search.Filter) (*conversation.Thread, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, search.ErrInvalidInput
	}
	if _, ok := s.store.AddMessage(ctx, conversationID, conversation.MessageInput{
		Type:    conversation.TypeQuestion,
		Content: question,
	}); !ok {
		return nil, fmt.Errorf("%w: %s", ErrConversationNotFound, conversationID)
	}
	return s.Respond(ctx, conversationID, question, filter)
}

// Respond adds a loading answer to the conversation and fills it. The answer
// never stays loading: a failed search fills it with FailedAnswer. Cancelling
// ctx does not abandon the fill.
func (s *Service) Respond(ctx context.Context, conversationID, question string, filter search.Filter) (*conversation.Thread, error) {
	ctx = logging.WithFields(context.WithoutCancel(ctx), logging.Fields{Component: "iris.chat", ConversationID: conversationID})

	thread, ok := s.store.GetConversation(conversationID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrConversationNotFound, conversationID)
	}
	answerID, ok := s.store.AddMessage(ctx, conversationID, conversation.MessageInput{
		Type:      conversation.TypeAnswer,
		IsLoading: true,
	})
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrConversationNotFound, conversationID)
	}

	resp, err := s.searcher.Search(ctx, search.Request{
		Query:      question,
		Filter:     filter,
		Collection: thread.Collection,
	})

	update := conversation.MessageUpdate{IsLoading: conversation.Bool(false)}
	if err != nil || resp == nil {
		s.logger.WarnContext(ctx, "search failed, answering with apology", "error", err)
		update.Content = conversation.String(FailedAnswer)
	} else {
		content := resp.Summary
		if strings.TrimSpace(content) == "" {
			content = EmptyAnswer
		}
		update.Content = conversation.String(content)
		update.Sources = References(resp.SearchResults, thread.Collection)
	}
	s.store.UpdateMessage(ctx, conversationID, answerID, update)

	thread, ok = s.store.GetConversation(conversationID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrConversationNotFound, conversationID)
	}
	return thread, nil
}

// EditQuestion replaces the content of a question and ends editing. Answers
// and messages still loading are rejected with ErrNotEditable.
func (s *Service) EditQuestion(ctx context.Context, conversationID, messageID, content string) (*conversation.Thread, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, search.ErrInvalidInput
	}
	thread, ok := s.store.GetConversation(conversationID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrConversationNotFound, conversationID)
	}
	msg, ok := thread.Message(messageID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMessageNotFound, messageID)
	}
	if msg.Type != conversation.TypeQuestion || msg.IsLoading {
		return nil, fmt.Errorf("%w: %s", ErrNotEditable, messageID)
	}
	if err := s.update(ctx, conversationID, messageID, conversation.MessageUpdate{
		Content:   conversation.String(content),
		IsEditing: conversation.Bool(false),
	}); err != nil {
		return nil, err
	}
	thread, _ = s.store.GetConversation(conversationID)
	return thread, nil
}

// SetEditing toggles the editing flag of a message.
func (s *Service) SetEditing(ctx context.Context, conversationID, messageID string, editing bool) error {
	return s.update(ctx, conversationID, messageID, conversation.MessageUpdate{IsEditing: conversation.Bool(editing)})
}

func (s *Service) update(ctx context.Context, conversationID, messageID string, u conversation.MessageUpdate) error {
	if _, ok := s.store.GetConversation(conversationID); !ok {
		return fmt.Errorf("%w: %s", ErrConversationNotFound, conversationID)
	}
	if !s.store.UpdateMessage(ctx, conversationID, messageID, u) {
		return fmt.Errorf("%w: %s", ErrMessageNotFound, messageID)
	}
	return nil
}
