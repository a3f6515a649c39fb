package dto

import "github.com/bull/iris-search/internal/conversation"

type CreateConversationRequest struct {
	Question   string `json:"question" binding:"required"`
	Collection string `json:"collection,omitempty"`
	Source     string `json:"source,omitempty"`
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
	Source   string `json:"source,omitempty"`
}

// UpdateMessageRequest edits a message. Content ends editing; IsEditing
// alone toggles the flag.
type UpdateMessageRequest struct {
	Content   *string `json:"content,omitempty"`
	IsEditing *bool   `json:"isEditing,omitempty"`
}

type ConversationListResponse struct {
	Conversations []conversation.Summary `json:"conversations"`
	Count         int                    `json:"count"`
}

func ToConversationListResponse(items []conversation.Summary) *ConversationListResponse {
	return &ConversationListResponse{Conversations: items, Count: len(items)}
}
