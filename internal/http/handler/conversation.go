package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bull/iris-search/internal/chat"
	"github.com/bull/iris-search/internal/http/dto"
	"github.com/bull/iris-search/internal/search"
)

type ConversationHandler struct {
	chat *chat.Service
}

func NewConversationHandler(svc *chat.Service) *ConversationHandler {
	return &ConversationHandler{chat: svc}
}

func (h *ConversationHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "question is required"})
		return
	}

	thread, err := h.chat.Start(ctx, req.Question, req.Collection, search.ParseFilter(req.Source))
	if err != nil {
		writeChatError(c, err)
		return
	}
	c.JSON(http.StatusCreated, thread)
}

func (h *ConversationHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToConversationListResponse(h.chat.Store().ListConversations()))
}

func (h *ConversationHandler) Get(c *gin.Context) {
	thread, ok := h.chat.Store().GetConversation(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, thread)
}

func (h *ConversationHandler) Delete(c *gin.Context) {
	if !h.chat.Store().DeleteConversation(c.Request.Context(), c.Param("id")) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "conversation not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ConversationHandler) Ask(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "question is required"})
		return
	}

	thread, err := h.chat.Ask(ctx, c.Param("id"), req.Question, search.ParseFilter(req.Source))
	if err != nil {
		writeChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

func (h *ConversationHandler) UpdateMessage(c *gin.Context) {
	ctx := c.Request.Context()
	id, messageID := c.Param("id"), c.Param("message_id")

	var req dto.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Content == nil && req.IsEditing == nil) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "content or isEditing is required"})
		return
	}

	if req.Content != nil {
		thread, err := h.chat.EditQuestion(ctx, id, messageID, *req.Content)
		if err != nil {
			writeChatError(c, err)
			return
		}
		c.JSON(http.StatusOK, thread)
		return
	}

	if err := h.chat.SetEditing(ctx, id, messageID, *req.IsEditing); err != nil {
		writeChatError(c, err)
		return
	}
	thread, _ := h.chat.Store().GetConversation(id)
	c.JSON(http.StatusOK, thread)
}

func (h *ConversationHandler) DeleteMessage(c *gin.Context) {
	if !h.chat.Store().DeleteMessage(c.Request.Context(), c.Param("id"), c.Param("message_id")) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "message not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func writeChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, search.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "question is required"})
	case errors.Is(err, chat.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "conversation not found"})
	case errors.Is(err, chat.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "message not found"})
	case errors.Is(err, chat.ErrNotEditable):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "message cannot be edited"})
	default:
		slog.ErrorContext(c.Request.Context(), "conversation request failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to process conversation"})
	}
}
