package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/iris-search/internal/chat"
	"github.com/bull/iris-search/internal/conversation"
	"github.com/bull/iris-search/internal/http/handler"
)

func conversationRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := conversation.NewStore(context.Background(), nil)
	require.NoError(t, err)
	h := handler.NewConversationHandler(chat.NewService(store, newMockOrchestrator(), nil))

	r := gin.New()
	rg := r.Group("/api/conversations")
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/messages", h.Ask)
	rg.PATCH("/:id/messages/:message_id", h.UpdateMessage)
	rg.DELETE("/:id/messages/:message_id", h.DeleteMessage)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeThread(t *testing.T, w *httptest.ResponseRecorder) conversation.Thread {
	t.Helper()
	var thread conversation.Thread
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &thread), w.Body.String())
	return thread
}

func TestConversation_Lifecycle(t *testing.T) {
	r := conversationRouter(t)

	w := do(r, http.MethodPost, "/api/conversations", `{"question":"What is X?","collection":"metal-patents"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	thread := decodeThread(t, w)
	require.Len(t, thread.Messages, 2)
	assert.Equal(t, conversation.TypeQuestion, thread.Messages[0].Type)
	assert.False(t, thread.Messages[1].IsLoading)
	assert.NotEmpty(t, thread.Messages[1].Content)

	w = do(r, http.MethodPost, "/api/conversations/"+thread.ID+"/messages", `{"question":"And Y?","source":"jira"}`)
	require.Equal(t, http.StatusOK, w.Code)
	thread = decodeThread(t, w)
	require.Len(t, thread.Messages, 4)

	questionID := thread.Messages[2].ID
	w = do(r, http.MethodPatch, "/api/conversations/"+thread.ID+"/messages/"+questionID, `{"isEditing":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeThread(t, w).Messages[2].IsEditing)

	w = do(r, http.MethodPatch, "/api/conversations/"+thread.ID+"/messages/"+questionID, `{"content":"And Z?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	edited := decodeThread(t, w).Messages[2]
	assert.Equal(t, "And Z?", edited.Content)
	assert.False(t, edited.IsEditing)

	w = do(r, http.MethodDelete, "/api/conversations/"+thread.ID+"/messages/"+thread.Messages[3].ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/api/conversations", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	w = do(r, http.MethodGet, "/api/conversations/"+thread.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeThread(t, w).Messages, 3)

	w = do(r, http.MethodDelete, "/api/conversations/"+thread.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(r, http.MethodGet, "/api/conversations/"+thread.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConversation_Errors(t *testing.T) {
	r := conversationRouter(t)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/conversations", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/conversations", `{"question":"  "}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/conversations/missing/messages", `{"question":"q"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/api/conversations/missing", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/api/conversations/missing/messages/m", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/api/conversations/missing/messages/m", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPatch, "/api/conversations/missing/messages/m", `{"isEditing":true}`).Code)
}

func TestConversation_EditAnswerConflicts(t *testing.T) {
	r := conversationRouter(t)

	w := do(r, http.MethodPost, "/api/conversations", `{"question":"What is X?"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	thread := decodeThread(t, w)

	w = do(r, http.MethodPatch, "/api/conversations/"+thread.ID+"/messages/"+thread.Messages[1].ID, `{"content":"overwritten"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodGet, "/api/conversations/"+thread.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, thread.Messages[1].Content, decodeThread(t, w).Messages[1].Content)
}
