package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bull/iris-search/internal/http/dto"
	"github.com/bull/iris-search/internal/logging"
	"github.com/bull/iris-search/internal/search"
)

// invalidQueryMessage is the 400 body for a missing or empty query.
const invalidQueryMessage = "Query is required"

// undecodableQuery stands in for the query when the body is not a JSON
// object. That fallback searches every source, documents included.
const undecodableQuery = "your query"

type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.SummaryResponse, error)
	Fallback(req search.Request) *search.SummaryResponse
}

type SearchHandler struct {
	searcher Searcher
}

func NewSearchHandler(searcher Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// Search answers POST /api/search. Only a missing query yields a non-200.
func (h *SearchHandler) Search(c *gin.Context) {
	ctx := logging.WithFields(c.Request.Context(), logging.Fields{Component: "iris.http"})
	c.Header("Cache-Control", "no-store")

	data, err := c.GetRawData()
	var body dto.SearchRequest
	if err == nil {
		body, err = dto.DecodeSearchRequest(data)
	}
	if err != nil {
		slog.WarnContext(ctx, "undecodable search body, serving mock", "error", err)
		c.JSON(http.StatusOK, h.searcher.Fallback(search.Request{Query: undecodableQuery}))
		return
	}
	if id, ok := body.ConversationID.(string); ok {
		ctx = logging.WithFields(ctx, logging.Fields{ConversationID: id})
	}

	req, ok := body.ToSearchRequest()
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: invalidQueryMessage})
		return
	}

	// A client that hangs up does not abort the backend attempts.
	resp, err := h.searcher.Search(context.WithoutCancel(ctx), req)
	if err != nil {
		if errors.Is(err, search.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: invalidQueryMessage})
			return
		}
		slog.ErrorContext(ctx, "search returned unexpected error, serving mock", "error", err)
		resp = h.searcher.Fallback(req)
	}

	c.JSON(http.StatusOK, resp)
}
