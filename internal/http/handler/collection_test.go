package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/iris-search/internal/catalog"
	"github.com/bull/iris-search/internal/http/handler"
)

func collectionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewCollectionHandler(catalog.Default())
	r.GET("/api/collections", h.List)
	r.GET("/api/collections/:id", h.Get)
	return r
}

func TestCollections_List(t *testing.T) {
	w := httptest.NewRecorder()
	collectionRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/collections", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Collections []struct {
			ID            string `json:"id"`
			DocumentCount int    `json:"documentCount"`
		} `json:"collections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Collections)
	assert.Equal(t, "metal-patents", resp.Collections[0].ID)
	assert.Equal(t, 10, resp.Collections[0].DocumentCount)
}

func TestCollections_Get(t *testing.T) {
	r := collectionRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/collections/metal-patents", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var col catalog.Collection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &col))
	assert.Len(t, col.Documents, 10)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/collections/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
