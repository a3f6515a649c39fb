package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bull/iris-search/internal/catalog"
	"github.com/bull/iris-search/internal/http/dto"
)

type CollectionHandler struct {
	catalog *catalog.Catalog
}

func NewCollectionHandler(cat *catalog.Catalog) *CollectionHandler {
	return &CollectionHandler{catalog: cat}
}

func (h *CollectionHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToCollectionListResponse(h.catalog.Collections()))
}

func (h *CollectionHandler) Get(c *gin.Context) {
	col, err := h.catalog.Collection(c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrCollectionNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "collection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to load collection"})
		return
	}
	c.JSON(http.StatusOK, col)
}
