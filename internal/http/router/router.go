package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bull/iris-search/internal/catalog"
	"github.com/bull/iris-search/internal/chat"
	"github.com/bull/iris-search/internal/http/handler"
)

// Dependencies are the services mounted by SetupRoutes. Nil http.Handlers
// are not mounted.
type Dependencies struct {
	Searcher handler.Searcher
	Chat     *chat.Service
	Catalog  *catalog.Catalog

	Health  http.Handler
	Landing http.Handler
	MCP     http.Handler
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	if deps.Health != nil {
		router.GET("/health", gin.WrapH(deps.Health))
	}
	if deps.Landing != nil {
		router.GET("/", gin.WrapH(deps.Landing))
	}
	if deps.MCP != nil {
		router.Any("/mcp", gin.WrapH(deps.MCP))
	}

	api := router.Group("/api")
	{
		SearchRouter(api, handler.NewSearchHandler(deps.Searcher))
		CollectionRouter(api.Group("/collections"), handler.NewCollectionHandler(deps.Catalog))
		if deps.Chat != nil {
			ConversationRouter(api.Group("/conversations"), handler.NewConversationHandler(deps.Chat))
		}
	}
}

func SearchRouter(rg *gin.RouterGroup, h *handler.SearchHandler) {
	rg.POST("/search", h.Search)
}

func CollectionRouter(rg *gin.RouterGroup, h *handler.CollectionHandler) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
}

func ConversationRouter(rg *gin.RouterGroup, h *handler.ConversationHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/messages", h.Ask)
	rg.PATCH("/:id/messages/:message_id", h.UpdateMessage)
	rg.DELETE("/:id/messages/:message_id", h.DeleteMessage)
}
