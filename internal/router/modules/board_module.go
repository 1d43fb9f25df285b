package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/kanban-board-api/internal/container"
	handlers "github.com/oksasatya/kanban-board-api/internal/interface/http"
	"github.com/oksasatya/kanban-board-api/internal/interface/middleware"
)

// BoardModule wires board CRUD, the paged listing, the cross-column card
// move, and order-array reconciliation. All routes require auth.
type BoardModule struct {
	Handler *handlers.BoardHandler
}

func NewBoardModule(h *handlers.BoardHandler) *BoardModule {
	return &BoardModule{Handler: h}
}

func (m *BoardModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	boards := rg.Group("/boards")
	boards.Use(middleware.Auth(rdb, container.GetJWT()))
	boards.Use(middleware.RateLimit(rdb, 240, time.Minute, middleware.KeyByUserID(), nil))
	{
		boards.POST("", m.Handler.Create)
		boards.GET("", m.Handler.List)
		boards.GET("/:id", m.Handler.GetDetails)
		boards.PUT("/:id", m.Handler.Update)
		boards.POST("/:id/reconcile", m.Handler.Reconcile)
		boards.PUT("/supports/moving_card", m.Handler.MoveCard)
	}
}
