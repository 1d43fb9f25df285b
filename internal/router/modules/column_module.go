package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/kanban-board-api/internal/container"
	handlers "github.com/oksasatya/kanban-board-api/internal/interface/http"
	"github.com/oksasatya/kanban-board-api/internal/interface/middleware"
)

// ColumnModule wires column CRUD. All routes require auth.
type ColumnModule struct {
	Handler *handlers.ColumnHandler
}

func NewColumnModule(h *handlers.ColumnHandler) *ColumnModule {
	return &ColumnModule{Handler: h}
}

func (m *ColumnModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	columns := rg.Group("/columns")
	columns.Use(middleware.Auth(rdb, container.GetJWT()))
	columns.Use(middleware.RateLimit(rdb, 240, time.Minute, middleware.KeyByUserID(), nil))
	{
		columns.POST("", m.Handler.Create)
		columns.PUT("/:id", m.Handler.Update)
		columns.DELETE("/:id", m.Handler.Delete)
	}
}
