package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/kanban-board-api/internal/container"
	handlers "github.com/oksasatya/kanban-board-api/internal/interface/http"
	"github.com/oksasatya/kanban-board-api/internal/interface/middleware"
)

// CardModule wires card creation and the multiplexed card update. All
// routes require auth.
type CardModule struct {
	Handler *handlers.CardHandler
}

func NewCardModule(h *handlers.CardHandler) *CardModule {
	return &CardModule{Handler: h}
}

func (m *CardModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	cards := rg.Group("/cards")
	cards.Use(middleware.Auth(rdb, container.GetJWT()))
	cards.Use(middleware.RateLimit(rdb, 240, time.Minute, middleware.KeyByUserID(), nil))
	{
		cards.POST("", m.Handler.Create)
		cards.PUT("/:id", m.Handler.Update)
	}
}
