package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/kanban-board-api/internal/container"
	handlers "github.com/oksasatya/kanban-board-api/internal/interface/http"
	"github.com/oksasatya/kanban-board-api/internal/interface/middleware"
)

// InvitationModule wires the board-invitation lifecycle. All routes
// require auth.
type InvitationModule struct {
	Handler *handlers.InvitationHandler
}

func NewInvitationModule(h *handlers.InvitationHandler) *InvitationModule {
	return &InvitationModule{Handler: h}
}

func (m *InvitationModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	invitations := rg.Group("/invitations")
	invitations.Use(middleware.Auth(rdb, container.GetJWT()))
	invitations.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		invitations.POST("", m.Handler.Create)
		invitations.GET("", m.Handler.List)
		invitations.PUT("/board/:invitationId", m.Handler.Decide)
	}
}
