package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/kanban-board-api/internal/container"
	handlers "github.com/oksasatya/kanban-board-api/internal/interface/http"
	"github.com/oksasatya/kanban-board-api/internal/interface/middleware"
)

// UserModule wires the account lifecycle and profile routes.
// Public: POST /api/users/register, /api/users/verify, /api/users/login, /api/users/refresh_token
// Protected: DELETE /api/users/logout, GET/PUT /api/users/profile, GET /api/users/search
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)

	users := rg.Group("/users")
	users.POST("/register", registerLimiter, m.Handler.Register)
	users.PUT("/verify", registerLimiter, m.Handler.Verify)
	users.POST("/login", loginLimiter, m.Handler.Login)
	users.GET("/refresh_token", refreshLimiter, m.Handler.Refresh)

	auth := users.Group("/")
	auth.Use(middleware.Auth(rdb, container.GetJWT()))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.DELETE("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.GET("/search", m.Handler.Search)
	}
}
