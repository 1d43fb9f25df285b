package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/kanban-board-api/internal/application"
	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
	"github.com/oksasatya/kanban-board-api/pkg/helpers"
	"github.com/oksasatya/kanban-board-api/pkg/response"
	"github.com/oksasatya/kanban-board-api/pkg/validation"
)

type UserHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type verifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Token string `json:"token" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func profileBody(u *entity.User) gin.H {
	return gin.H{
		"_id":         u.ID,
		"email":       u.Email,
		"username":    u.Username,
		"displayName": u.DisplayName,
		"avatar":      u.Avatar,
		"role":        u.Role,
		"isActive":    u.IsActive,
		"createdAt":   u.CreatedAt,
		"updatedAt":   u.UpdatedAt,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "registration failed")
		return
	}
	response.Success(c, http.StatusCreated, profileBody(u), "account created, please verify your email", nil)
}

func (h *UserHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Verify(c.Request.Context(), req.Email, req.Token)
	if err != nil {
		respondError(c, err, "verification failed")
		return
	}
	response.Success(c, http.StatusOK, profileBody(u), "account verified", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "login failed")
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, profileBody(u), "login successful", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if uid, ok := authedUserID(c); ok {
		h.Svc.Logout(c.Request.Context(), uid)
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid, ok := authedUserID(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err, "user not found")
		return
	}
	response.Success(c, http.StatusOK, profileBody(u), "profile", nil)
}

// UpdateProfile accepts multipart form data so a display-name edit, a
// password change, and an avatar upload can share one endpoint.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid, ok := authedUserID(c)
	if !ok {
		return
	}
	in := application.UpdateProfileInput{
		DisplayName:     c.PostForm("displayName"),
		CurrentPassword: c.PostForm("current_password"),
		NewPassword:     c.PostForm("new_password"),
	}
	if file, err := c.FormFile("avatar"); err == nil {
		in.Avatar = file
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, in)
	if err != nil {
		respondError(c, err, "failed to update profile")
		return
	}
	response.Success(c, http.StatusOK, profileBody(u), "profile updated", nil)
}

// Search backs invitation autocomplete with the user index.
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		respondError(c, err, "search failed")
		return
	}
	response.Success(c, http.StatusOK, hits, "users", nil)
}
