package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/application"
	"github.com/oksasatya/kanban-board-api/pkg/response"
	"github.com/oksasatya/kanban-board-api/pkg/validation"
)

type InvitationHandler struct {
	Svc    *application.InvitationService
	Logger *logrus.Logger
}

func NewInvitationHandler(svc *application.InvitationService, logger *logrus.Logger) *InvitationHandler {
	return &InvitationHandler{Svc: svc, Logger: logger}
}

type createInvitationRequest struct {
	BoardID      string `json:"boardId" binding:"required,objectid"`
	InviteeEmail string `json:"inviteeEmail" binding:"required,email"`
}

type decideInvitationRequest struct {
	Status string `json:"status" binding:"required,oneof=ACCEPTED REJECTED"`
}

func (h *InvitationHandler) Create(c *gin.Context) {
	uid, ok := authedUserID(c)
	if !ok {
		return
	}
	var req createInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	boardID, _ := primitive.ObjectIDFromHex(req.BoardID)
	inv, err := h.Svc.Create(c.Request.Context(), uid, application.CreateInvitationInput{
		BoardID:      boardID,
		InviteeEmail: req.InviteeEmail,
	})
	if err != nil {
		respondError(c, err, "failed to create invitation")
		return
	}
	response.Success(c, http.StatusCreated, inv, "invitation created", nil)
}

func (h *InvitationHandler) List(c *gin.Context) {
	uid, ok := authedUserID(c)
	if !ok {
		return
	}
	invitations, err := h.Svc.ListForUser(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err, "failed to list invitations")
		return
	}
	response.Success(c, http.StatusOK, invitations, "invitations", nil)
}

func (h *InvitationHandler) Decide(c *gin.Context) {
	uid, ok := authedUserID(c)
	if !ok {
		return
	}
	invitationID, ok := objectIDParam(c, "invitationId")
	if !ok {
		return
	}
	var req decideInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	inv, err := h.Svc.Decide(c.Request.Context(), uid, invitationID, req.Status)
	if err != nil {
		respondError(c, err, "failed to update invitation")
		return
	}
	response.Success(c, http.StatusOK, inv, "invitation updated", nil)
}
