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

type ColumnHandler struct {
	Svc    *application.ColumnService
	Logger *logrus.Logger
}

func NewColumnHandler(svc *application.ColumnService, logger *logrus.Logger) *ColumnHandler {
	return &ColumnHandler{Svc: svc, Logger: logger}
}

type createColumnRequest struct {
	BoardID string `json:"boardId" binding:"required,objectid"`
	Title   string `json:"title" binding:"required,min=3,max=50"`
}

type updateColumnRequest struct {
	Title        string   `json:"title" binding:"omitempty,min=3,max=50"`
	CardOrderIds []string `json:"cardOrderIds" binding:"omitempty,dive,objectid"`
}

func (h *ColumnHandler) Create(c *gin.Context) {
	if _, ok := authedUserID(c); !ok {
		return
	}
	var req createColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	boardID, _ := primitive.ObjectIDFromHex(req.BoardID)
	col, err := h.Svc.Create(c.Request.Context(), application.CreateColumnInput{
		BoardID: boardID,
		Title:   req.Title,
	})
	if err != nil {
		respondError(c, err, "failed to create column")
		return
	}
	response.Success(c, http.StatusCreated, col, "column created", nil)
}

func (h *ColumnHandler) Update(c *gin.Context) {
	if _, ok := authedUserID(c); !ok {
		return
	}
	columnID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req updateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	var orderIds []primitive.ObjectID
	if req.CardOrderIds != nil {
		var err error
		orderIds, err = parseObjectIDs(req.CardOrderIds)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid cardOrderIds", nil)
			return
		}
	}
	col, err := h.Svc.Update(c.Request.Context(), columnID, application.UpdateColumnInput{
		Title:        req.Title,
		CardOrderIds: orderIds,
	})
	if err != nil {
		respondError(c, err, "failed to update column")
		return
	}
	response.Success(c, http.StatusOK, col, "column updated", nil)
}

func (h *ColumnHandler) Delete(c *gin.Context) {
	if _, ok := authedUserID(c); !ok {
		return
	}
	columnID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), columnID); err != nil {
		respondError(c, err, "failed to delete column")
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleteResult": "column and its cards deleted"}, "column deleted", nil)
}
