package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/application"
	"github.com/oksasatya/kanban-board-api/pkg/response"
	"github.com/oksasatya/kanban-board-api/pkg/validation"
)

const (
	defaultPage     = 1
	defaultPageSize = 12
)

type BoardHandler struct {
	Svc    *application.BoardService
	Logger *logrus.Logger
}

func NewBoardHandler(svc *application.BoardService, logger *logrus.Logger) *BoardHandler {
	return &BoardHandler{Svc: svc, Logger: logger}
}

type createBoardRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=50"`
	Description string `json:"description" binding:"required,min=3,max=256"`
	Type        string `json:"type" binding:"required,oneof=public private"`
}

type updateBoardRequest struct {
	Title          string   `json:"title" binding:"omitempty,min=3,max=50"`
	Description    string   `json:"description" binding:"omitempty,min=3,max=256"`
	Type           string   `json:"type" binding:"omitempty,oneof=public private"`
	ColumnOrderIds []string `json:"columnOrderIds" binding:"omitempty,dive,objectid"`
}

type moveCardRequest struct {
	CurrentCardID    string   `json:"currentCardId" binding:"required,objectid"`
	PrevColumnID     string   `json:"prevColumnId" binding:"required,objectid"`
	PrevCardOrderIds []string `json:"prevCardOrderIds" binding:"dive,objectid"`
	NextColumnID     string   `json:"nextColumnId" binding:"required,objectid"`
	NextCardOrderIds []string `json:"nextCardOrderIds" binding:"dive,objectid"`
}

func (h *BoardHandler) Create(c *gin.Context) {
	uid, ok := authedUserID(c)
	if !ok {
		return
	}
	var req createBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	b, err := h.Svc.Create(c.Request.Context(), uid, application.CreateBoardInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
	})
	if err != nil {
		respondError(c, err, "failed to create board")
		return
	}
	response.Success(c, http.StatusCreated, b, "board created", nil)
}

func (h *BoardHandler) List(c *gin.Context) {
	uid, ok := authedUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.ParseInt(c.DefaultQuery("page", strconv.Itoa(defaultPage)), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("itemsPerPage", strconv.Itoa(defaultPageSize)), 10, 64)

	filters := map[string]string{}
	if q := c.Query("q[title]"); q != "" {
		filters["title"] = q
	}

	pageRes, err := h.Svc.List(c.Request.Context(), uid, page, pageSize, filters)
	if err != nil {
		respondError(c, err, "failed to list boards")
		return
	}
	response.Success(c, http.StatusOK, pageRes, "boards", map[string]any{"page": page, "items_per_page": pageSize})
}

func (h *BoardHandler) GetDetails(c *gin.Context) {
	uid, ok := authedUserID(c)
	if !ok {
		return
	}
	boardID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	view, err := h.Svc.GetDetails(c.Request.Context(), uid, boardID)
	if err != nil {
		respondError(c, err, "board not found")
		return
	}
	response.Success(c, http.StatusOK, view, "board details", nil)
}

func (h *BoardHandler) Update(c *gin.Context) {
	if _, ok := authedUserID(c); !ok {
		return
	}
	boardID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req updateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	var orderIds []primitive.ObjectID
	if req.ColumnOrderIds != nil {
		var err error
		orderIds, err = parseObjectIDs(req.ColumnOrderIds)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid columnOrderIds", nil)
			return
		}
	}
	b, err := h.Svc.Update(c.Request.Context(), boardID, application.UpdateBoardInput{
		Title:          req.Title,
		Description:    req.Description,
		Type:           req.Type,
		ColumnOrderIds: orderIds,
	})
	if err != nil {
		respondError(c, err, "failed to update board")
		return
	}
	response.Success(c, http.StatusOK, b, "board updated", nil)
}

// MoveCard applies a cross-column card move with the resulting order
// arrays computed by the client.
func (h *BoardHandler) MoveCard(c *gin.Context) {
	if _, ok := authedUserID(c); !ok {
		return
	}
	var req moveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	cardID, _ := primitive.ObjectIDFromHex(req.CurrentCardID)
	prevColID, _ := primitive.ObjectIDFromHex(req.PrevColumnID)
	nextColID, _ := primitive.ObjectIDFromHex(req.NextColumnID)
	prevOrder, err := parseObjectIDs(req.PrevCardOrderIds)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid prevCardOrderIds", nil)
		return
	}
	nextOrder, err := parseObjectIDs(req.NextCardOrderIds)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid nextCardOrderIds", nil)
		return
	}

	if err := h.Svc.MoveCard(c.Request.Context(), application.MoveCardInput{
		CardID:           cardID,
		PrevColumnID:     prevColID,
		PrevCardOrderIds: prevOrder,
		NextColumnID:     nextColID,
		NextCardOrderIds: nextOrder,
	}); err != nil {
		respondError(c, err, "failed to move card")
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"result": "moved"}, "card moved", nil)
}

// Reconcile repairs the board's order arrays from the children's
// back-references.
func (h *BoardHandler) Reconcile(c *gin.Context) {
	if _, ok := authedUserID(c); !ok {
		return
	}
	boardID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	changed, err := h.Svc.ReconcileBoard(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err, "failed to reconcile board")
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"repaired": changed}, "board reconciled", nil)
}
