package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/application"
	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
	"github.com/oksasatya/kanban-board-api/pkg/response"
	"github.com/oksasatya/kanban-board-api/pkg/validation"
)

type CardHandler struct {
	Svc    *application.CardService
	Logger *logrus.Logger
}

func NewCardHandler(svc *application.CardService, logger *logrus.Logger) *CardHandler {
	return &CardHandler{Svc: svc, Logger: logger}
}

type createCardRequest struct {
	BoardID  string `json:"boardId" binding:"required,objectid"`
	ColumnID string `json:"columnId" binding:"required,objectid"`
	Title    string `json:"title" binding:"required,min=3,max=50"`
}

func (h *CardHandler) Create(c *gin.Context) {
	if _, ok := authedUserID(c); !ok {
		return
	}
	var req createCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	boardID, _ := primitive.ObjectIDFromHex(req.BoardID)
	columnID, _ := primitive.ObjectIDFromHex(req.ColumnID)
	card, err := h.Svc.Create(c.Request.Context(), application.CreateCardInput{
		BoardID:  boardID,
		ColumnID: columnID,
		Title:    req.Title,
	})
	if err != nil {
		respondError(c, err, "failed to create card")
		return
	}
	response.Success(c, http.StatusCreated, card, "card created", nil)
}

// Update accepts multipart form data so plain field edits, a cover
// upload, a comment, and a member toggle can share one endpoint.
func (h *CardHandler) Update(c *gin.Context) {
	uid, ok := authedUserID(c)
	if !ok {
		return
	}
	cardID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	in := application.UpdateCardInput{
		Title:   c.PostForm("title"),
		Comment: c.PostForm("commentToAdd"),
	}
	if desc, present := c.GetPostForm("description"); present {
		in.Description = &desc
	}
	if file, err := c.FormFile("cardCover"); err == nil {
		in.Cover = file
	}
	if action := c.PostForm("incomingMemberAction"); action != "" {
		if action != entity.CardMemberActionAdd && action != entity.CardMemberActionRemove {
			response.Error[any](c, http.StatusBadRequest, "invalid member action", nil)
			return
		}
		memberID, err := primitive.ObjectIDFromHex(c.PostForm("incomingMemberId"))
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid member id", nil)
			return
		}
		in.MemberAction = action
		in.MemberID = memberID
	}

	card, err := h.Svc.Update(c.Request.Context(), uid, cardID, in)
	if err != nil {
		respondError(c, err, "failed to update card")
		return
	}
	response.Success(c, http.StatusOK, card, "card updated", nil)
}
