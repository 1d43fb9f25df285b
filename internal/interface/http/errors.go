package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/application"
	"github.com/oksasatya/kanban-board-api/pkg/response"
)

// statusOf maps application sentinel errors to HTTP status codes.
// Anything unmapped is an internal error.
func statusOf(err error) int {
	switch {
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, application.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, application.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error, msg string) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		response.Error[any](c, status, msg, nil)
		return
	}
	response.Error[any](c, status, msg, err.Error())
}

// objectIDParam parses a hex ObjectID path parameter, replying 400 on a
// malformed id.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid "+name, nil)
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseObjectIDs converts a slice of hex ids, failing on the first
// malformed one.
func parseObjectIDs(hexes []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// authedUserID reads the authenticated user id set by the auth
// middleware.
func authedUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("userID"))
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "missing authenticated user", nil)
		return primitive.NilObjectID, false
	}
	return id, true
}
