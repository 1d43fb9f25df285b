package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
)

// ColumnRepository defines column persistence and the card order-array
// primitives scoped to a single column document.
type ColumnRepository interface {
	Create(ctx context.Context, c *entity.Column) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Column, error)

	// FindLiveByBoardID returns the non-destroyed columns whose boardId
	// back-reference names the board, in creation order. Used by
	// reconciliation to recompute the board's columnOrderIds.
	FindLiveByBoardID(ctx context.Context, boardID primitive.ObjectID) ([]entity.Column, error)

	// Update applies a partial $set, silently dropping _id and createdAt.
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*entity.Column, error)

	// Delete removes the column document permanently. Column removal is
	// the hard-delete exception to the soft-delete lifecycle.
	Delete(ctx context.Context, id primitive.ObjectID) error

	PushCardOrderID(ctx context.Context, columnID, cardID primitive.ObjectID) error
	PullCardOrderID(ctx context.Context, columnID, cardID primitive.ObjectID) error
}
