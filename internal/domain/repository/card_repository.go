package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
)

// CardRepository defines card persistence, the embedded-comment prepend,
// and card member mutations.
type CardRepository interface {
	Create(ctx context.Context, c *entity.Card) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Card, error)

	// FindLiveByColumnID returns the non-destroyed cards whose columnId
	// back-reference names the column, in creation order. Used by
	// reconciliation to recompute the column's cardOrderIds.
	FindLiveByColumnID(ctx context.Context, columnID primitive.ObjectID) ([]entity.Card, error)

	// Update applies a partial $set, silently dropping _id, boardId, and
	// createdAt. Moving a card across boards is not a thing.
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*entity.Card, error)

	// DeleteByColumnID permanently removes every card referencing the
	// column. Cascade partner of ColumnRepository.Delete.
	DeleteByColumnID(ctx context.Context, columnID primitive.ObjectID) (int64, error)

	// UnshiftComment prepends the comment so the embedded slice stays
	// newest-first ($push with $position 0).
	UnshiftComment(ctx context.Context, cardID primitive.ObjectID, comment entity.Comment) (*entity.Card, error)

	// UpdateMembers pushes or pulls a single member id depending on
	// action (entity.CardMemberActionAdd / Remove).
	UpdateMembers(ctx context.Context, cardID primitive.ObjectID, action string, userID primitive.ObjectID) (*entity.Card, error)
}
