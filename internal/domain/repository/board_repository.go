package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
)

// BoardRepository defines board persistence plus the single-document
// atomic order-array primitives. Push/Pull are the only ordering
// mutations with an atomicity guarantee; multi-document sequences built
// on top of them have none.
type BoardRepository interface {
	Create(ctx context.Context, b *entity.Board) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Board, error)

	// GetDetails fetches the board matching {_id, not destroyed, user is
	// owner or member} together with its live columns, live cards, and
	// sanitized owner/member summaries. A non-member request and a
	// missing board both return (nil, nil).
	GetDetails(ctx context.Context, userID, boardID primitive.ObjectID) (*entity.BoardDetails, error)

	// List returns one page of boards the user participates in, plus the
	// total count of boards matching the same predicate. Filters are
	// field -> case-insensitive substring. Sorted by title with locale
	// collation, not byte order.
	List(ctx context.Context, userID primitive.ObjectID, page, pageSize int64, filters map[string]string) (*entity.BoardPage, error)

	// Update applies a partial $set, silently dropping _id and createdAt.
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*entity.Board, error)

	PushColumnOrderID(ctx context.Context, boardID, columnID primitive.ObjectID) error
	PullColumnOrderID(ctx context.Context, boardID, columnID primitive.ObjectID) error
	PushMemberID(ctx context.Context, boardID, userID primitive.ObjectID) error
}
