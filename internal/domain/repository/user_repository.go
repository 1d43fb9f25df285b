package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// FindByID and FindByEmail return (nil, nil) when no document matches.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Update applies a partial $set. Identity and creation-immutable
	// fields (_id, email, username, createdAt) are silently dropped from
	// the patch rather than rejected. Returns the updated document.
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*entity.User, error)
}
