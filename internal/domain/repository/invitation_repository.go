package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
)

// InvitationRepository defines invitation persistence.
type InvitationRepository interface {
	Create(ctx context.Context, inv *entity.Invitation) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Invitation, error)

	// FindByInvitee returns the user's invitations with inviter, invitee,
	// and board resolved, newest first.
	FindByInvitee(ctx context.Context, userID primitive.ObjectID) ([]entity.InvitationDetails, error)

	// Update applies a partial $set, silently dropping _id and createdAt.
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*entity.Invitation, error)
}
