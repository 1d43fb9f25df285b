package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Card member update actions.
const (
	CardMemberActionAdd    = "ADD"
	CardMemberActionRemove = "REMOVE"
)

// Comment is embedded in its card, immutable once written. New comments
// are prepended so the slice reads newest first.
type Comment struct {
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	UserEmail       string             `bson:"userEmail" json:"userEmail"`
	UserAvatar      string             `bson:"userAvatar,omitempty" json:"userAvatar,omitempty"`
	UserDisplayName string             `bson:"userDisplayName" json:"userDisplayName"`
	Content         string             `bson:"content" json:"content"`
	CommentedAt     time.Time          `bson:"commentedAt" json:"commentedAt"`
}

// Card is the leaf of the hierarchy. BoardID and ColumnID are
// back-references; ColumnID decides membership, the owning column's
// CardOrderIds only decides position.
type Card struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	BoardID     primitive.ObjectID   `bson:"boardId" json:"boardId"`
	ColumnID    primitive.ObjectID   `bson:"columnId" json:"columnId"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Cover       string               `bson:"cover,omitempty" json:"cover,omitempty"`
	MemberIds   []primitive.ObjectID `bson:"memberIds" json:"memberIds"`
	Comments    []Comment            `bson:"comments" json:"comments"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   *time.Time           `bson:"updatedAt" json:"updatedAt"`
	Destroy     bool                 `bson:"_destroy" json:"-"`
}
