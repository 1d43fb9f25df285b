package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Column groups cards inside a board. CardOrderIds is the display order of
// its cards; each card's ColumnID back-reference is authoritative for
// which column the card actually belongs to.
type Column struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	BoardID      primitive.ObjectID   `bson:"boardId" json:"boardId"`
	Title        string               `bson:"title" json:"title"`
	CardOrderIds []primitive.ObjectID `bson:"cardOrderIds" json:"cardOrderIds"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    *time.Time           `bson:"updatedAt" json:"updatedAt"`
	Destroy      bool                 `bson:"_destroy" json:"-"`
}
