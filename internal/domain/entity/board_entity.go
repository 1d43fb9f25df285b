package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Board visibility types.
const (
	BoardTypePublic  = "public"
	BoardTypePrivate = "private"
)

// Board is the top of the board -> column -> card hierarchy. It does not
// own the column documents; ColumnOrderIds only records their display
// order. A column belongs to the board through its own BoardID
// back-reference, and every writer has to keep the two consistent.
type Board struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title          string               `bson:"title" json:"title"`
	Slug           string               `bson:"slug" json:"slug"`
	Description    string               `bson:"description" json:"description"`
	Type           string               `bson:"type" json:"type"`
	ColumnOrderIds []primitive.ObjectID `bson:"columnOrderIds" json:"columnOrderIds"`
	OwnerIds       []primitive.ObjectID `bson:"ownerIds" json:"ownerIds"`
	MemberIds      []primitive.ObjectID `bson:"memberIds" json:"memberIds"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      *time.Time           `bson:"updatedAt" json:"updatedAt"`
	Destroy        bool                 `bson:"_destroy" json:"-"`
}

// HasParticipant reports whether the user is an owner or a member.
func (b *Board) HasParticipant(userID primitive.ObjectID) bool {
	for _, id := range b.OwnerIds {
		if id == userID {
			return true
		}
	}
	for _, id := range b.MemberIds {
		if id == userID {
			return true
		}
	}
	return false
}

// BoardDetails is the raw multi-collection aggregate for a single board
// read: the board document plus every live column and card referencing it
// and the resolved owner/member summaries. Assembly into the nested view
// happens in the application layer.
type BoardDetails struct {
	Board   `bson:",inline"`
	Columns []Column      `bson:"columns" json:"-"`
	Cards   []Card        `bson:"cards" json:"-"`
	Owners  []UserSummary `bson:"owners" json:"owners"`
	Members []UserSummary `bson:"members" json:"members"`
}

// BoardView is the reconstructed tree returned to clients: columns in
// ColumnOrderIds order, each carrying its cards in CardOrderIds order.
type BoardView struct {
	Board   `bson:",inline"`
	Owners  []UserSummary `json:"owners"`
	Members []UserSummary `json:"members"`
	Columns []ColumnView  `json:"columns"`
}

// ColumnView is a column with its cards attached.
type ColumnView struct {
	Column `bson:",inline"`
	Cards  []Card `json:"cards"`
}

// BoardPage is one page of a board listing together with the total number
// of boards matching the same predicate.
type BoardPage struct {
	Boards      []Board `json:"boards"`
	TotalBoards int64   `json:"totalBoards"`
}
