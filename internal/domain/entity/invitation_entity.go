package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invitation types and board-invitation lifecycle states. Pending is the
// only non-terminal state.
const (
	InvitationTypeBoard = "BOARD_INVITATION"

	BoardInvitationPending  = "PENDING"
	BoardInvitationAccepted = "ACCEPTED"
	BoardInvitationRejected = "REJECTED"
)

// BoardInvitation carries the board-specific payload of an invitation.
type BoardInvitation struct {
	BoardID primitive.ObjectID `bson:"boardId" json:"boardId"`
	Status  string             `bson:"status" json:"status"`
}

// Invitation records one user inviting another onto a board.
type Invitation struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	InviterID       primitive.ObjectID `bson:"inviterId" json:"inviterId"`
	InviteeID       primitive.ObjectID `bson:"inviteeId" json:"inviteeId"`
	Type            string             `bson:"type" json:"type"`
	BoardInvitation BoardInvitation    `bson:"boardInvitation" json:"boardInvitation"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       *time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// InvitationDetails is an invitation with its inviter, invitee, and board
// resolved for the client.
type InvitationDetails struct {
	Invitation `bson:",inline"`
	Inviter    UserSummary `bson:"inviter" json:"inviter"`
	Invitee    UserSummary `bson:"invitee" json:"invitee"`
	Board      Board       `bson:"board" json:"board"`
}
