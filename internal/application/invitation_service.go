package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
	repo "github.com/oksasatya/kanban-board-api/internal/domain/repository"
	"github.com/oksasatya/kanban-board-api/pkg/mailer"
)

// EmailQueue publishes email jobs for asynchronous delivery. Satisfied
// by helpers.RabbitPublisher.
type EmailQueue interface {
	PublishJSON(ctx context.Context, body any) error
}

// InvitationService owns the board-invitation lifecycle: creation,
// listing, and the pending -> accepted/rejected transition.
type InvitationService struct {
	Users         repo.UserRepository
	Boards        repo.BoardRepository
	Invitations   repo.InvitationRepository
	Queue         EmailQueue
	WebsiteDomain string
	Logger        *logrus.Logger
}

func NewInvitationService(users repo.UserRepository, boards repo.BoardRepository, invitations repo.InvitationRepository, queue EmailQueue, websiteDomain string, logger *logrus.Logger) *InvitationService {
	return &InvitationService{
		Users:         users,
		Boards:        boards,
		Invitations:   invitations,
		Queue:         queue,
		WebsiteDomain: websiteDomain,
		Logger:        logger,
	}
}

type CreateInvitationInput struct {
	BoardID      primitive.ObjectID
	InviteeEmail string
}

// Create validates every reference before inserting the pending
// invitation, then queues a notification email. The email is
// best-effort; a publish failure is logged and does not unwind the
// committed invitation.
func (s *InvitationService) Create(ctx context.Context, inviterID primitive.ObjectID, in CreateInvitationInput) (*entity.Invitation, error) {
	inviter, err := s.Users.FindByID(ctx, inviterID)
	if err != nil {
		return nil, err
	}
	if inviter == nil {
		return nil, ErrUnauthorized
	}
	invitee, err := s.Users.FindByEmail(ctx, in.InviteeEmail)
	if err != nil {
		return nil, err
	}
	if invitee == nil {
		return nil, fmt.Errorf("invitee not found: %w", ErrNotFound)
	}
	board, err := s.Boards.FindByID(ctx, in.BoardID)
	if err != nil {
		return nil, err
	}
	if board == nil || board.Destroy {
		return nil, fmt.Errorf("board not found: %w", ErrNotFound)
	}
	if board.HasParticipant(invitee.ID) {
		return nil, fmt.Errorf("invitee already belongs to board: %w", ErrConflict)
	}

	inv := &entity.Invitation{
		InviterID: inviter.ID,
		InviteeID: invitee.ID,
		Type:      entity.InvitationTypeBoard,
		BoardInvitation: entity.BoardInvitation{
			BoardID: board.ID,
			Status:  entity.BoardInvitationPending,
		},
	}
	id, err := s.Invitations.Create(ctx, inv)
	if err != nil {
		return nil, err
	}

	if s.Queue != nil {
		job := mailer.EmailJob{
			To:       invitee.Email,
			Subject:  fmt.Sprintf("%s invited you to the board %q", inviter.DisplayName, board.Title),
			Template: "board_invitation",
			Data: map[string]any{
				"inviter_name": inviter.DisplayName,
				"board_title":  board.Title,
				"board_url":    fmt.Sprintf("%s/boards/%s", s.WebsiteDomain, board.ID.Hex()),
			},
		}
		if err := s.Queue.PublishJSON(ctx, job); err != nil {
			s.logWarn("invitation email publish failed", logrus.Fields{
				"invitation_id": id.Hex(),
				"error":         err.Error(),
			})
		}
	}

	return s.Invitations.FindByID(ctx, id)
}

func (s *InvitationService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]entity.InvitationDetails, error) {
	return s.Invitations.FindByInvitee(ctx, userID)
}

// Decide moves a pending invitation to its terminal state. Only the
// invitee may decide. Accepting an invitation whose invitee already
// joined the board (through another invitation or direct membership) is
// a conflict, checked before any write. On accept the status is written
// before the board membership push, so an interrupted sequence leaves a
// terminal invitation with missing membership rather than the reverse.
func (s *InvitationService) Decide(ctx context.Context, userID, invitationID primitive.ObjectID, status string) (*entity.Invitation, error) {
	if status != entity.BoardInvitationAccepted && status != entity.BoardInvitationRejected {
		return nil, fmt.Errorf("invalid invitation status %q: %w", status, ErrConflict)
	}

	inv, err := s.Invitations.FindByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrNotFound
	}
	if inv.InviteeID != userID {
		return nil, ErrForbidden
	}
	if inv.BoardInvitation.Status != entity.BoardInvitationPending {
		return nil, fmt.Errorf("invitation already decided: %w", ErrConflict)
	}

	if status == entity.BoardInvitationAccepted {
		board, err := s.Boards.FindByID(ctx, inv.BoardInvitation.BoardID)
		if err != nil {
			return nil, err
		}
		if board == nil || board.Destroy {
			return nil, fmt.Errorf("board not found: %w", ErrNotFound)
		}
		if board.HasParticipant(userID) {
			return nil, fmt.Errorf("already a board member: %w", ErrConflict)
		}
	}

	updated, err := s.Invitations.Update(ctx, invitationID, bson.M{
		"boardInvitation.status": status,
		"updatedAt":              time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	if status == entity.BoardInvitationAccepted {
		if err := s.Boards.PushMemberID(ctx, inv.BoardInvitation.BoardID, userID); err != nil {
			s.logWarn("invitation accepted but membership push failed", logrus.Fields{
				"invitation_id": invitationID.Hex(),
				"board_id":      inv.BoardInvitation.BoardID.Hex(),
				"user_id":       userID.Hex(),
			})
			return nil, fmt.Errorf("accept invitation: membership push: %w", err)
		}
	}
	return updated, nil
}

func (s *InvitationService) logWarn(msg string, fields logrus.Fields) {
	if s.Logger != nil {
		s.Logger.WithFields(fields).Warn(msg)
	}
}
