package application

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
	"github.com/oksasatya/kanban-board-api/pkg/mailer"
)

func newInvitationFixture() (*InvitationService, *fakeUserRepo, *fakeBoardRepo, *fakeInvitationRepo, *fakeEmailQueue) {
	users := newFakeUserRepo()
	boards := newFakeBoardRepo()
	invitations := newFakeInvitationRepo()
	queue := &fakeEmailQueue{}
	svc := NewInvitationService(users, boards, invitations, queue, "http://localhost:5173", nil)
	return svc, users, boards, invitations, queue
}

func seedInvitationActors(users *fakeUserRepo, boards *fakeBoardRepo) (inviter, invitee primitive.ObjectID, boardID primitive.ObjectID) {
	ctx := context.Background()
	inviter, _ = users.Create(ctx, &entity.User{Email: "owner@example.com", DisplayName: "Owner"})
	invitee, _ = users.Create(ctx, &entity.User{Email: "guest@example.com", DisplayName: "Guest"})
	boardID, _ = boards.Create(ctx, &entity.Board{Title: "sprint", OwnerIds: []primitive.ObjectID{inviter}})
	return inviter, invitee, boardID
}

func TestCreateInvitation(t *testing.T) {
	svc, users, boards, invitations, queue := newInvitationFixture()
	inviter, invitee, boardID := seedInvitationActors(users, boards)

	inv, err := svc.Create(context.Background(), inviter, CreateInvitationInput{
		BoardID:      boardID,
		InviteeEmail: "guest@example.com",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if inv.InviterID != inviter || inv.InviteeID != invitee {
		t.Fatalf("actors wrong: %+v", inv)
	}
	if inv.Type != entity.InvitationTypeBoard {
		t.Fatalf("type = %q", inv.Type)
	}
	if inv.BoardInvitation.Status != entity.BoardInvitationPending {
		t.Fatalf("status = %q, want pending", inv.BoardInvitation.Status)
	}
	if len(invitations.invitations) != 1 {
		t.Fatal("invitation not persisted")
	}
	if len(queue.jobs) != 1 {
		t.Fatalf("expected one email job, got %d", len(queue.jobs))
	}
	job := queue.jobs[0].(mailer.EmailJob)
	if job.To != "guest@example.com" || job.Template != "board_invitation" {
		t.Fatalf("job = %+v", job)
	}
}

func TestCreateInvitationUnknownInvitee(t *testing.T) {
	svc, users, boards, _, _ := newInvitationFixture()
	inviter, _, boardID := seedInvitationActors(users, boards)

	_, err := svc.Create(context.Background(), inviter, CreateInvitationInput{
		BoardID:      boardID,
		InviteeEmail: "nobody@example.com",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateInvitationForExistingParticipant(t *testing.T) {
	svc, users, boards, _, _ := newInvitationFixture()
	inviter, invitee, boardID := seedInvitationActors(users, boards)
	boards.boards[boardID].MemberIds = []primitive.ObjectID{invitee}

	_, err := svc.Create(context.Background(), inviter, CreateInvitationInput{
		BoardID:      boardID,
		InviteeEmail: "guest@example.com",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCreateInvitationEmailFailureDoesNotUnwind(t *testing.T) {
	svc, users, boards, invitations, queue := newInvitationFixture()
	inviter, _, boardID := seedInvitationActors(users, boards)
	queue.err = errors.New("broker down")

	inv, err := svc.Create(context.Background(), inviter, CreateInvitationInput{
		BoardID:      boardID,
		InviteeEmail: "guest@example.com",
	})
	if err != nil {
		t.Fatalf("publish failure must not fail the create: %v", err)
	}
	if _, ok := invitations.invitations[inv.ID]; !ok {
		t.Fatal("invitation should stay committed")
	}
}

func TestDecideAcceptPushesMembership(t *testing.T) {
	svc, users, boards, invitations, _ := newInvitationFixture()
	inviter, invitee, boardID := seedInvitationActors(users, boards)

	inv, err := svc.Create(context.Background(), inviter, CreateInvitationInput{BoardID: boardID, InviteeEmail: "guest@example.com"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	decided, err := svc.Decide(context.Background(), invitee, inv.ID, entity.BoardInvitationAccepted)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if decided.BoardInvitation.Status != entity.BoardInvitationAccepted {
		t.Fatalf("status = %q", decided.BoardInvitation.Status)
	}
	members := boards.boards[boardID].MemberIds
	if len(members) != 1 || members[0] != invitee {
		t.Fatalf("members = %v", members)
	}
	if invitations.invitations[inv.ID].UpdatedAt == nil {
		t.Fatal("updatedAt should be set by the decision")
	}
}

func TestDecideRejectLeavesMembershipAlone(t *testing.T) {
	svc, users, boards, _, _ := newInvitationFixture()
	inviter, invitee, boardID := seedInvitationActors(users, boards)

	inv, _ := svc.Create(context.Background(), inviter, CreateInvitationInput{BoardID: boardID, InviteeEmail: "guest@example.com"})
	decided, err := svc.Decide(context.Background(), invitee, inv.ID, entity.BoardInvitationRejected)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if decided.BoardInvitation.Status != entity.BoardInvitationRejected {
		t.Fatalf("status = %q", decided.BoardInvitation.Status)
	}
	if len(boards.boards[boardID].MemberIds) != 0 {
		t.Fatal("reject must not touch membership")
	}
}

func TestDecideOnlyInviteeMayDecide(t *testing.T) {
	svc, users, boards, _, _ := newInvitationFixture()
	inviter, _, boardID := seedInvitationActors(users, boards)

	inv, _ := svc.Create(context.Background(), inviter, CreateInvitationInput{BoardID: boardID, InviteeEmail: "guest@example.com"})
	_, err := svc.Decide(context.Background(), inviter, inv.ID, entity.BoardInvitationAccepted)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDecideTerminalInvitationConflicts(t *testing.T) {
	svc, users, boards, _, _ := newInvitationFixture()
	inviter, invitee, boardID := seedInvitationActors(users, boards)

	inv, _ := svc.Create(context.Background(), inviter, CreateInvitationInput{BoardID: boardID, InviteeEmail: "guest@example.com"})
	if _, err := svc.Decide(context.Background(), invitee, inv.ID, entity.BoardInvitationRejected); err != nil {
		t.Fatalf("first decision failed: %v", err)
	}
	_, err := svc.Decide(context.Background(), invitee, inv.ID, entity.BoardInvitationAccepted)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on re-decision, got %v", err)
	}
}

func TestDecideAcceptWhenAlreadyMember(t *testing.T) {
	svc, users, boards, _, _ := newInvitationFixture()
	inviter, invitee, boardID := seedInvitationActors(users, boards)

	inv, _ := svc.Create(context.Background(), inviter, CreateInvitationInput{BoardID: boardID, InviteeEmail: "guest@example.com"})
	// Joined through another path while this invitation sat pending.
	boards.boards[boardID].MemberIds = []primitive.ObjectID{invitee}

	_, err := svc.Decide(context.Background(), invitee, inv.ID, entity.BoardInvitationAccepted)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(boards.boards[boardID].MemberIds) != 1 {
		t.Fatal("membership must not be duplicated")
	}
}

func TestDecideInvalidStatus(t *testing.T) {
	svc, users, boards, _, _ := newInvitationFixture()
	inviter, invitee, boardID := seedInvitationActors(users, boards)

	inv, _ := svc.Create(context.Background(), inviter, CreateInvitationInput{BoardID: boardID, InviteeEmail: "guest@example.com"})
	_, err := svc.Decide(context.Background(), invitee, inv.ID, "MAYBE")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
