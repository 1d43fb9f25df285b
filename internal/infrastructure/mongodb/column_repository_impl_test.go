package mongodb

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
)

func TestColumnRepositoryCardOrderPushPull(t *testing.T) {
	db := testDB(t)
	repo := NewColumnRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, &entity.Column{BoardID: primitive.NewObjectID(), Title: "todo"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	cardA, cardB := primitive.NewObjectID(), primitive.NewObjectID()
	for _, cid := range []primitive.ObjectID{cardA, cardB} {
		if err := repo.PushCardOrderID(ctx, id, cid); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	if err := repo.PullCardOrderID(ctx, id, cardA); err != nil {
		t.Fatalf("pull: %v", err)
	}

	col, _ := repo.FindByID(ctx, id)
	if len(col.CardOrderIds) != 1 || col.CardOrderIds[0] != cardB {
		t.Fatalf("cardOrderIds = %v", col.CardOrderIds)
	}

	if err := repo.PushCardOrderID(ctx, primitive.NewObjectID(), cardA); err == nil {
		t.Fatal("push against a missing column must fail")
	}
}

func TestColumnRepositoryDelete(t *testing.T) {
	db := testDB(t)
	repo := NewColumnRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, &entity.Column{BoardID: primitive.NewObjectID(), Title: "doomed"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	col, err := repo.FindByID(ctx, id)
	if err != nil || col != nil {
		t.Fatalf("deleted column still readable: (%v, %v)", col, err)
	}
	if err := repo.Delete(ctx, id); err == nil {
		t.Fatal("second delete must report the miss")
	}
}

func TestInvitationRepositoryStatusUpdate(t *testing.T) {
	db := testDB(t)
	repo := NewInvitationRepository(db)
	ctx := context.Background()

	invitee := primitive.NewObjectID()
	id, err := repo.Create(ctx, &entity.Invitation{
		InviterID: primitive.NewObjectID(),
		InviteeID: invitee,
		Type:      entity.InvitationTypeBoard,
		BoardInvitation: entity.BoardInvitation{
			BoardID: primitive.NewObjectID(),
			Status:  entity.BoardInvitationPending,
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.Update(ctx, id, bson.M{
		"boardInvitation.status": entity.BoardInvitationAccepted,
		"updatedAt":              time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.BoardInvitation.Status != entity.BoardInvitationAccepted {
		t.Fatalf("status = %q", updated.BoardInvitation.Status)
	}
	if updated.UpdatedAt == nil {
		t.Fatal("updatedAt should be set")
	}
}
