package mongodb

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
)

func TestBoardRepositoryRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewBoardRepository(db)
	ctx := context.Background()

	owner := primitive.NewObjectID()
	id, err := repo.Create(ctx, &entity.Board{
		Title:    "roadmap",
		Slug:     "roadmap",
		Type:     entity.BoardTypePublic,
		OwnerIds: []primitive.ObjectID{owner},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	b, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if b == nil || b.Title != "roadmap" {
		t.Fatalf("board = %+v", b)
	}
	if b.UpdatedAt != nil {
		t.Fatal("updatedAt must be nil before the first update")
	}
	if b.ColumnOrderIds == nil || b.MemberIds == nil {
		t.Fatal("empty arrays must round-trip as arrays, not null")
	}

	missing, err := repo.FindByID(ctx, primitive.NewObjectID())
	if err != nil || missing != nil {
		t.Fatalf("miss should be (nil, nil), got (%v, %v)", missing, err)
	}
}

func TestBoardRepositoryUpdateStripsImmutableFields(t *testing.T) {
	db := testDB(t)
	repo := NewBoardRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, &entity.Board{Title: "before", Slug: "before", Type: entity.BoardTypePrivate})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created, _ := repo.FindByID(ctx, id)

	updated, err := repo.Update(ctx, id, bson.M{
		"title":     "after",
		"createdAt": time.Now().UTC().Add(time.Hour),
		"updatedAt": time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "after" {
		t.Fatalf("title = %q", updated.Title)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("createdAt must not be writable")
	}
	if updated.UpdatedAt == nil {
		t.Fatal("updatedAt should now be set")
	}
}

func TestBoardRepositoryOrderAndMemberPushPull(t *testing.T) {
	db := testDB(t)
	repo := NewBoardRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, &entity.Board{Title: "ops", Slug: "ops", Type: entity.BoardTypePublic})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	colA, colB := primitive.NewObjectID(), primitive.NewObjectID()
	for _, cid := range []primitive.ObjectID{colA, colB} {
		if err := repo.PushColumnOrderID(ctx, id, cid); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	if err := repo.PullColumnOrderID(ctx, id, colA); err != nil {
		t.Fatalf("pull: %v", err)
	}

	member := primitive.NewObjectID()
	if err := repo.PushMemberID(ctx, id, member); err != nil {
		t.Fatalf("push member: %v", err)
	}

	b, _ := repo.FindByID(ctx, id)
	if len(b.ColumnOrderIds) != 1 || b.ColumnOrderIds[0] != colB {
		t.Fatalf("columnOrderIds = %v", b.ColumnOrderIds)
	}
	if len(b.MemberIds) != 1 || b.MemberIds[0] != member {
		t.Fatalf("memberIds = %v", b.MemberIds)
	}

	if err := repo.PushColumnOrderID(ctx, primitive.NewObjectID(), colA); err == nil {
		t.Fatal("push against a missing board must fail")
	}
}

func TestBoardRepositoryListPagesAndFilters(t *testing.T) {
	db := testDB(t)
	repo := NewBoardRepository(db)
	ctx := context.Background()

	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	// Mixed case on purpose: byte order puts "Banana" before "apple", the
	// en collation puts "apple" first.
	titles := []string{"Banana", "apple", "cherry"}
	for _, title := range titles {
		if _, err := repo.Create(ctx, &entity.Board{
			Title:    title,
			Slug:     title,
			Type:     entity.BoardTypePublic,
			OwnerIds: []primitive.ObjectID{owner},
		}); err != nil {
			t.Fatalf("create %q: %v", title, err)
		}
	}
	if _, err := repo.Create(ctx, &entity.Board{
		Title:    "hidden",
		Slug:     "hidden",
		Type:     entity.BoardTypePrivate,
		OwnerIds: []primitive.ObjectID{stranger},
	}); err != nil {
		t.Fatalf("create hidden: %v", err)
	}

	page, err := repo.List(ctx, owner, 1, 2, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalBoards != 3 {
		t.Fatalf("totalBoards = %d, want 3", page.TotalBoards)
	}
	if len(page.Boards) != 2 || page.Boards[0].Title != "apple" || page.Boards[1].Title != "Banana" {
		t.Fatalf("page 1 = %v", page.Boards)
	}

	page2, err := repo.List(ctx, owner, 2, 2, nil)
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if page2.TotalBoards != 3 || len(page2.Boards) != 1 || page2.Boards[0].Title != "cherry" {
		t.Fatalf("page 2 = %+v", page2)
	}

	filtered, err := repo.List(ctx, owner, 1, 12, map[string]string{"title": "PPL"})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if filtered.TotalBoards != 1 || filtered.Boards[0].Title != "apple" {
		t.Fatalf("filtered = %+v", filtered)
	}

	none, err := repo.List(ctx, stranger, 1, 12, map[string]string{"title": "alpha"})
	if err != nil {
		t.Fatalf("stranger list: %v", err)
	}
	if none.TotalBoards != 0 || len(none.Boards) != 0 {
		t.Fatalf("stranger must not see other users' boards, got %+v", none)
	}
}

func TestBoardRepositoryGetDetailsJoinsAndGates(t *testing.T) {
	db := testDB(t)
	boards := NewBoardRepository(db)
	columns := NewColumnRepository(db)
	cards := NewCardRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	secret := "tok"
	ownerID, err := users.Create(ctx, &entity.User{
		Email:       "owner@example.com",
		Password:    "hash",
		Username:    "owner",
		DisplayName: "Owner",
		VerifyToken: &secret,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	boardID, err := boards.Create(ctx, &entity.Board{
		Title:    "detailed",
		Slug:     "detailed",
		Type:     entity.BoardTypePublic,
		OwnerIds: []primitive.ObjectID{ownerID},
	})
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	colID, err := columns.Create(ctx, &entity.Column{BoardID: boardID, Title: "todo"})
	if err != nil {
		t.Fatalf("create column: %v", err)
	}
	if _, err := cards.Create(ctx, &entity.Card{BoardID: boardID, ColumnID: colID, Title: "first"}); err != nil {
		t.Fatalf("create card: %v", err)
	}

	d, err := boards.GetDetails(ctx, ownerID, boardID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if d == nil {
		t.Fatal("owner should see the board")
	}
	if len(d.Columns) != 1 || len(d.Cards) != 1 {
		t.Fatalf("columns=%d cards=%d", len(d.Columns), len(d.Cards))
	}
	if len(d.Owners) != 1 || d.Owners[0].Email != "owner@example.com" {
		t.Fatalf("owners = %+v", d.Owners)
	}

	stranger := primitive.NewObjectID()
	hidden, err := boards.GetDetails(ctx, stranger, boardID)
	if err != nil {
		t.Fatalf("stranger details: %v", err)
	}
	if hidden != nil {
		t.Fatal("non-participant must not see the board")
	}
}
