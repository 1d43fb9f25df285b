package application

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
)

func detailsFixture() (*entity.BoardDetails, []primitive.ObjectID, []primitive.ObjectID) {
	colIDs := ids(2)
	cardIDs := ids(3)

	d := &entity.BoardDetails{
		Board: entity.Board{
			ID:             primitive.NewObjectID(),
			Title:          "planning",
			ColumnOrderIds: []primitive.ObjectID{colIDs[1], colIDs[0]},
		},
		Columns: []entity.Column{
			{ID: colIDs[0], Title: "todo", CardOrderIds: []primitive.ObjectID{cardIDs[1], cardIDs[0]}},
			{ID: colIDs[1], Title: "done", CardOrderIds: []primitive.ObjectID{cardIDs[2]}},
		},
		Cards: []entity.Card{
			{ID: cardIDs[0], ColumnID: colIDs[0], Title: "a"},
			{ID: cardIDs[1], ColumnID: colIDs[0], Title: "b"},
			{ID: cardIDs[2], ColumnID: colIDs[1], Title: "c"},
		},
	}
	return d, colIDs, cardIDs
}

func TestAssembleBoardViewOrdersBySequenceArrays(t *testing.T) {
	d, colIDs, cardIDs := detailsFixture()

	view, orphans := assembleBoardView(d)
	if len(orphans) != 0 {
		t.Fatalf("unexpected orphans: %v", orphans)
	}
	if len(view.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(view.Columns))
	}
	if view.Columns[0].ID != colIDs[1] || view.Columns[1].ID != colIDs[0] {
		t.Fatal("columns not in columnOrderIds order")
	}
	todo := view.Columns[1]
	if len(todo.Cards) != 2 || todo.Cards[0].ID != cardIDs[1] || todo.Cards[1].ID != cardIDs[0] {
		t.Fatalf("cards not in cardOrderIds order: %v", todo.Cards)
	}
}

func TestAssembleBoardViewAppendsUnlistedCards(t *testing.T) {
	d, colIDs, _ := detailsFixture()
	extra := entity.Card{ID: primitive.NewObjectID(), ColumnID: colIDs[0], Title: "late"}
	d.Cards = append(d.Cards, extra)

	view, orphans := assembleBoardView(d)
	if len(orphans) != 0 {
		t.Fatalf("unexpected orphans: %v", orphans)
	}
	todo := view.Columns[1]
	if len(todo.Cards) != 3 || todo.Cards[2].ID != extra.ID {
		t.Fatalf("unlisted live card not appended last: %v", todo.Cards)
	}
}

func TestAssembleBoardViewReportsOrphans(t *testing.T) {
	d, _, _ := detailsFixture()
	orphan := entity.Card{ID: primitive.NewObjectID(), ColumnID: primitive.NewObjectID(), Title: "lost"}
	d.Cards = append(d.Cards, orphan)

	view, orphans := assembleBoardView(d)
	if len(orphans) != 1 || orphans[0].ID != orphan.ID {
		t.Fatalf("expected the orphan reported, got %v", orphans)
	}
	for _, col := range view.Columns {
		for _, card := range col.Cards {
			if card.ID == orphan.ID {
				t.Fatal("orphan leaked into the view")
			}
		}
	}
}

func TestAssembleBoardViewIgnoresStaleOrderEntries(t *testing.T) {
	d, _, _ := detailsFixture()
	d.ColumnOrderIds = append(d.ColumnOrderIds, primitive.NewObjectID())

	view, _ := assembleBoardView(d)
	if len(view.Columns) != 2 {
		t.Fatalf("stale order id materialized a column: %d", len(view.Columns))
	}
}

func TestViewHasDrift(t *testing.T) {
	d, _, _ := detailsFixture()
	if viewHasDrift(d) {
		t.Fatal("consistent details reported drift")
	}

	stale := *d
	stale.ColumnOrderIds = append([]primitive.ObjectID{primitive.NewObjectID()}, d.ColumnOrderIds...)
	if !viewHasDrift(&stale) {
		t.Fatal("stale column order entry not reported as drift")
	}

	missing := *d
	missing.ColumnOrderIds = d.ColumnOrderIds[:1]
	if !viewHasDrift(&missing) {
		t.Fatal("unlisted live column not reported as drift")
	}
}
