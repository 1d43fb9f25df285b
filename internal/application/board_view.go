package application

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
)

// assembleBoardView reattaches the flat lookup results into the nested
// board -> columns -> cards tree.
//
// Membership is decided by back-references only: a card belongs to the
// column whose id equals its ColumnID, regardless of what any
// cardOrderIds array claims. The order arrays then decide sequence;
// live children missing from an order array are appended after the
// ordered ones so drift never hides data.
//
// Cards whose ColumnID matches none of the fetched columns are orphans,
// the footprint of a move whose final back-reference write never
// happened against a column since deleted. They are excluded from the
// view and returned separately so the caller can log and trigger repair
// instead of silently dropping them.
func assembleBoardView(d *entity.BoardDetails) (*entity.BoardView, []entity.Card) {
	byColumn := make(map[primitive.ObjectID][]entity.Card, len(d.Columns))
	known := make(map[primitive.ObjectID]struct{}, len(d.Columns))
	for _, col := range d.Columns {
		known[col.ID] = struct{}{}
	}

	var orphans []entity.Card
	for _, card := range d.Cards {
		if _, ok := known[card.ColumnID]; !ok {
			orphans = append(orphans, card)
			continue
		}
		byColumn[card.ColumnID] = append(byColumn[card.ColumnID], card)
	}

	columns := make([]entity.ColumnView, 0, len(d.Columns))
	for _, col := range orderColumns(d.Columns, d.ColumnOrderIds) {
		columns = append(columns, entity.ColumnView{
			Column: col,
			Cards:  orderCards(byColumn[col.ID], col.CardOrderIds),
		})
	}

	return &entity.BoardView{
		Board:   d.Board,
		Owners:  d.Owners,
		Members: d.Members,
		Columns: columns,
	}, orphans
}

func orderColumns(cols []entity.Column, order []primitive.ObjectID) []entity.Column {
	byID := make(map[primitive.ObjectID]entity.Column, len(cols))
	for _, c := range cols {
		byID[c.ID] = c
	}

	out := make([]entity.Column, 0, len(cols))
	used := make(map[primitive.ObjectID]struct{}, len(cols))
	for _, id := range order {
		if c, ok := byID[id]; ok {
			if _, dup := used[id]; dup {
				continue
			}
			used[id] = struct{}{}
			out = append(out, c)
		}
	}
	// Live columns the order array does not know about yet.
	for _, c := range cols {
		if _, ok := used[c.ID]; !ok {
			out = append(out, c)
		}
	}
	return out
}

func orderCards(cards []entity.Card, order []primitive.ObjectID) []entity.Card {
	byID := make(map[primitive.ObjectID]entity.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	out := make([]entity.Card, 0, len(cards))
	used := make(map[primitive.ObjectID]struct{}, len(cards))
	for _, id := range order {
		if c, ok := byID[id]; ok {
			if _, dup := used[id]; dup {
				continue
			}
			used[id] = struct{}{}
			out = append(out, c)
		}
	}
	for _, c := range cards {
		if _, ok := used[c.ID]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// viewHasDrift reports whether any order array disagrees with the
// back-references that the same read returned. Used to trigger
// opportunistic repair on reads.
func viewHasDrift(d *entity.BoardDetails) bool {
	liveCols := make([]primitive.ObjectID, 0, len(d.Columns))
	cardsByCol := make(map[primitive.ObjectID][]primitive.ObjectID, len(d.Columns))
	for _, col := range d.Columns {
		liveCols = append(liveCols, col.ID)
	}
	for _, card := range d.Cards {
		cardsByCol[card.ColumnID] = append(cardsByCol[card.ColumnID], card.ID)
	}

	if !sameMembers(d.ColumnOrderIds, liveCols) {
		return true
	}
	for _, col := range d.Columns {
		if !sameMembers(col.CardOrderIds, cardsByCol[col.ID]) {
			return true
		}
	}
	return false
}

// sameMembers compares two id slices as sets with multiplicity ignored on
// neither side: equal length and identical membership.
func sameMembers(a, b []primitive.ObjectID) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[primitive.ObjectID]int, len(a))
	for _, id := range a {
		set[id]++
	}
	for _, id := range b {
		if set[id] == 0 {
			return false
		}
		set[id]--
	}
	return true
}
