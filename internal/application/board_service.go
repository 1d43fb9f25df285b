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
	"github.com/oksasatya/kanban-board-api/pkg/helpers"
)

// BoardService owns board reads, board-level updates, the cross-column
// card move, and order-array reconciliation.
type BoardService struct {
	Boards  repo.BoardRepository
	Columns repo.ColumnRepository
	Cards   repo.CardRepository
	Logger  *logrus.Logger
}

func NewBoardService(boards repo.BoardRepository, columns repo.ColumnRepository, cards repo.CardRepository, logger *logrus.Logger) *BoardService {
	return &BoardService{Boards: boards, Columns: columns, Cards: cards, Logger: logger}
}

type CreateBoardInput struct {
	Title       string
	Description string
	Type        string
}

func (s *BoardService) Create(ctx context.Context, userID primitive.ObjectID, in CreateBoardInput) (*entity.Board, error) {
	b := &entity.Board{
		Title:       in.Title,
		Slug:        helpers.Slugify(in.Title),
		Description: in.Description,
		Type:        in.Type,
		OwnerIds:    []primitive.ObjectID{userID},
	}
	id, err := s.Boards.Create(ctx, b)
	if err != nil {
		return nil, err
	}
	return s.Boards.FindByID(ctx, id)
}

// GetDetails returns the assembled board view for a participant. A board
// that is missing, destroyed, or simply not theirs is ErrNotFound either
// way. When the read exposes drift between order arrays and
// back-references, repair runs before the response is assembled so the
// next reader already sees a consistent tree.
func (s *BoardService) GetDetails(ctx context.Context, userID, boardID primitive.ObjectID) (*entity.BoardView, error) {
	details, err := s.Boards.GetDetails(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return nil, ErrNotFound
	}

	if viewHasDrift(details) {
		s.logWarn("board order arrays drifted, reconciling", logrus.Fields{"board_id": boardID.Hex()})
		if _, rerr := s.ReconcileBoard(ctx, boardID); rerr != nil {
			s.logWarn("reconcile failed, serving unrepaired view", logrus.Fields{"board_id": boardID.Hex(), "error": rerr.Error()})
		} else if refetched, ferr := s.Boards.GetDetails(ctx, userID, boardID); ferr == nil && refetched != nil {
			details = refetched
		}
	}

	view, orphans := assembleBoardView(details)
	for _, card := range orphans {
		s.logWarn("orphaned card excluded from board view", logrus.Fields{
			"board_id":  boardID.Hex(),
			"card_id":   card.ID.Hex(),
			"column_id": card.ColumnID.Hex(),
		})
	}
	return view, nil
}

type UpdateBoardInput struct {
	Title          string
	Description    string
	Type           string
	ColumnOrderIds []primitive.ObjectID
}

func (s *BoardService) Update(ctx context.Context, boardID primitive.ObjectID, in UpdateBoardInput) (*entity.Board, error) {
	fields := bson.M{"updatedAt": time.Now().UTC()}
	if in.Title != "" {
		fields["title"] = in.Title
		fields["slug"] = helpers.Slugify(in.Title)
	}
	if in.Description != "" {
		fields["description"] = in.Description
	}
	if in.Type != "" {
		fields["type"] = in.Type
	}
	if in.ColumnOrderIds != nil {
		fields["columnOrderIds"] = in.ColumnOrderIds
	}

	b, err := s.Boards.Update(ctx, boardID, fields)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *BoardService) List(ctx context.Context, userID primitive.ObjectID, page, pageSize int64, filters map[string]string) (*entity.BoardPage, error) {
	return s.Boards.List(ctx, userID, page, pageSize, filters)
}

// MoveCardInput carries the caller-computed resulting order arrays for
// both columns. The service does not diff anything; it trusts the full
// replacement arrays, as the client already rendered them.
type MoveCardInput struct {
	CardID           primitive.ObjectID
	PrevColumnID     primitive.ObjectID
	PrevCardOrderIds []primitive.ObjectID
	NextColumnID     primitive.ObjectID
	NextCardOrderIds []primitive.ObjectID
}

// MoveCard performs the three-step cross-column move. The steps are
// individually atomic document writes with no surrounding transaction:
//
//	1. replace the source column's cardOrderIds
//	2. replace the destination column's cardOrderIds
//	3. repoint the card's columnId back-reference
//
// All references are validated before the first write, so a precondition
// failure is always safe to retry. A failure at step 1 or 2 stops the
// sequence before the back-reference moves. A failure at step 3 leaves
// both order arrays reflecting the move while the card still points at
// the source column; that state is repairable by ReconcileBoard and is
// reported, never swallowed.
func (s *BoardService) MoveCard(ctx context.Context, in MoveCardInput) error {
	card, err := s.Cards.FindByID(ctx, in.CardID)
	if err != nil {
		return err
	}
	if card == nil || card.Destroy {
		return ErrNotFound
	}
	prev, err := s.Columns.FindByID(ctx, in.PrevColumnID)
	if err != nil {
		return err
	}
	if prev == nil || prev.Destroy {
		return ErrNotFound
	}

	now := time.Now().UTC()

	// Reorder within one column: a single atomic replacement.
	if in.PrevColumnID == in.NextColumnID {
		_, err := s.Columns.Update(ctx, in.PrevColumnID, bson.M{
			"cardOrderIds": in.NextCardOrderIds,
			"updatedAt":    now,
		})
		return err
	}

	next, err := s.Columns.FindByID(ctx, in.NextColumnID)
	if err != nil {
		return err
	}
	if next == nil || next.Destroy {
		return ErrNotFound
	}

	if _, err := s.Columns.Update(ctx, in.PrevColumnID, bson.M{
		"cardOrderIds": in.PrevCardOrderIds,
		"updatedAt":    now,
	}); err != nil {
		return fmt.Errorf("move card: source column update: %w", err)
	}
	if _, err := s.Columns.Update(ctx, in.NextColumnID, bson.M{
		"cardOrderIds": in.NextCardOrderIds,
		"updatedAt":    now,
	}); err != nil {
		return fmt.Errorf("move card: destination column update: %w", err)
	}
	if _, err := s.Cards.Update(ctx, in.CardID, bson.M{
		"columnId":  in.NextColumnID,
		"updatedAt": now,
	}); err != nil {
		s.logWarn("card back-reference write failed after order arrays moved", logrus.Fields{
			"card_id":     in.CardID.Hex(),
			"prev_column": in.PrevColumnID.Hex(),
			"next_column": in.NextColumnID.Hex(),
		})
		return fmt.Errorf("move card: back-reference update: %w", err)
	}
	return nil
}

// ReconcileBoard recomputes the board's columnOrderIds and every live
// column's cardOrderIds from the children's back-references, writing
// only the arrays that actually drifted. Returns whether anything was
// repaired.
func (s *BoardService) ReconcileBoard(ctx context.Context, boardID primitive.ObjectID) (bool, error) {
	board, err := s.Boards.FindByID(ctx, boardID)
	if err != nil {
		return false, err
	}
	if board == nil || board.Destroy {
		return false, ErrNotFound
	}

	columns, err := s.Columns.FindLiveByBoardID(ctx, boardID)
	if err != nil {
		return false, err
	}

	changed := false
	now := time.Now().UTC()

	liveColumnIds := make([]primitive.ObjectID, 0, len(columns))
	for _, col := range columns {
		liveColumnIds = append(liveColumnIds, col.ID)
	}
	if repaired := reconcileOrder(board.ColumnOrderIds, liveColumnIds); !ordersEqual(repaired, board.ColumnOrderIds) {
		if _, err := s.Boards.Update(ctx, boardID, bson.M{"columnOrderIds": repaired, "updatedAt": now}); err != nil {
			return changed, err
		}
		changed = true
	}

	for _, col := range columns {
		cards, err := s.Cards.FindLiveByColumnID(ctx, col.ID)
		if err != nil {
			return changed, err
		}
		liveCardIds := make([]primitive.ObjectID, 0, len(cards))
		for _, card := range cards {
			liveCardIds = append(liveCardIds, card.ID)
		}
		if repaired := reconcileOrder(col.CardOrderIds, liveCardIds); !ordersEqual(repaired, col.CardOrderIds) {
			if _, err := s.Columns.Update(ctx, col.ID, bson.M{"cardOrderIds": repaired, "updatedAt": now}); err != nil {
				return changed, err
			}
			changed = true
		}
	}
	return changed, nil
}

func (s *BoardService) logWarn(msg string, fields logrus.Fields) {
	if s.Logger != nil {
		s.Logger.WithFields(fields).Warn(msg)
	}
}
