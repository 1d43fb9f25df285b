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
)

// ColumnService owns column creation, updates, and the cascading delete.
type ColumnService struct {
	Boards  repo.BoardRepository
	Columns repo.ColumnRepository
	Cards   repo.CardRepository
	Logger  *logrus.Logger
}

func NewColumnService(boards repo.BoardRepository, columns repo.ColumnRepository, cards repo.CardRepository, logger *logrus.Logger) *ColumnService {
	return &ColumnService{Boards: boards, Columns: columns, Cards: cards, Logger: logger}
}

type CreateColumnInput struct {
	BoardID primitive.ObjectID
	Title   string
}

// Create inserts the column document first, then appends its id to the
// parent board's columnOrderIds. The two writes are not atomic; if the
// append fails the column exists but is unlisted, which reconciliation
// repairs by appending it at the end.
func (s *ColumnService) Create(ctx context.Context, in CreateColumnInput) (*entity.Column, error) {
	board, err := s.Boards.FindByID(ctx, in.BoardID)
	if err != nil {
		return nil, err
	}
	if board == nil || board.Destroy {
		return nil, ErrNotFound
	}

	col := &entity.Column{
		BoardID:      in.BoardID,
		Title:        in.Title,
		CardOrderIds: []primitive.ObjectID{},
	}
	id, err := s.Columns.Create(ctx, col)
	if err != nil {
		return nil, err
	}
	if err := s.Boards.PushColumnOrderID(ctx, in.BoardID, id); err != nil {
		s.logWarn("column created but not appended to board order", logrus.Fields{
			"board_id":  in.BoardID.Hex(),
			"column_id": id.Hex(),
		})
		return nil, fmt.Errorf("create column: board order append: %w", err)
	}
	return s.Columns.FindByID(ctx, id)
}

type UpdateColumnInput struct {
	Title        string
	CardOrderIds []primitive.ObjectID
}

func (s *ColumnService) Update(ctx context.Context, columnID primitive.ObjectID, in UpdateColumnInput) (*entity.Column, error) {
	fields := bson.M{"updatedAt": time.Now().UTC()}
	if in.Title != "" {
		fields["title"] = in.Title
	}
	if in.CardOrderIds != nil {
		fields["cardOrderIds"] = in.CardOrderIds
	}

	col, err := s.Columns.Update(ctx, columnID, fields)
	if err != nil {
		return nil, err
	}
	if col == nil {
		return nil, ErrNotFound
	}
	return col, nil
}

// Delete hard-deletes the column, hard-deletes every card referencing it,
// and pulls its id from the parent board's columnOrderIds, in that order.
// Each later step only runs if the earlier ones succeeded, so a partial
// failure never leaves the order array pointing at a deleted column
// before its cards are gone.
func (s *ColumnService) Delete(ctx context.Context, columnID primitive.ObjectID) error {
	col, err := s.Columns.FindByID(ctx, columnID)
	if err != nil {
		return err
	}
	if col == nil {
		return ErrNotFound
	}

	if err := s.Columns.Delete(ctx, columnID); err != nil {
		return err
	}
	deleted, err := s.Cards.DeleteByColumnID(ctx, columnID)
	if err != nil {
		return fmt.Errorf("delete column: card cascade: %w", err)
	}
	if err := s.Boards.PullColumnOrderID(ctx, col.BoardID, columnID); err != nil {
		s.logWarn("column deleted but still listed in board order", logrus.Fields{
			"board_id":  col.BoardID.Hex(),
			"column_id": columnID.Hex(),
		})
		return fmt.Errorf("delete column: board order pull: %w", err)
	}

	s.logInfo("column deleted", logrus.Fields{
		"board_id":      col.BoardID.Hex(),
		"column_id":     columnID.Hex(),
		"cards_deleted": deleted,
	})
	return nil
}

func (s *ColumnService) logInfo(msg string, fields logrus.Fields) {
	if s.Logger != nil {
		s.Logger.WithFields(fields).Info(msg)
	}
}

func (s *ColumnService) logWarn(msg string, fields logrus.Fields) {
	if s.Logger != nil {
		s.Logger.WithFields(fields).Warn(msg)
	}
}
