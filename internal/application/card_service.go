package application

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
	repo "github.com/oksasatya/kanban-board-api/internal/domain/repository"
	"github.com/oksasatya/kanban-board-api/pkg/helpers"
)

// CardService owns card creation and the multiplexed card update:
// field patches, cover uploads, comment prepends, and member toggles.
type CardService struct {
	Columns  repo.ColumnRepository
	Cards    repo.CardRepository
	Users    repo.UserRepository
	Uploader helpers.Uploader
	Logger   *logrus.Logger
}

func NewCardService(columns repo.ColumnRepository, cards repo.CardRepository, users repo.UserRepository, uploader helpers.Uploader, logger *logrus.Logger) *CardService {
	return &CardService{Columns: columns, Cards: cards, Users: users, Uploader: uploader, Logger: logger}
}

type CreateCardInput struct {
	BoardID  primitive.ObjectID
	ColumnID primitive.ObjectID
	Title    string
}

// Create inserts the card document first, then appends its id to the
// parent column's cardOrderIds. Like column creation the pair is not
// atomic, and an unlisted card is picked up by reconciliation.
func (s *CardService) Create(ctx context.Context, in CreateCardInput) (*entity.Card, error) {
	col, err := s.Columns.FindByID(ctx, in.ColumnID)
	if err != nil {
		return nil, err
	}
	if col == nil || col.Destroy {
		return nil, ErrNotFound
	}
	if col.BoardID != in.BoardID {
		return nil, ErrConflict
	}

	card := &entity.Card{
		BoardID:   in.BoardID,
		ColumnID:  in.ColumnID,
		Title:     in.Title,
		MemberIds: []primitive.ObjectID{},
		Comments:  []entity.Comment{},
	}
	id, err := s.Cards.Create(ctx, card)
	if err != nil {
		return nil, err
	}
	if err := s.Columns.PushCardOrderID(ctx, in.ColumnID, id); err != nil {
		s.logWarn("card created but not appended to column order", logrus.Fields{
			"column_id": in.ColumnID.Hex(),
			"card_id":   id.Hex(),
		})
		return nil, fmt.Errorf("create card: column order append: %w", err)
	}
	return s.Cards.FindByID(ctx, id)
}

// UpdateCardInput is the multiplexed card patch. Exactly one of the
// special payloads (cover file, comment, member action) is usually set
// per request; plain field edits travel in Title and Description.
type UpdateCardInput struct {
	Title        string
	Description  *string
	Cover        *multipart.FileHeader
	Comment      string
	MemberAction string
	MemberID     primitive.ObjectID
}

func (s *CardService) Update(ctx context.Context, userID, cardID primitive.ObjectID, in UpdateCardInput) (*entity.Card, error) {
	card, err := s.Cards.FindByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil || card.Destroy {
		return nil, ErrNotFound
	}

	now := time.Now().UTC()

	if in.Cover != nil {
		if s.Uploader == nil {
			return nil, fmt.Errorf("uploads not configured: %w", ErrUpstream)
		}
		url, err := s.Uploader.Upload(ctx, "card-covers", in.Cover)
		if err != nil {
			return nil, fmt.Errorf("cover upload: %w", ErrUpstream)
		}
		return s.Cards.Update(ctx, cardID, bson.M{"cover": url, "updatedAt": now})
	}

	if in.Comment != "" {
		user, err := s.Users.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUnauthorized
		}
		comment := entity.Comment{
			UserID:          user.ID,
			UserEmail:       user.Email,
			UserAvatar:      user.Avatar,
			UserDisplayName: user.DisplayName,
			Content:         in.Comment,
			CommentedAt:     now,
		}
		return s.Cards.UnshiftComment(ctx, cardID, comment)
	}

	if in.MemberAction != "" {
		if in.MemberAction != entity.CardMemberActionAdd && in.MemberAction != entity.CardMemberActionRemove {
			return nil, fmt.Errorf("unknown member action %q: %w", in.MemberAction, ErrConflict)
		}
		return s.Cards.UpdateMembers(ctx, cardID, in.MemberAction, in.MemberID)
	}

	fields := bson.M{"updatedAt": now}
	if in.Title != "" {
		fields["title"] = in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	updated, err := s.Cards.Update(ctx, cardID, fields)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

func (s *CardService) logWarn(msg string, fields logrus.Fields) {
	if s.Logger != nil {
		s.Logger.WithFields(fields).Warn(msg)
	}
}
