package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
	"github.com/oksasatya/kanban-board-api/internal/domain/repository"
)

type CardRepository struct {
	c *mongo.Collection
}

func NewCardRepository(db *mongo.Database) *CardRepository {
	return &CardRepository{c: db.Collection(cardsCollection)}
}

func (r *CardRepository) Create(ctx context.Context, card *entity.Card) (primitive.ObjectID, error) {
	card.ID = primitive.NewObjectID()
	card.CreatedAt = time.Now().UTC()
	card.UpdatedAt = nil
	if card.MemberIds == nil {
		card.MemberIds = []primitive.ObjectID{}
	}
	if card.Comments == nil {
		card.Comments = []entity.Comment{}
	}
	if _, err := r.c.InsertOne(ctx, card); err != nil {
		return primitive.NilObjectID, err
	}
	return card.ID, nil
}

func (r *CardRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Card, error) {
	var card entity.Card
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&card)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) FindLiveByColumnID(ctx context.Context, columnID primitive.ObjectID) ([]entity.Card, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.c.Find(ctx, bson.M{"columnId": columnID, "_destroy": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var cards []entity.Card
	if err := cur.All(ctx, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *CardRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*entity.Card, error) {
	set := stripFields(fields, "_id", "boardId", "createdAt")
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	var card entity.Card
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, returnAfter()).Decode(&card)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) DeleteByColumnID(ctx context.Context, columnID primitive.ObjectID) (int64, error) {
	res, err := r.c.DeleteMany(ctx, bson.M{"columnId": columnID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// UnshiftComment prepends the comment with $push + $position 0; MongoDB
// has no unshift so position does the job.
func (r *CardRepository) UnshiftComment(ctx context.Context, cardID primitive.ObjectID, comment entity.Comment) (*entity.Card, error) {
	update := bson.M{"$push": bson.M{"comments": bson.M{
		"$each":     bson.A{comment},
		"$position": 0,
	}}}

	var card entity.Card
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": cardID}, update, returnAfter()).Decode(&card)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) UpdateMembers(ctx context.Context, cardID primitive.ObjectID, action string, userID primitive.ObjectID) (*entity.Card, error) {
	var update bson.M
	switch action {
	case entity.CardMemberActionAdd:
		update = bson.M{"$push": bson.M{"memberIds": userID}}
	case entity.CardMemberActionRemove:
		update = bson.M{"$pull": bson.M{"memberIds": userID}}
	default:
		return nil, errors.New("unknown card member action: " + action)
	}

	var card entity.Card
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": cardID}, update, returnAfter()).Decode(&card)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

var _ repository.CardRepository = (*CardRepository)(nil)
