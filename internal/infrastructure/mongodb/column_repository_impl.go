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

type ColumnRepository struct {
	c *mongo.Collection
}

func NewColumnRepository(db *mongo.Database) *ColumnRepository {
	return &ColumnRepository{c: db.Collection(columnsCollection)}
}

func (r *ColumnRepository) Create(ctx context.Context, col *entity.Column) (primitive.ObjectID, error) {
	col.ID = primitive.NewObjectID()
	col.CreatedAt = time.Now().UTC()
	col.UpdatedAt = nil
	if col.CardOrderIds == nil {
		col.CardOrderIds = []primitive.ObjectID{}
	}
	if _, err := r.c.InsertOne(ctx, col); err != nil {
		return primitive.NilObjectID, err
	}
	return col.ID, nil
}

func (r *ColumnRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Column, error) {
	var col entity.Column
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&col)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &col, nil
}

func (r *ColumnRepository) FindLiveByBoardID(ctx context.Context, boardID primitive.ObjectID) ([]entity.Column, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.c.Find(ctx, bson.M{"boardId": boardID, "_destroy": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var cols []entity.Column
	if err := cur.All(ctx, &cols); err != nil {
		return nil, err
	}
	return cols, nil
}

func (r *ColumnRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*entity.Column, error) {
	set := stripFields(fields, "_id", "createdAt")
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	var col entity.Column
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, returnAfter()).Decode(&col)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &col, nil
}

func (r *ColumnRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *ColumnRepository) PushCardOrderID(ctx context.Context, columnID, cardID primitive.ObjectID) error {
	return r.pushPull(ctx, columnID, "$push", cardID)
}

func (r *ColumnRepository) PullCardOrderID(ctx context.Context, columnID, cardID primitive.ObjectID) error {
	return r.pushPull(ctx, columnID, "$pull", cardID)
}

func (r *ColumnRepository) pushPull(ctx context.Context, columnID primitive.ObjectID, op string, cardID primitive.ObjectID) error {
	res, err := r.c.UpdateByID(ctx, columnID, bson.M{op: bson.M{"cardOrderIds": cardID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

var _ repository.ColumnRepository = (*ColumnRepository)(nil)
