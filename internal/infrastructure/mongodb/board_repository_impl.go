package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
	"github.com/oksasatya/kanban-board-api/internal/domain/repository"
)

type BoardRepository struct {
	c *mongo.Collection
}

func NewBoardRepository(db *mongo.Database) *BoardRepository {
	return &BoardRepository{c: db.Collection(boardsCollection)}
}

// participantFilter restricts a query to boards where the user appears in
// ownerIds or memberIds. Combined with the _id/_destroy predicates in the
// same query so a non-member request is indistinguishable from a missing
// board.
func participantFilter(userID primitive.ObjectID) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"ownerIds": userID},
		bson.M{"memberIds": userID},
	}}
}

func (r *BoardRepository) Create(ctx context.Context, b *entity.Board) (primitive.ObjectID, error) {
	b.ID = primitive.NewObjectID()
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = nil
	if b.ColumnOrderIds == nil {
		b.ColumnOrderIds = []primitive.ObjectID{}
	}
	if b.OwnerIds == nil {
		b.OwnerIds = []primitive.ObjectID{}
	}
	if b.MemberIds == nil {
		b.MemberIds = []primitive.ObjectID{}
	}
	if _, err := r.c.InsertOne(ctx, b); err != nil {
		return primitive.NilObjectID, err
	}
	return b.ID, nil
}

func (r *BoardRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Board, error) {
	var b entity.Board
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetDetails runs the multi-way join for a single board view: the board
// itself (membership-gated), its live columns and cards, and the resolved
// owner/member summaries with credential fields projected away.
func (r *BoardRepository) GetDetails(ctx context.Context, userID, boardID primitive.ObjectID) (*entity.BoardDetails, error) {
	notDestroyed := bson.A{bson.M{"$match": bson.M{"_destroy": false}}}
	dropSecrets := bson.A{bson.M{"$project": bson.M{"password": 0, "verifyToken": 0}}}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"_id":      boardID,
			"_destroy": false,
			"$or": bson.A{
				bson.M{"ownerIds": userID},
				bson.M{"memberIds": userID},
			},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         columnsCollection,
			"localField":   "_id",
			"foreignField": "boardId",
			"as":           "columns",
			"pipeline":     notDestroyed,
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         cardsCollection,
			"localField":   "_id",
			"foreignField": "boardId",
			"as":           "cards",
			"pipeline":     notDestroyed,
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "ownerIds",
			"foreignField": "_id",
			"as":           "owners",
			"pipeline":     dropSecrets,
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "memberIds",
			"foreignField": "_id",
			"as":           "members",
			"pipeline":     dropSecrets,
		}}},
	}

	cur, err := r.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var results []entity.BoardDetails
	if err := cur.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// List pages through the user's boards. The page slice and the total
// count come out of one $facet over the same filtered set, so they can
// never disagree. Collation keeps the title sort locale-aware instead of
// byte-ordered.
func (r *BoardRepository) List(ctx context.Context, userID primitive.ObjectID, page, pageSize int64, filters map[string]string) (*entity.BoardPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 12
	}

	match := bson.A{
		bson.M{"_destroy": false},
		participantFilter(userID),
	}
	// Filter values are literal substrings, never patterns.
	for field, sub := range filters {
		match = append(match, bson.M{field: primitive.Regex{Pattern: regexp.QuoteMeta(sub), Options: "i"}})
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$and": match}}},
		{{Key: "$sort", Value: bson.D{{Key: "title", Value: 1}}}},
		{{Key: "$facet", Value: bson.M{
			"queryBoards": bson.A{
				bson.M{"$skip": (page - 1) * pageSize},
				bson.M{"$limit": pageSize},
			},
			"queryTotalBoards": bson.A{
				bson.M{"$count": "countedAllBoards"},
			},
		}}},
	}

	opts := options.Aggregate().SetCollation(&options.Collation{Locale: "en"})
	cur, err := r.c.Aggregate(ctx, pipeline, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var results []struct {
		Boards []entity.Board `bson:"queryBoards"`
		Total  []struct {
			Count int64 `bson:"countedAllBoards"`
		} `bson:"queryTotalBoards"`
	}
	if err := cur.All(ctx, &results); err != nil {
		return nil, err
	}

	pageOut := &entity.BoardPage{Boards: []entity.Board{}}
	if len(results) > 0 {
		if results[0].Boards != nil {
			pageOut.Boards = results[0].Boards
		}
		if len(results[0].Total) > 0 {
			pageOut.TotalBoards = results[0].Total[0].Count
		}
	}
	return pageOut, nil
}

func (r *BoardRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*entity.Board, error) {
	set := stripFields(fields, "_id", "createdAt")
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	var b entity.Board
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, returnAfter()).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BoardRepository) PushColumnOrderID(ctx context.Context, boardID, columnID primitive.ObjectID) error {
	return r.pushPull(ctx, boardID, "$push", "columnOrderIds", columnID)
}

func (r *BoardRepository) PullColumnOrderID(ctx context.Context, boardID, columnID primitive.ObjectID) error {
	return r.pushPull(ctx, boardID, "$pull", "columnOrderIds", columnID)
}

func (r *BoardRepository) PushMemberID(ctx context.Context, boardID, userID primitive.ObjectID) error {
	return r.pushPull(ctx, boardID, "$push", "memberIds", userID)
}

func (r *BoardRepository) pushPull(ctx context.Context, boardID primitive.ObjectID, op, field string, value primitive.ObjectID) error {
	res, err := r.c.UpdateByID(ctx, boardID, bson.M{op: bson.M{field: value}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

var _ repository.BoardRepository = (*BoardRepository)(nil)

