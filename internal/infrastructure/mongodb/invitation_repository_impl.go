package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/kanban-board-api/internal/domain/entity"
	"github.com/oksasatya/kanban-board-api/internal/domain/repository"
)

type InvitationRepository struct {
	c *mongo.Collection
}

func NewInvitationRepository(db *mongo.Database) *InvitationRepository {
	return &InvitationRepository{c: db.Collection(invitationsCollection)}
}

func (r *InvitationRepository) Create(ctx context.Context, inv *entity.Invitation) (primitive.ObjectID, error) {
	inv.ID = primitive.NewObjectID()
	inv.CreatedAt = time.Now().UTC()
	inv.UpdatedAt = nil
	if _, err := r.c.InsertOne(ctx, inv); err != nil {
		return primitive.NilObjectID, err
	}
	return inv.ID, nil
}

func (r *InvitationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Invitation, error) {
	var inv entity.Invitation
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindByInvitee resolves inviter, invitee, and board in one aggregation.
// The lookups come back as one-element arrays; $unwind flattens them
// before decoding.
func (r *InvitationRepository) FindByInvitee(ctx context.Context, userID primitive.ObjectID) ([]entity.InvitationDetails, error) {
	dropSecrets := bson.A{bson.M{"$project": bson.M{"password": 0, "verifyToken": 0}}}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"inviteeId": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "inviterId",
			"foreignField": "_id",
			"as":           "inviter",
			"pipeline":     dropSecrets,
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "inviteeId",
			"foreignField": "_id",
			"as":           "invitee",
			"pipeline":     dropSecrets,
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         boardsCollection,
			"localField":   "boardInvitation.boardId",
			"foreignField": "_id",
			"as":           "board",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$inviter", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$unwind", Value: bson.M{"path": "$invitee", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$unwind", Value: bson.M{"path": "$board", "preserveNullAndEmptyArrays": true}}},
	}

	cur, err := r.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var results []entity.InvitationDetails
	if err := cur.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *InvitationRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*entity.Invitation, error) {
	set := stripFields(fields, "_id", "createdAt")
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	var inv entity.Invitation
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, returnAfter()).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

var _ repository.InvitationRepository = (*InvitationRepository)(nil)
