package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names used by the repositories.
const (
	usersCollection       = "users"
	boardsCollection      = "boards"
	columnsCollection     = "columns"
	cardsCollection       = "cards"
	invitationsCollection = "invitations"
)

// Connect dials MongoDB and verifies the connection with a ping. The
// returned client is owned by the process entry point, which is
// responsible for Disconnect on shutdown.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the indexes the queries rely on: the unique email
// index on users and back-reference indexes for the column/card lookups.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	if _, err := db.Collection(columnsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "boardId", Value: 1}},
	}); err != nil {
		return err
	}
	for _, key := range []string{"boardId", "columnId"} {
		if _, err := db.Collection(cardsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: key, Value: 1}},
		}); err != nil {
			return err
		}
	}
	_, err = db.Collection(invitationsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "inviteeId", Value: 1}},
	})
	return err
}

// stripFields drops banned keys from a partial update. Illegal fields are
// ignored, not rejected, so callers can forward client patches verbatim.
func stripFields(fields bson.M, banned ...string) bson.M {
	out := bson.M{}
	for k, v := range fields {
		out[k] = v
	}
	for _, k := range banned {
		delete(out, k)
	}
	return out
}

// returnAfter configures FindOneAndUpdate to return the updated document.
func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
