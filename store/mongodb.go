package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned by update/fetch helpers that require the document
// to exist.
var ErrNotFound = errors.New("not found")

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoDB(ctx context.Context, uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return &DB{
		Client:   client,
		Database: client.Database(dbName),
	}, nil
}

func (db *DB) EntriesColl() *mongo.Collection {
	return db.Database.Collection("entries")
}

func (db *DB) UsersColl() *mongo.Collection {
	return db.Database.Collection("users")
}

func (db *DB) BooksColl() *mongo.Collection {
	return db.Database.Collection("books")
}

func (db *DB) Counters() *mongo.Collection {
	return db.Database.Collection("counters")
}

// NextID returns the next value of the named integer sequence, creating the
// counter on first use. Entry and user ids come from here so they stay
// monotonic, which the ISBN stream's cursor pagination depends on.
func (db *DB) NextID(ctx context.Context, name string) (int64, error) {
	res := db.Counters().FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	if err := res.Decode(&doc); err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

func (db *DB) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return db.Client.Disconnect(ctx)
}
