package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Books is the book store over MongoDB, keyed by normalized ISBN-13.
type Books struct {
	DB *DB
}

// AddOrIncrement links an entry to the book identified by its ISBN-13,
// creating the book record on first reference.
func (s *Books) AddOrIncrement(ctx context.Context, isbn13 string, entryID int64) error {
	if isbn13 == "" {
		return nil
	}
	_, err := s.DB.BooksColl().UpdateOne(ctx,
		bson.M{"_id": isbn13},
		bson.M{
			"$inc":      bson.M{"entryCount": int64(1)},
			"$addToSet": bson.M{"entryIds": entryID},
			"$set":      bson.M{"updatedAt": time.Now()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
