package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"readlog/models"
)

// Entries is the entry store over MongoDB.
type Entries struct {
	DB *DB
}

func (s *Entries) Add(ctx context.Context, e *models.Entry) (*models.Entry, error) {
	id, err := s.DB.NextID(ctx, "entries")
	if err != nil {
		return nil, err
	}
	e.ID = id
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if _, err := s.DB.EntriesColl().InsertOne(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Update applies a partial update and returns the resulting entry.
func (s *Entries) Update(ctx context.Context, id int64, fields map[string]any) (*models.Entry, error) {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	res := s.DB.EntriesColl().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var e models.Entry
	if err := res.Decode(&e); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (s *Entries) Delete(ctx context.Context, id int64) error {
	res, err := s.DB.EntriesColl().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Entries) Get(ctx context.Context, id int64) (*models.Entry, error) {
	var e models.Entry
	err := s.DB.EntriesColl().FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetUserEntry fetches an entry scoped by owner. A non-matching owner looks
// identical to a missing entry; existence is never revealed to non-owners.
func (s *Entries) GetUserEntry(ctx context.Context, id, userID int64) (*models.Entry, error) {
	var e models.Entry
	err := s.DB.EntriesColl().FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindByIdentifier returns up to limit public entries citing the ISBN, newest
// first. A before cursor of 0 means "from the top". The stream is a public
// listing, so unlisted and private entries never appear in it.
func (s *Entries) FindByIdentifier(ctx context.Context, isbn string, before, limit int64) ([]models.Entry, error) {
	filter := bson.M{"isbn": isbn, "visibility": models.VisibilityPublic}
	if before > 0 {
		filter["_id"] = bson.M{"$lt": before}
	}
	opts := options.Find().SetSort(bson.M{"_id": -1}).SetLimit(limit)
	cur, err := s.DB.EntriesColl().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var entries []models.Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetOlderByIdentifier returns the id of the public entry immediately older
// than lastID among those citing the ISBN, or nil when the page shown was the
// oldest.
func (s *Entries) GetOlderByIdentifier(ctx context.Context, isbn string, lastID int64) (*int64, error) {
	var e models.Entry
	err := s.DB.EntriesColl().FindOne(ctx,
		bson.M{"isbn": isbn, "visibility": models.VisibilityPublic, "_id": bson.M{"$lt": lastID}},
		options.FindOne().SetSort(bson.M{"_id": -1}),
	).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e.ID, nil
}

// GetNewerByIdentifier resolves the before-cursor that shows the page of up to
// limit public entries immediately newer than firstID, or nil when nothing
// newer exists. The cursor is exclusive, hence the +1 past the newest id of
// that page.
func (s *Entries) GetNewerByIdentifier(ctx context.Context, isbn string, firstID, limit int64) (*int64, error) {
	opts := options.Find().SetSort(bson.M{"_id": 1}).SetLimit(limit)
	cur, err := s.DB.EntriesColl().Find(ctx,
		bson.M{"isbn": isbn, "visibility": models.VisibilityPublic, "_id": bson.M{"$gt": firstID}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var newer []models.Entry
	if err := cur.All(ctx, &newer); err != nil {
		return nil, err
	}
	if len(newer) == 0 {
		return nil, nil
	}
	cursor := newer[len(newer)-1].ID + 1
	return &cursor, nil
}
