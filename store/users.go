package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"readlog/models"
)

// Users is the user/profile store over MongoDB.
type Users struct {
	DB *DB
}

func (s *Users) Get(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.DB.UsersColl().FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Users) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.DB.UsersColl().FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Users) Create(ctx context.Context, u *models.User) (*models.User, error) {
	id, err := s.DB.NextID(ctx, "users")
	if err != nil {
		return nil, err
	}
	u.ID = id
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if _, err := s.DB.UsersColl().InsertOne(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Update applies a partial update and returns the resulting user.
func (s *Users) Update(ctx context.Context, id int64, fields map[string]any) (*models.User, error) {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	res := s.DB.UsersColl().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var u models.User
	if err := res.Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
