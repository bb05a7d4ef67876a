package handlers

import (
	"context"

	"readlog/models"
	"readlog/service"
)

// Store interfaces consumed by the handlers. Each handler receives explicit
// references to its collaborators rather than reaching into shared state; the
// concrete implementations live in store/ and service/.

type EntryStore interface {
	Add(ctx context.Context, e *models.Entry) (*models.Entry, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*models.Entry, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.Entry, error)
	GetUserEntry(ctx context.Context, id, userID int64) (*models.Entry, error)
	FindByIdentifier(ctx context.Context, isbn string, before, limit int64) ([]models.Entry, error)
	GetOlderByIdentifier(ctx context.Context, isbn string, lastID int64) (*int64, error)
	GetNewerByIdentifier(ctx context.Context, isbn string, firstID, limit int64) (*int64, error)
}

type UserStore interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*models.User, error)
}

type BookStore interface {
	AddOrIncrement(ctx context.Context, isbn13 string, entryID int64) error
}

type Publisher interface {
	Post(ctx context.Context, endpoint string, payload any, token string) (*service.Response, error)
}

type FragmentCache interface {
	Cache(ctx context.Context, id int64) bool
	Uncache(ctx context.Context, id int64) bool
}
