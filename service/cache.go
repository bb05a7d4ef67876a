package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"readlog/models"
)

// FragmentStore is where rendered entry fragments live.
type FragmentStore interface {
	Put(ctx context.Context, name string, html []byte) error
	Delete(ctx context.Context, name string) error
}

// EntryGetter and UserGetter are the narrow store views the cache needs.
type EntryGetter interface {
	Get(ctx context.Context, id int64) (*models.Entry, error)
}

type UserGetter interface {
	Get(ctx context.Context, id int64) (*models.User, error)
}

// FragmentName returns the cache artifact name for an entry. Injective per
// (slug, id): the slug is URL-safe by construction and the id is an integer,
// so the name cannot traverse out of the fragment directory.
func FragmentName(slug string, id int64) string {
	return fmt.Sprintf("%s-%d.html", slug, id)
}

// RenderCache writes and removes pre-rendered entry fragments. Both
// operations are best-effort: failures are logged with the entry id and
// reported as false, and must never abort the surrounding request.
type RenderCache struct {
	entries EntryGetter
	users   UserGetter
	store   FragmentStore
	log     *zap.Logger
}

func NewRenderCache(entries EntryGetter, users UserGetter, store FragmentStore, log *zap.Logger) *RenderCache {
	return &RenderCache{entries: entries, users: users, store: store, log: log}
}

// Cache renders the entry's public fragment and writes it to the store.
// Private entries are never materialized; the fragment store is served
// without auth, so a private entry removes its fragment instead.
func (c *RenderCache) Cache(ctx context.Context, id int64) bool {
	e, u, ok := c.load(ctx, id)
	if !ok {
		return false
	}
	if !e.Viewable() {
		if err := c.store.Delete(ctx, FragmentName(u.Slug, e.ID)); err != nil {
			c.log.Warn("cache: delete failed", zap.Int64("entry_id", id), zap.Error(err))
			return false
		}
		return true
	}
	html, err := RenderFragment(e, u, true)
	if err != nil {
		c.log.Warn("cache: render failed", zap.Int64("entry_id", id), zap.Error(err))
		return false
	}
	if err := c.store.Put(ctx, FragmentName(u.Slug, e.ID), html); err != nil {
		c.log.Warn("cache: write failed", zap.Int64("entry_id", id), zap.Error(err))
		return false
	}
	return true
}

// Uncache removes the entry's fragment. A fragment that is already absent is
// a success, not an error.
func (c *RenderCache) Uncache(ctx context.Context, id int64) bool {
	e, u, ok := c.load(ctx, id)
	if !ok {
		return false
	}
	if err := c.store.Delete(ctx, FragmentName(u.Slug, e.ID)); err != nil {
		c.log.Warn("cache: delete failed", zap.Int64("entry_id", id), zap.Error(err))
		return false
	}
	return true
}

func (c *RenderCache) load(ctx context.Context, id int64) (*models.Entry, *models.User, bool) {
	e, err := c.entries.Get(ctx, id)
	if err != nil || e == nil {
		c.log.Warn("cache: entry not found", zap.Int64("entry_id", id), zap.Error(err))
		return nil, nil, false
	}
	u, err := c.users.Get(ctx, e.UserID)
	if err != nil || u == nil {
		c.log.Warn("cache: owner not found", zap.Int64("entry_id", id), zap.Error(err))
		return nil, nil, false
	}
	return e, u, true
}

// DirStore keeps fragments as files in a local directory. Writes go through a
// uuid-suffixed temp file and a rename so a concurrent read never sees a
// partial fragment.
type DirStore struct {
	Dir string
}

func (d *DirStore) Put(_ context.Context, name string, html []byte) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(d.Dir, name+"."+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, html, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(d.Dir, name))
}

func (d *DirStore) Delete(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(d.Dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
