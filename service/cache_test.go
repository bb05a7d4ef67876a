package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"readlog/models"
)

type fakeEntryGetter struct {
	entries map[int64]*models.Entry
	err     error
}

func (f *fakeEntryGetter) Get(_ context.Context, id int64) (*models.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries[id], nil
}

type fakeUserGetter struct {
	users map[int64]*models.User
}

func (f *fakeUserGetter) Get(_ context.Context, id int64) (*models.User, error) {
	return f.users[id], nil
}

func newTestCache(t *testing.T) (*RenderCache, string) {
	t.Helper()
	dir := t.TempDir()
	entries := &fakeEntryGetter{entries: map[int64]*models.Entry{
		42: {ID: 42, UserID: 1, Title: "Dune", ReadStatus: models.StatusFinished, ISBN: "9780441013593", Visibility: models.VisibilityPublic},
		43: {ID: 43, UserID: 1, Title: "Secret Read", ReadStatus: models.StatusReading, Visibility: models.VisibilityPrivate},
	}}
	users := &fakeUserGetter{users: map[int64]*models.User{
		1: {ID: 1, Slug: "alice"},
	}}
	return NewRenderCache(entries, users, &DirStore{Dir: dir}, zap.NewNop()), dir
}

func TestFragmentName(t *testing.T) {
	assert.Equal(t, "alice-42.html", FragmentName("alice", 42))
	// Identical across cache and uncache by construction; distinct per pair.
	assert.NotEqual(t, FragmentName("alice", 421), FragmentName("alice1", 42))
}

func TestCacheWritesFragment(t *testing.T) {
	cache, dir := newTestCache(t)
	require.True(t, cache.Cache(context.Background(), 42))

	html, err := os.ReadFile(filepath.Join(dir, "alice-42.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "Finished reading: Dune, ISBN: 9780441013593")
	assert.Contains(t, string(html), "/isbn/9780441013593")
}

func TestUncacheRemovesFragment(t *testing.T) {
	cache, dir := newTestCache(t)
	require.True(t, cache.Cache(context.Background(), 42))
	require.True(t, cache.Uncache(context.Background(), 42))

	_, err := os.Stat(filepath.Join(dir, "alice-42.html"))
	assert.True(t, os.IsNotExist(err))

	// Already absent is a no-op, not an error.
	assert.True(t, cache.Uncache(context.Background(), 42))
}

func TestCachePrivateEntryNotMaterialized(t *testing.T) {
	cache, dir := newTestCache(t)

	require.True(t, cache.Cache(context.Background(), 43))
	_, err := os.Stat(filepath.Join(dir, "alice-43.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestCachePrivateEntryRemovesStaleFragment(t *testing.T) {
	cache, dir := newTestCache(t)
	stale := filepath.Join(dir, "alice-43.html")
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o644))

	require.True(t, cache.Cache(context.Background(), 43))
	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

func TestCacheMissingEntryFailsSoftly(t *testing.T) {
	cache, _ := newTestCache(t)
	assert.False(t, cache.Cache(context.Background(), 999))
	assert.False(t, cache.Uncache(context.Background(), 999))
}

func TestCacheStoreErrorFailsSoftly(t *testing.T) {
	entries := &fakeEntryGetter{err: errors.New("db down")}
	cache := NewRenderCache(entries, &fakeUserGetter{}, &DirStore{Dir: t.TempDir()}, zap.NewNop())
	assert.False(t, cache.Cache(context.Background(), 42))
}
