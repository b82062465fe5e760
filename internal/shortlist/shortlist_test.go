package shortlist

import (
	"context"
	"errors"
	"testing"

	"github.com/fjod/storefront/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*store.Repository
}

func (failingStore) SaveIDs(context.Context, string, []string) error {
	return errors.New("quota exceeded")
}

func newRepo() *store.Repository {
	return store.NewRepository(store.NewMemoryStore(), "test", nil)
}

func TestWishlist_Toggle(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	w := NewWishlist(ctx, repo, nil)

	added, err := w.Toggle(ctx, "1")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = w.Toggle(ctx, "2")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []string{"1", "2"}, w.IDs())

	added, err = w.Toggle(ctx, "1")
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, w.Contains("1"))
	assert.True(t, w.Contains("2"))

	reloaded := NewWishlist(ctx, repo, nil)
	assert.Equal(t, []string{"2"}, reloaded.IDs())
	assert.Equal(t, []string{"2"}, repo.LoadIDs(ctx, store.WishlistKey))
}

func TestWishlist_NoLimit(t *testing.T) {
	ctx := context.Background()
	w := NewWishlist(ctx, newRepo(), nil)
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		_, err := w.Toggle(ctx, id)
		require.NoError(t, err)
	}
	assert.Equal(t, 6, w.Len())
}

func TestComparison_MaxFour(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	c := NewComparison(ctx, repo, nil)

	for _, id := range []string{"a", "b", "c", "d"} {
		added, err := c.Toggle(ctx, id)
		require.NoError(t, err)
		require.True(t, added)
	}

	_, err := c.Toggle(ctx, "e")
	require.ErrorIs(t, err, ErrComparisonFull)
	assert.Equal(t, []string{"a", "b", "c", "d"}, c.IDs())

	added, err := c.Toggle(ctx, "b")
	require.NoError(t, err)
	assert.False(t, added)

	added, err = c.Toggle(ctx, "e")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []string{"a", "c", "d", "e"}, repo.LoadIDs(ctx, store.ComparisonKey))
}

func TestToggle_EmptyID(t *testing.T) {
	ctx := context.Background()
	_, err := NewWishlist(ctx, newRepo(), nil).Toggle(ctx, "")
	assert.Error(t, err)
}

func TestToggle_SaveFailureKeepsList(t *testing.T) {
	ctx := context.Background()
	w := NewWishlist(ctx, failingStore{newRepo()}, nil)

	_, err := w.Toggle(ctx, "1")
	require.ErrorContains(t, err, "quota exceeded")
	assert.Equal(t, 0, w.Len())
}
