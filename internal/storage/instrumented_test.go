package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"masterblog/internal/models"
	"masterblog/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ err error }

func (s failingStore) Load(context.Context) ([]models.Post, error) { return nil, s.err }
func (s failingStore) Save(context.Context, []models.Post) error  { return s.err }

func TestInstrument_PassesThrough(t *testing.T) {
	store := Instrument(NewMemoryStore(models.ExamplePosts()), "instrumented-ok")

	posts, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	require.NoError(t, store.Save(context.Background(), posts[:1]))

	assert.Equal(t, float64(1), testutil.ToFloat64(
		observability.StoreOperations.WithLabelValues("instrumented-ok", "load", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		observability.StoreCollectionSize.WithLabelValues("instrumented-ok")))
}

func TestInstrument_KeepsErrorIdentity(t *testing.T) {
	store := Instrument(failingStore{err: fmt.Errorf("disk: %w", ErrWrite)}, "instrumented-err")

	err := store.Save(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrWrite))
	_, err = store.Load(context.Background())
	assert.True(t, errors.Is(err, ErrWrite))

	assert.Equal(t, float64(1), testutil.ToFloat64(
		observability.StoreOperations.WithLabelValues("instrumented-err", "save", "error")))
}
