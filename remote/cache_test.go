package remote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasknest/model"
)

func TestMemorySnapshotStore(t *testing.T) {
	store := NewMemorySnapshotStore()
	ctx := context.Background()

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap, "empty store yields no snapshot")

	saved := &Snapshot{
		Tasks:     []model.Task{{ID: "t1", Title: "cached"}},
		FetchedAt: time.Now(),
	}
	require.NoError(t, store.Save(ctx, saved))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "cached", got.Tasks[0].Title)
}

func TestSnapshotCloneIsolation(t *testing.T) {
	orig := &Snapshot{
		Tasks: []model.Task{{ID: "t1", Title: "a", Tags: []string{"x"}}},
		Lists: []model.List{{ID: "l1", Title: "L"}},
	}

	clone := orig.Clone()
	clone.Tasks[0].Title = "mutated"
	clone.Tasks[0].Tags[0] = "y"
	clone.Lists[0].Title = "M"

	assert.Equal(t, "a", orig.Tasks[0].Title)
	assert.Equal(t, "x", orig.Tasks[0].Tags[0])
	assert.Equal(t, "L", orig.Lists[0].Title)
}

func TestNilSnapshotClone(t *testing.T) {
	var s *Snapshot
	clone := s.Clone()
	require.NotNil(t, clone)
	assert.Empty(t, clone.Tasks)
}
