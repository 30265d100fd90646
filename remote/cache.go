package remote

import (
	"context"
	"sync/atomic"
	"time"

	"tasknest/model"
)

// Snapshot is the last known-good copy of server state, used only as a read
// fallback. It is overwritten wholesale on every successful fetch and is
// never the source of truth.
type Snapshot struct {
	Tasks     []model.Task `json:"tasks"`
	Lists     []model.List `json:"lists"`
	FetchedAt time.Time    `json:"fetchedAt"`
}

func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return &Snapshot{}
	}
	return &Snapshot{
		Tasks:     model.CloneTasks(s.Tasks),
		Lists:     model.CloneLists(s.Lists),
		FetchedAt: s.FetchedAt,
	}
}

// SnapshotStore persists the gateway's fallback snapshot. Load returns
// (nil, nil) when no snapshot has been stored yet.
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

// MemorySnapshotStore keeps the snapshot in process memory. Writers replace
// the pointer wholesale, so in-flight readers never observe a torn snapshot.
type MemorySnapshotStore struct {
	current atomic.Pointer[Snapshot]
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

func (s *MemorySnapshotStore) Load(ctx context.Context) (*Snapshot, error) {
	return s.current.Load(), nil
}

func (s *MemorySnapshotStore) Save(ctx context.Context, snap *Snapshot) error {
	s.current.Store(snap)
	return nil
}
