package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"tasknest/model"
	"tasknest/utils"
)

// Blob keys. The whole state lives in two independently-keyed snapshots:
// the flat task collection and the list configuration tree (including
// nested sections and journal entries). Each mutation rewrites its blob
// wholesale.
const (
	BlobTasks  = "tasks"
	BlobConfig = "config"
)

type Store struct {
	DB *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{DB: db}
}

// LoadTasks reads the task blob. A missing blob is an empty store, not an
// error.
func (s *Store) LoadTasks(ctx context.Context) ([]model.Task, error) {
	timer := utils.TrackStorageOperation("load", BlobTasks)
	defer timer.ObserveDuration()

	var tasks []model.Task
	if err := s.loadBlob(ctx, BlobTasks, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// SaveTasks rewrites the task blob with the full current collection.
func (s *Store) SaveTasks(ctx context.Context, tasks []model.Task) error {
	timer := utils.TrackStorageOperation("save", BlobTasks)
	defer timer.ObserveDuration()

	return s.saveBlob(ctx, BlobTasks, tasks)
}

// LoadLists reads the list configuration blob.
func (s *Store) LoadLists(ctx context.Context) ([]model.List, error) {
	timer := utils.TrackStorageOperation("load", BlobConfig)
	defer timer.ObserveDuration()

	var lists []model.List
	if err := s.loadBlob(ctx, BlobConfig, &lists); err != nil {
		return nil, err
	}
	if lists == nil {
		lists = []model.List{}
	}
	return lists, nil
}

// SaveLists rewrites the list configuration blob.
func (s *Store) SaveLists(ctx context.Context, lists []model.List) error {
	timer := utils.TrackStorageOperation("save", BlobConfig)
	defer timer.ObserveDuration()

	return s.saveBlob(ctx, BlobConfig, lists)
}

func (s *Store) loadBlob(ctx context.Context, key string, out interface{}) error {
	var data string
	err := s.DB.GetContext(ctx, &data, "SELECT data FROM blobs WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		utils.TrackError("storage")
		return model.E("repository.loadBlob", model.ErrStorage, err)
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		utils.TrackError("storage")
		return model.E("repository.loadBlob", model.ErrStorage, err)
	}
	return nil
}

func (s *Store) saveBlob(ctx context.Context, key string, state interface{}) error {
	data, err := json.Marshal(state)
	if err != nil {
		utils.TrackError("storage")
		return model.E("repository.saveBlob", model.ErrStorage, err)
	}

	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO blobs (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC())
	if err != nil {
		utils.TrackError("storage")
		return model.E("repository.saveBlob", model.ErrStorage, err)
	}
	return nil
}
