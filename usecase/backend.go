package usecase

import (
	"context"

	"tasknest/dto"
	"tasknest/model"
)

// TaskQuery selects tasks for a smart view or a literal list id, optionally
// narrowed to one status and sliced into a page.
type TaskQuery struct {
	ViewID   string
	Status   model.Status
	Page     int
	PageSize int
}

// Backend is the single contract the UI layer programs against. Two
// implementations exist: the local store-backed TaskService and the
// network-backed remote gateway. Callers never hold a concrete type; the
// composition root picks one at startup.
type Backend interface {
	ListViews(ctx context.Context) (*model.ViewIndex, error)
	ListTasks(ctx context.Context, q TaskQuery) ([]model.Task, error)

	CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*model.Task, error)
	UpdateTask(ctx context.Context, id string, patch dto.TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ReorderTasks(ctx context.Context, ids []string) error

	AddArea(ctx context.Context, req dto.CreateListRequest) (*model.List, error)
	AddProject(ctx context.Context, req dto.CreateListRequest) (*model.List, error)
	GetList(ctx context.Context, id string) (*model.List, error)

	AddSection(ctx context.Context, listID string, req dto.SectionRequest) (*model.Section, error)
	UpdateSection(ctx context.Context, listID, sectionID string, patch dto.SectionPatch) (*model.Section, error)
	DeleteSection(ctx context.Context, listID, sectionID string) error

	AddJournalEntry(ctx context.Context, listID string, req dto.JournalEntryRequest) (*model.JournalEntry, error)
	DeleteJournalEntry(ctx context.Context, listID, entryID string) error
}
