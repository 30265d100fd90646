package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tasknest/dto"
	"tasknest/model"
	"tasknest/repository"
)

// TaskService is the local, store-backed Backend implementation. It owns the
// authoritative in-memory state; every mutation builds the next state, commits
// it durably through the repository, and only then swaps it in. A failed
// commit leaves memory untouched, so memory and disk never diverge.
type TaskService struct {
	repo *repository.Store

	mu    sync.Mutex
	tasks []model.Task
	lists []model.List
}

// NewTaskService loads the persisted state so a restart observes exactly the
// post-mutation state of the previous run.
func NewTaskService(ctx context.Context, repo *repository.Store) (*TaskService, error) {
	tasks, err := repo.LoadTasks(ctx)
	if err != nil {
		return nil, err
	}
	lists, err := repo.LoadLists(ctx)
	if err != nil {
		return nil, err
	}
	return &TaskService{repo: repo, tasks: tasks, lists: lists}, nil
}

func (svc *TaskService) ListViews(ctx context.Context) (*model.ViewIndex, error) {
	svc.mu.Lock()
	tasks := model.CloneTasks(svc.tasks)
	lists := model.CloneLists(svc.lists)
	svc.mu.Unlock()

	return BuildViewIndex(lists, tasks, time.Now()), nil
}

func (svc *TaskService) ListTasks(ctx context.Context, q TaskQuery) ([]model.Task, error) {
	svc.mu.Lock()
	tasks := model.CloneTasks(svc.tasks)
	svc.mu.Unlock()

	tasks = FilterByView(tasks, q.ViewID, time.Now())
	tasks = FilterStatus(tasks, q.Status)
	SortTasks(tasks)
	return Paginate(tasks, q.Page, q.PageSize), nil
}

func (svc *TaskService) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*model.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, model.E("usecase.CreateTask", model.ErrValidation, errors.New("title is required"))
	}
	if err := validatePriority(req.Priority); err != nil {
		return nil, model.E("usecase.CreateTask", model.ErrValidation, err)
	}
	status := req.Status
	if status == "" {
		status = model.StatusActive
	}
	if err := validateStatus(status); err != nil {
		return nil, model.E("usecase.CreateTask", model.ErrValidation, err)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	now := time.Now()
	task := model.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      status,
		DueDate:     req.DueDate,
		ListID:      req.ListID,
		Tags:        req.Tags,
		Order:       req.Order,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Order == nil {
		// New tasks sort last across the whole store, not just their list.
		order := svc.maxOrderLocked() + 1
		task.Order = &order
	}

	next := append(model.CloneTasks(svc.tasks), task)
	if err := svc.repo.SaveTasks(ctx, next); err != nil {
		return nil, err
	}
	svc.tasks = next

	created := task.Clone()
	return &created, nil
}

func (svc *TaskService) UpdateTask(ctx context.Context, id string, patch dto.TaskPatch) (*model.Task, error) {
	if err := validatePatch(patch); err != nil {
		return nil, model.E("usecase.UpdateTask", model.ErrValidation, err)
	}
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		patch.Title = &trimmed
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	idx := svc.taskIndexLocked(id)
	if idx < 0 {
		return nil, model.E("usecase.UpdateTask", model.ErrNotFound, fmt.Errorf("task %s", id))
	}

	next := model.CloneTasks(svc.tasks)
	patch.Apply(&next[idx])
	next[idx].UpdatedAt = time.Now()

	if err := svc.repo.SaveTasks(ctx, next); err != nil {
		return nil, err
	}
	svc.tasks = next

	updated := next[idx].Clone()
	return &updated, nil
}

func (svc *TaskService) DeleteTask(ctx context.Context, id string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	idx := svc.taskIndexLocked(id)
	if idx < 0 {
		return model.E("usecase.DeleteTask", model.ErrNotFound, fmt.Errorf("task %s", id))
	}

	next := model.CloneTasks(svc.tasks)
	next = append(next[:idx], next[idx+1:]...)

	if err := svc.repo.SaveTasks(ctx, next); err != nil {
		return err
	}
	svc.tasks = next
	return nil
}

// ReorderTasks reassigns sort-order to match array position. ids must be a
// permutation of the whole store: a partial array would leave unlisted tasks
// holding orders the listed ones were just assigned. Atomic: either every
// position updates or none do.
func (svc *TaskService) ReorderTasks(ctx context.Context, ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return model.E("usecase.ReorderTasks", model.ErrValidation, fmt.Errorf("duplicate id %s", id))
		}
		seen[id] = true
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	for _, id := range ids {
		if svc.taskIndexLocked(id) < 0 {
			return model.E("usecase.ReorderTasks", model.ErrNotFound, fmt.Errorf("task %s", id))
		}
	}
	if len(ids) != len(svc.tasks) {
		return model.E("usecase.ReorderTasks", model.ErrValidation,
			fmt.Errorf("reorder covers %d of %d tasks", len(ids), len(svc.tasks)))
	}

	next := model.CloneTasks(svc.tasks)
	now := time.Now()
	byID := make(map[string]*model.Task, len(next))
	for i := range next {
		byID[next[i].ID] = &next[i]
	}
	for pos, id := range ids {
		order := pos
		byID[id].Order = &order
		byID[id].UpdatedAt = now
	}

	if err := svc.repo.SaveTasks(ctx, next); err != nil {
		return err
	}
	svc.tasks = next
	return nil
}

func (svc *TaskService) taskIndexLocked(id string) int {
	for i := range svc.tasks {
		if svc.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (svc *TaskService) maxOrderLocked() int {
	max := -1
	for _, t := range svc.tasks {
		if t.Order != nil && *t.Order > max {
			max = *t.Order
		}
	}
	return max
}

// helpers

func validatePriority(p model.Priority) error {
	switch p {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
		return nil
	case "": // empty priority is valid
		return nil
	default:
		return errors.New("invalid priority level")
	}
}

func validateStatus(s model.Status) error {
	switch s {
	case model.StatusActive, model.StatusCompleted, model.StatusArchived:
		return nil
	default:
		return errors.New("invalid status")
	}
}

func validatePatch(patch dto.TaskPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return errors.New("title cannot be empty")
	}
	if patch.Priority != nil {
		if err := validatePriority(*patch.Priority); err != nil {
			return err
		}
	}
	if patch.Status != nil {
		if err := validateStatus(*patch.Status); err != nil {
			return err
		}
	}
	return nil
}
