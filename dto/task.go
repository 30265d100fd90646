package dto

import (
	"tasknest/model"
)

type CreateTaskRequest struct {
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	Priority    model.Priority `json:"priority"`
	Status      model.Status   `json:"status"`
	DueDate     string         `json:"dueDate"`
	ListID      string         `json:"listId"`
	Tags        []string       `json:"tags"`
	Order       *int           `json:"order"`
}

// TaskPatch is a merge-patch: only fields present in the request change the
// stored task, omitted fields stay untouched. Tags follow slice semantics:
// nil means untouched, an empty non-nil slice clears them.
type TaskPatch struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Priority    *model.Priority `json:"priority"`
	Status      *model.Status   `json:"status"`
	DueDate     *string         `json:"dueDate"`
	ListID      *string         `json:"listId"`
	Tags        []string        `json:"tags"`
	Order       *int            `json:"order"`
}

// Apply copies the present fields onto task. It does not validate; callers
// validate before applying.
func (p TaskPatch) Apply(task *model.Task) {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Priority != nil {
		task.Priority = *p.Priority
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	if p.DueDate != nil {
		task.DueDate = *p.DueDate
	}
	if p.ListID != nil {
		task.ListID = *p.ListID
	}
	if p.Tags != nil {
		tags := make([]string, len(p.Tags))
		copy(tags, p.Tags)
		task.Tags = tags
	}
	if p.Order != nil {
		order := *p.Order
		task.Order = &order
	}
}

type ReorderRequest struct {
	IDs []string `json:"ids" binding:"required"`
}
