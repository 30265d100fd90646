package model

import "time"

type Priority string
type Status string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"

	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// DueDateLayout is the calendar-date format tasks and projects carry.
// Due dates have no time component and are compared by local calendar day.
const DueDateLayout = "2006-01-02"

type Task struct {
	ID          string    `json:"id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description,omitempty"`
	Priority    Priority  `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Status      Status    `json:"status" validate:"required,oneof=active completed archived"`
	DueDate     string    `json:"dueDate,omitempty"`
	ListID      string    `json:"listId,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Order       *int      `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone returns a copy that shares no mutable state with the receiver.
func (t Task) Clone() Task {
	out := t
	if t.Tags != nil {
		out.Tags = make([]string, len(t.Tags))
		copy(out.Tags, t.Tags)
	}
	if t.Order != nil {
		order := *t.Order
		out.Order = &order
	}
	return out
}

// Tagged reports whether the task carries at least one non-empty tag.
func (t Task) Tagged() bool {
	for _, tag := range t.Tags {
		if tag != "" {
			return true
		}
	}
	return false
}

func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
