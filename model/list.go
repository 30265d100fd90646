package model

import "time"

type ListKind string

const (
	ListKindArea    ListKind = "area"
	ListKindProject ListKind = "project"
)

// List is a user-defined bucket (Area or Project) that tasks reference by id.
// Count is derived from the live task set at read time and is never trusted
// as stored state.
type List struct {
	ID          string         `json:"id" validate:"required"`
	Kind        ListKind       `json:"kind" validate:"required,oneof=area project"`
	Title       string         `json:"title" validate:"required"`
	Icon        string         `json:"icon,omitempty"`
	Priority    Priority       `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Description string         `json:"description,omitempty"`
	DueDate     string         `json:"dueDate,omitempty"`
	Count       int            `json:"count"`
	Sections    []Section      `json:"sections,omitempty"`
	Journal     []JournalEntry `json:"journal,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Section is a titled markdown-like block nested under a list, ordered by
// its integer Order.
type Section struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// JournalEntry has no title and no manual order; entries display
// most-recent-first by creation time.
type JournalEntry struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (l List) Clone() List {
	out := l
	if l.Sections != nil {
		out.Sections = make([]Section, len(l.Sections))
		copy(out.Sections, l.Sections)
	}
	if l.Journal != nil {
		out.Journal = make([]JournalEntry, len(l.Journal))
		copy(out.Journal, l.Journal)
	}
	return out
}

func CloneLists(lists []List) []List {
	out := make([]List, len(lists))
	for i, l := range lists {
		out[i] = l.Clone()
	}
	return out
}
