package usecase

import (
	"sort"
	"time"

	"tasknest/model"
)

// Smart view ids. Anything else passed as a view id is treated as a literal
// list reference.
const (
	ViewInbox    = "inbox"
	ViewToday    = "today"
	ViewUpcoming = "upcoming"
	ViewPastDue  = "past-due"
	ViewTagged   = "tagged"
)

// upcomingWindowDays is the Upcoming horizon: strictly after today, up to
// and including 7 calendar days out.
const upcomingWindowDays = 7

var smartViewTitles = map[string]string{
	ViewInbox:    "Inbox",
	ViewToday:    "Today",
	ViewUpcoming: "Upcoming",
	ViewPastDue:  "Past Due",
	ViewTagged:   "Tagged",
}

// SmartViewIDs returns the reserved view ids in display order.
func SmartViewIDs() []string {
	return []string{ViewInbox, ViewToday, ViewUpcoming, ViewPastDue, ViewTagged}
}

func IsSmartView(viewID string) bool {
	_, ok := smartViewTitles[viewID]
	return ok
}

// FilterByView returns the tasks belonging to viewID. Membership is a pure
// function of each task plus now's local calendar day; an empty viewID
// returns the input unchanged, and a non-reserved id filters by exact list
// reference.
func FilterByView(tasks []model.Task, viewID string, now time.Time) []model.Task {
	if viewID == "" {
		return tasks
	}

	var out []model.Task
	for _, t := range tasks {
		if matchesView(t, viewID, now) {
			out = append(out, t)
		}
	}
	return out
}

// CountByView breaks the view-filtered subset down by status.
func CountByView(tasks []model.Task, viewID string, now time.Time) model.ViewCounts {
	var counts model.ViewCounts
	for _, t := range FilterByView(tasks, viewID, now) {
		counts.All++
		switch t.Status {
		case model.StatusCompleted:
			counts.Completed++
		case model.StatusArchived:
			counts.Archived++
		default:
			counts.Active++
		}
	}
	return counts
}

// ListCount is the badge count for an area or project: tasks filed under
// listRef that are not completed. Every caller that displays a list count
// goes through here so the rule cannot drift between code paths.
func ListCount(tasks []model.Task, listRef string) int {
	count := 0
	for _, t := range tasks {
		if t.ListID == listRef && t.Status != model.StatusCompleted {
			count++
		}
	}
	return count
}

// BuildViewIndex assembles the sidebar payload from raw records, recomputing
// every count from the live task set.
func BuildViewIndex(lists []model.List, tasks []model.Task, now time.Time) *model.ViewIndex {
	index := &model.ViewIndex{
		SmartViews: make([]model.ViewSummary, 0, len(smartViewTitles)),
		Areas:      []model.List{},
		Projects:   []model.List{},
	}

	for _, id := range SmartViewIDs() {
		index.SmartViews = append(index.SmartViews, model.ViewSummary{
			ID:     id,
			Title:  smartViewTitles[id],
			Counts: CountByView(tasks, id, now),
		})
	}

	for _, l := range lists {
		annotated := l.Clone()
		annotated.Count = ListCount(tasks, l.ID)
		sortJournal(annotated.Journal)
		if l.Kind == model.ListKindProject {
			index.Projects = append(index.Projects, annotated)
		} else {
			index.Areas = append(index.Areas, annotated)
		}
	}

	return index
}

func matchesView(t model.Task, viewID string, now time.Time) bool {
	switch viewID {
	case ViewInbox:
		return t.DueDate == "" && t.ListID == "" && t.Status != model.StatusCompleted
	case ViewToday:
		due, ok := dueDay(t, now)
		return ok && t.Status != model.StatusCompleted && due.Equal(localDay(now))
	case ViewUpcoming:
		due, ok := dueDay(t, now)
		if !ok || t.Status == model.StatusCompleted {
			return false
		}
		today := localDay(now)
		return due.After(today) && !due.After(today.AddDate(0, 0, upcomingWindowDays))
	case ViewPastDue:
		due, ok := dueDay(t, now)
		return ok && t.Status != model.StatusCompleted && due.Before(localDay(now))
	case ViewTagged:
		// Unlike the date views, tagged includes every status.
		return t.Tagged()
	default:
		return t.ListID == viewID
	}
}

// dueDay parses the task's due date in now's location. Malformed due dates
// never match a date view and never raise an error.
func dueDay(t model.Task, now time.Time) (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	due, err := time.ParseInLocation(model.DueDateLayout, t.DueDate, now.Location())
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}

// localDay zeroes the time-of-day so dates compare by local calendar day,
// not by instant subtraction.
func localDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SortTasks orders by sort-order ascending; tasks with no order sort after
// all ordered tasks and keep their relative positions.
func SortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].Order, tasks[j].Order
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}

// FilterStatus keeps tasks with exactly the given status; an empty status
// keeps everything.
func FilterStatus(tasks []model.Task, status model.Status) []model.Task {
	if status == "" {
		return tasks
	}
	var out []model.Task
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// Paginate slices tasks into the requested 1-based page. A non-positive
// page size disables paging.
func Paginate(tasks []model.Task, page, pageSize int) []model.Task {
	if pageSize <= 0 {
		return tasks
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(tasks) {
		return []model.Task{}
	}
	end := start + pageSize
	if end > len(tasks) {
		end = len(tasks)
	}
	return tasks[start:end]
}

func sortJournal(entries []model.JournalEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}
