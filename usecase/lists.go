package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tasknest/dto"
	"tasknest/model"
)

func (svc *TaskService) AddArea(ctx context.Context, req dto.CreateListRequest) (*model.List, error) {
	return svc.addList(ctx, model.ListKindArea, req)
}

func (svc *TaskService) AddProject(ctx context.Context, req dto.CreateListRequest) (*model.List, error) {
	return svc.addList(ctx, model.ListKindProject, req)
}

func (svc *TaskService) addList(ctx context.Context, kind model.ListKind, req dto.CreateListRequest) (*model.List, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, model.E("usecase.addList", model.ErrValidation, errors.New("title is required"))
	}
	if err := validatePriority(model.Priority(req.Priority)); err != nil {
		return nil, model.E("usecase.addList", model.ErrValidation, err)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	now := time.Now()
	list := model.List{
		ID:          ListID(title, now),
		Kind:        kind,
		Title:       title,
		Icon:        req.Icon,
		Priority:    model.Priority(req.Priority),
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if kind == model.ListKindProject {
		list.DueDate = req.DueDate
	}

	next := append(model.CloneLists(svc.lists), list)
	if err := svc.repo.SaveLists(ctx, next); err != nil {
		return nil, err
	}
	svc.lists = next

	created := list.Clone()
	return &created, nil
}

func (svc *TaskService) GetList(ctx context.Context, id string) (*model.List, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	idx := svc.listIndexLocked(id)
	if idx < 0 {
		return nil, model.E("usecase.GetList", model.ErrNotFound, fmt.Errorf("list %s", id))
	}

	list := svc.lists[idx].Clone()
	list.Count = ListCount(svc.tasks, id)
	sortJournal(list.Journal)
	return &list, nil
}

func (svc *TaskService) AddSection(ctx context.Context, listID string, req dto.SectionRequest) (*model.Section, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, model.E("usecase.AddSection", model.ErrValidation, errors.New("title is required"))
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	idx := svc.listIndexLocked(listID)
	if idx < 0 {
		return nil, model.E("usecase.AddSection", model.ErrNotFound, fmt.Errorf("list %s", listID))
	}

	now := time.Now()
	section := model.Section{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Order != nil {
		section.Order = *req.Order
	} else {
		section.Order = len(svc.lists[idx].Sections)
	}

	next := model.CloneLists(svc.lists)
	next[idx].Sections = append(next[idx].Sections, section)
	next[idx].UpdatedAt = now

	if err := svc.repo.SaveLists(ctx, next); err != nil {
		return nil, err
	}
	svc.lists = next
	return &section, nil
}

func (svc *TaskService) UpdateSection(ctx context.Context, listID, sectionID string, patch dto.SectionPatch) (*model.Section, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, model.E("usecase.UpdateSection", model.ErrValidation, errors.New("title cannot be empty"))
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	listIdx := svc.listIndexLocked(listID)
	if listIdx < 0 {
		return nil, model.E("usecase.UpdateSection", model.ErrNotFound, fmt.Errorf("list %s", listID))
	}
	secIdx := sectionIndex(svc.lists[listIdx].Sections, sectionID)
	if secIdx < 0 {
		return nil, model.E("usecase.UpdateSection", model.ErrNotFound, fmt.Errorf("section %s", sectionID))
	}

	next := model.CloneLists(svc.lists)
	section := &next[listIdx].Sections[secIdx]
	if patch.Title != nil {
		section.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Content != nil {
		section.Content = *patch.Content
	}
	if patch.Order != nil {
		section.Order = *patch.Order
	}
	now := time.Now()
	section.UpdatedAt = now
	next[listIdx].UpdatedAt = now

	if err := svc.repo.SaveLists(ctx, next); err != nil {
		return nil, err
	}
	svc.lists = next

	updated := *section
	return &updated, nil
}

func (svc *TaskService) DeleteSection(ctx context.Context, listID, sectionID string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	listIdx := svc.listIndexLocked(listID)
	if listIdx < 0 {
		return model.E("usecase.DeleteSection", model.ErrNotFound, fmt.Errorf("list %s", listID))
	}
	secIdx := sectionIndex(svc.lists[listIdx].Sections, sectionID)
	if secIdx < 0 {
		return model.E("usecase.DeleteSection", model.ErrNotFound, fmt.Errorf("section %s", sectionID))
	}

	next := model.CloneLists(svc.lists)
	next[listIdx].Sections = append(next[listIdx].Sections[:secIdx], next[listIdx].Sections[secIdx+1:]...)
	next[listIdx].UpdatedAt = time.Now()

	if err := svc.repo.SaveLists(ctx, next); err != nil {
		return err
	}
	svc.lists = next
	return nil
}

func (svc *TaskService) AddJournalEntry(ctx context.Context, listID string, req dto.JournalEntryRequest) (*model.JournalEntry, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, model.E("usecase.AddJournalEntry", model.ErrValidation, errors.New("content is required"))
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	idx := svc.listIndexLocked(listID)
	if idx < 0 {
		return nil, model.E("usecase.AddJournalEntry", model.ErrNotFound, fmt.Errorf("list %s", listID))
	}

	now := time.Now()
	entry := model.JournalEntry{
		ID:        uuid.New().String(),
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	next := model.CloneLists(svc.lists)
	next[idx].Journal = append(next[idx].Journal, entry)
	next[idx].UpdatedAt = now

	if err := svc.repo.SaveLists(ctx, next); err != nil {
		return nil, err
	}
	svc.lists = next
	return &entry, nil
}

func (svc *TaskService) DeleteJournalEntry(ctx context.Context, listID, entryID string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	listIdx := svc.listIndexLocked(listID)
	if listIdx < 0 {
		return model.E("usecase.DeleteJournalEntry", model.ErrNotFound, fmt.Errorf("list %s", listID))
	}
	entryIdx := -1
	for i, e := range svc.lists[listIdx].Journal {
		if e.ID == entryID {
			entryIdx = i
			break
		}
	}
	if entryIdx < 0 {
		return model.E("usecase.DeleteJournalEntry", model.ErrNotFound, fmt.Errorf("journal entry %s", entryID))
	}

	next := model.CloneLists(svc.lists)
	next[listIdx].Journal = append(next[listIdx].Journal[:entryIdx], next[listIdx].Journal[entryIdx+1:]...)
	next[listIdx].UpdatedAt = time.Now()

	if err := svc.repo.SaveLists(ctx, next); err != nil {
		return err
	}
	svc.lists = next
	return nil
}

func (svc *TaskService) listIndexLocked(id string) int {
	for i := range svc.lists {
		if svc.lists[i].ID == id {
			return i
		}
	}
	return -1
}

func sectionIndex(sections []model.Section, id string) int {
	for i := range sections {
		if sections[i].ID == id {
			return i
		}
	}
	return -1
}

// ListID derives a unique id from the title: lower-cased, spaces to
// underscores, suffixed with the creation timestamp in nanoseconds so
// duplicate titles submitted in quick succession never collide.
func ListID(title string, now time.Time) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.ReplaceAll(slug, " ", "_")
	return fmt.Sprintf("%s_%d", slug, now.UnixNano())
}
