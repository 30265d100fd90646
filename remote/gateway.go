package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"tasknest/dto"
	"tasknest/model"
	"tasknest/usecase"
	"tasknest/utils"
)

// Gateway is the network-backed Backend implementation. Reads degrade
// silently to the cache snapshot when the backend is unreachable; writes go
// through the retry loop and surface their error after exhaustion, so a lost
// write is always visible to the caller.
type Gateway struct {
	baseURL string
	client  *http.Client
	cache   SnapshotStore
	monitor *Monitor
	retry   RetryOptions
}

var _ usecase.Backend = (*Gateway)(nil)

type GatewayConfig struct {
	BaseURL string
	Client  *http.Client // nil = 10s-timeout default
	Cache   SnapshotStore
	Retry   RetryOptions
}

func NewGateway(cfg GatewayConfig) *Gateway {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	cache := cfg.Cache
	if cache == nil {
		cache = NewMemorySnapshotStore()
	}
	return &Gateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		cache:   cache,
		monitor: NewMonitor(),
		retry:   cfg.Retry,
	}
}

// Monitor exposes the gateway's connectivity tracker.
func (g *Gateway) Monitor() *Monitor {
	return g.monitor
}

// reads

func (g *Gateway) ListTasks(ctx context.Context, q usecase.TaskQuery) ([]model.Task, error) {
	tasks, err := g.fetchTasks(ctx)
	if err != nil {
		log.Printf("remote: task fetch failed, serving cached state: %v", err)
		utils.TrackCacheFallback("tasks")
		snap, cerr := g.cache.Load(ctx)
		if cerr != nil || snap == nil {
			return nil, err
		}
		tasks = model.CloneTasks(snap.Tasks)
	}

	tasks = usecase.FilterByView(tasks, q.ViewID, time.Now())
	tasks = usecase.FilterStatus(tasks, q.Status)
	usecase.SortTasks(tasks)
	return usecase.Paginate(tasks, q.Page, q.PageSize), nil
}

func (g *Gateway) ListViews(ctx context.Context) (*model.ViewIndex, error) {
	lists, lerr := g.fetchLists(ctx)
	tasks, terr := g.fetchTasks(ctx)
	if lerr != nil || terr != nil {
		err := lerr
		if err == nil {
			err = terr
		}
		log.Printf("remote: view fetch failed, serving cached state: %v", err)
		utils.TrackCacheFallback("views")
		snap, cerr := g.cache.Load(ctx)
		if cerr != nil || snap == nil {
			return nil, err
		}
		lists = model.CloneLists(snap.Lists)
		tasks = model.CloneTasks(snap.Tasks)
	}
	return usecase.BuildViewIndex(lists, tasks, time.Now()), nil
}

func (g *Gateway) GetList(ctx context.Context, id string) (*model.List, error) {
	var list model.List
	err := g.doJSON(ctx, http.MethodGet, "/api/lists/"+id, nil, &list)
	if err == nil {
		err = validateLists([]model.List{list})
	}
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return nil, model.E("remote.GetList", model.ErrNotFound, err)
		}
		log.Printf("remote: list fetch failed, serving cached state: %v", err)
		utils.TrackCacheFallback("list")
		snap, cerr := g.cache.Load(ctx)
		if cerr != nil || snap == nil {
			return nil, err
		}
		found := false
		for _, l := range snap.Lists {
			if l.ID == id {
				list = l.Clone()
				found = true
				break
			}
		}
		if !found {
			return nil, model.E("remote.GetList", model.ErrNotFound, err)
		}
	} else {
		g.storeSnapshot(ctx, func(s *Snapshot) {
			replaceList(s, list)
		})
		// The count is never trusted from the wire; recompute it from the
		// live task set whenever the backend is reachable.
		if tasks, terr := g.fetchTasks(ctx); terr == nil {
			list.Count = usecase.ListCount(tasks, id)
			return &list, nil
		}
	}

	// Degraded path: the most recent known task set stands in for live state.
	if snap, cerr := g.cache.Load(ctx); cerr == nil && snap != nil {
		list.Count = usecase.ListCount(snap.Tasks, id)
	}
	return &list, nil
}

func (g *Gateway) fetchTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := g.doJSON(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	if err := validateTasks(tasks); err != nil {
		utils.TrackError("bad_data")
		return nil, err
	}
	g.storeSnapshot(ctx, func(s *Snapshot) {
		s.Tasks = model.CloneTasks(tasks)
		s.FetchedAt = time.Now()
	})
	return tasks, nil
}

func (g *Gateway) fetchLists(ctx context.Context) ([]model.List, error) {
	var lists []model.List
	if err := g.doJSON(ctx, http.MethodGet, "/api/lists", nil, &lists); err != nil {
		return nil, err
	}
	if err := validateLists(lists); err != nil {
		utils.TrackError("bad_data")
		return nil, err
	}
	g.storeSnapshot(ctx, func(s *Snapshot) {
		s.Lists = model.CloneLists(lists)
		s.FetchedAt = time.Now()
	})
	return lists, nil
}

// writes

func (g *Gateway) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*model.Task, error) {
	task, err := g.writeTask(ctx, "createTask", http.MethodPost, "/api/tasks", req)
	if err != nil {
		return nil, err
	}
	g.storeSnapshot(ctx, func(s *Snapshot) {
		s.Tasks = append(s.Tasks, task.Clone())
	})
	utils.TrackTaskOperation("create")
	return task, nil
}

func (g *Gateway) UpdateTask(ctx context.Context, id string, patch dto.TaskPatch) (*model.Task, error) {
	task, err := g.writeTask(ctx, "updateTask", http.MethodPatch, "/api/tasks/"+id, patch)
	if err != nil {
		return nil, err
	}
	g.storeSnapshot(ctx, func(s *Snapshot) {
		for i := range s.Tasks {
			if s.Tasks[i].ID == id {
				s.Tasks[i] = task.Clone()
				return
			}
		}
	})
	utils.TrackTaskOperation("update")
	return task, nil
}

func (g *Gateway) DeleteTask(ctx context.Context, id string) error {
	if err := g.write(ctx, "deleteTask", http.MethodDelete, "/api/tasks/"+id, nil); err != nil {
		return err
	}
	g.storeSnapshot(ctx, func(s *Snapshot) {
		for i := range s.Tasks {
			if s.Tasks[i].ID == id {
				s.Tasks = append(s.Tasks[:i], s.Tasks[i+1:]...)
				return
			}
		}
	})
	utils.TrackTaskOperation("delete")
	return nil
}

func (g *Gateway) ReorderTasks(ctx context.Context, ids []string) error {
	if err := g.write(ctx, "reorderTasks", http.MethodPut, "/api/tasks/reorder", dto.ReorderRequest{IDs: ids}); err != nil {
		return err
	}
	g.storeSnapshot(ctx, func(s *Snapshot) {
		byID := make(map[string]*model.Task, len(s.Tasks))
		for i := range s.Tasks {
			byID[s.Tasks[i].ID] = &s.Tasks[i]
		}
		for pos, id := range ids {
			if t, ok := byID[id]; ok {
				order := pos
				t.Order = &order
			}
		}
	})
	utils.TrackTaskOperation("reorder")
	return nil
}

func (g *Gateway) AddArea(ctx context.Context, req dto.CreateListRequest) (*model.List, error) {
	return g.addList(ctx, "addArea", "/api/areas", req)
}

func (g *Gateway) AddProject(ctx context.Context, req dto.CreateListRequest) (*model.List, error) {
	return g.addList(ctx, "addProject", "/api/projects", req)
}

func (g *Gateway) addList(ctx context.Context, op, path string, req dto.CreateListRequest) (*model.List, error) {
	list, err := Retry(ctx, g.retryFor(op), func(ctx context.Context) (model.List, error) {
		var out model.List
		err := g.doJSON(ctx, http.MethodPost, path, req, &out)
		return out, err
	})
	if err != nil {
		return nil, wrapWriteError("remote."+op, err)
	}
	if err := validateLists([]model.List{list}); err != nil {
		return nil, err
	}
	g.storeSnapshot(ctx, func(s *Snapshot) {
		s.Lists = append(s.Lists, list.Clone())
	})
	return &list, nil
}

func (g *Gateway) AddSection(ctx context.Context, listID string, req dto.SectionRequest) (*model.Section, error) {
	section, err := Retry(ctx, g.retryFor("addSection"), func(ctx context.Context) (model.Section, error) {
		var out model.Section
		err := g.doJSON(ctx, http.MethodPost, "/api/lists/"+listID+"/sections", req, &out)
		return out, err
	})
	if err != nil {
		return nil, wrapWriteError("remote.AddSection", err)
	}
	g.storeSnapshot(ctx, func(s *Snapshot) {
		mutateList(s, listID, func(l *model.List) {
			l.Sections = append(l.Sections, section)
		})
	})
	return &section, nil
}

func (g *Gateway) UpdateSection(ctx context.Context, listID, sectionID string, patch dto.SectionPatch) (*model.Section, error) {
	section, err := Retry(ctx, g.retryFor("updateSection"), func(ctx context.Context) (model.Section, error) {
		var out model.Section
		err := g.doJSON(ctx, http.MethodPatch, "/api/lists/"+listID+"/sections/"+sectionID, patch, &out)
		return out, err
	})
	if err != nil {
		return nil, wrapWriteError("remote.UpdateSection", err)
	}
	g.storeSnapshot(ctx, func(s *Snapshot) {
		mutateList(s, listID, func(l *model.List) {
			for i := range l.Sections {
				if l.Sections[i].ID == sectionID {
					l.Sections[i] = section
					return
				}
			}
		})
	})
	return &section, nil
}

func (g *Gateway) DeleteSection(ctx context.Context, listID, sectionID string) error {
	if err := g.write(ctx, "deleteSection", http.MethodDelete, "/api/lists/"+listID+"/sections/"+sectionID, nil); err != nil {
		return err
	}
	g.storeSnapshot(ctx, func(s *Snapshot) {
		mutateList(s, listID, func(l *model.List) {
			for i := range l.Sections {
				if l.Sections[i].ID == sectionID {
					l.Sections = append(l.Sections[:i], l.Sections[i+1:]...)
					return
				}
			}
		})
	})
	return nil
}

func (g *Gateway) AddJournalEntry(ctx context.Context, listID string, req dto.JournalEntryRequest) (*model.JournalEntry, error) {
	entry, err := Retry(ctx, g.retryFor("addJournalEntry"), func(ctx context.Context) (model.JournalEntry, error) {
		var out model.JournalEntry
		err := g.doJSON(ctx, http.MethodPost, "/api/lists/"+listID+"/journal", req, &out)
		return out, err
	})
	if err != nil {
		return nil, wrapWriteError("remote.AddJournalEntry", err)
	}
	g.storeSnapshot(ctx, func(s *Snapshot) {
		mutateList(s, listID, func(l *model.List) {
			l.Journal = append(l.Journal, entry)
		})
	})
	return &entry, nil
}

func (g *Gateway) DeleteJournalEntry(ctx context.Context, listID, entryID string) error {
	if err := g.write(ctx, "deleteJournalEntry", http.MethodDelete, "/api/lists/"+listID+"/journal/"+entryID, nil); err != nil {
		return err
	}
	g.storeSnapshot(ctx, func(s *Snapshot) {
		mutateList(s, listID, func(l *model.List) {
			for i := range l.Journal {
				if l.Journal[i].ID == entryID {
					l.Journal = append(l.Journal[:i], l.Journal[i+1:]...)
					return
				}
			}
		})
	})
	return nil
}

// plumbing

func (g *Gateway) writeTask(ctx context.Context, op, method, path string, body interface{}) (*model.Task, error) {
	task, err := Retry(ctx, g.retryFor(op), func(ctx context.Context) (model.Task, error) {
		var out model.Task
		err := g.doJSON(ctx, method, path, body, &out)
		return out, err
	})
	if err != nil {
		return nil, wrapWriteError("remote."+op, err)
	}
	if err := validateTasks([]model.Task{task}); err != nil {
		return nil, err
	}
	return &task, nil
}

func (g *Gateway) write(ctx context.Context, op, method, path string, body interface{}) error {
	_, err := Retry(ctx, g.retryFor(op), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, g.doJSON(ctx, method, path, body, nil)
	})
	if err != nil {
		return wrapWriteError("remote."+op, err)
	}
	return nil
}

func (g *Gateway) retryFor(op string) RetryOptions {
	opts := g.retry
	observer := opts.OnRetry
	opts.OnRetry = func(err error, attempt int, delay time.Duration) {
		utils.TrackRetry(op)
		log.Printf("remote: %s attempt %d failed, retrying in %s: %v", op, attempt, delay, err)
		if observer != nil {
			observer(err, attempt, delay)
		}
	}
	return opts
}

// doJSON performs a single request. Responses use the standard envelope; the
// record payload sits under "data". Transport failures flip the connectivity
// flag; any successful round-trip flips it back.
func (g *Gateway) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	u := g.baseURL + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return model.E("remote.doJSON", model.ErrBadData, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.monitor.SetOnline(false)
		utils.TrackError("network")
		return model.E("remote.doJSON", model.ErrNetwork, err)
	}
	defer resp.Body.Close()
	g.monitor.SetOnline(true)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, URL: u}
	}
	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return model.E("remote.doJSON", model.ErrBadData, err)
	}
	if len(envelope.Data) == 0 {
		return model.E("remote.doJSON", model.ErrBadData, fmt.Errorf("%s %s: empty data payload", method, u))
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return model.E("remote.doJSON", model.ErrBadData, err)
	}
	return nil
}

// storeSnapshot clones the current snapshot, applies mutate, and swaps the
// copy in wholesale. Snapshot maintenance never fails a caller's operation.
func (g *Gateway) storeSnapshot(ctx context.Context, mutate func(*Snapshot)) {
	snap, err := g.cache.Load(ctx)
	if err != nil {
		log.Printf("remote: snapshot load failed: %v", err)
		return
	}
	next := snap.Clone()
	mutate(next)
	if err := g.cache.Save(ctx, next); err != nil {
		log.Printf("remote: snapshot save failed: %v", err)
	}
}

func replaceList(s *Snapshot, list model.List) {
	for i := range s.Lists {
		if s.Lists[i].ID == list.ID {
			s.Lists[i] = list
			return
		}
	}
	s.Lists = append(s.Lists, list)
}

func mutateList(s *Snapshot, listID string, mutate func(*model.List)) {
	for i := range s.Lists {
		if s.Lists[i].ID == listID {
			mutate(&s.Lists[i])
			return
		}
	}
}

func statusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// wrapWriteError classifies a write failure after the retry loop gave up.
func wrapWriteError(op string, err error) error {
	switch statusOf(err) {
	case 0:
		if errors.Is(err, model.ErrNetwork) || errors.Is(err, model.ErrBadData) || errors.Is(err, model.ErrOffline) {
			return err
		}
		return model.E(op, model.ErrNetwork, err)
	case http.StatusBadRequest:
		return model.E(op, model.ErrValidation, err)
	case http.StatusNotFound:
		return model.E(op, model.ErrNotFound, err)
	default:
		utils.TrackError("network")
		return model.E(op, model.ErrNetwork, err)
	}
}
