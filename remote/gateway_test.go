package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasknest/dto"
	"tasknest/model"
	"tasknest/usecase"
)

// testBackend is a remote stand-in whose behavior can be swapped mid-test.
type testBackend struct {
	server  *httptest.Server
	handler atomic.Value // http.HandlerFunc
	calls   atomic.Int64
}

func newTestBackend(t *testing.T, fn http.HandlerFunc) *testBackend {
	t.Helper()
	b := &testBackend{}
	b.handler.Store(fn)
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.calls.Add(1)
		b.handler.Load().(http.HandlerFunc)(w, r)
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *testBackend) swap(fn http.HandlerFunc) {
	b.handler.Store(fn)
}

func writeData(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"data": v})
}

func fastRetry() RetryOptions {
	return RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func newTestGateway(b *testBackend) *Gateway {
	return NewGateway(GatewayConfig{BaseURL: b.server.URL, Retry: fastRetry()})
}

func serveCollections(tasks []model.Task, lists []model.List) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tasks":
			writeData(w, http.StatusOK, tasks)
		case "/api/lists":
			writeData(w, http.StatusOK, lists)
		default:
			http.NotFound(w, r)
		}
	}
}

func failEverything(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "boom", http.StatusInternalServerError)
}

func TestGatewayFreshRead(t *testing.T) {
	tasks := []model.Task{
		{ID: "t1", Title: "alpha", Status: model.StatusActive},
		{ID: "t2", Title: "beta", Status: model.StatusCompleted},
	}
	backend := newTestBackend(t, serveCollections(tasks, nil))
	gw := newTestGateway(backend)

	got, err := gw.ListTasks(context.Background(), usecase.TaskQuery{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.True(t, gw.Monitor().Online())

	active, err := gw.ListTasks(context.Background(), usecase.TaskQuery{Status: model.StatusActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "t1", active[0].ID)
}

func TestGatewayCacheFallbackOnFailure(t *testing.T) {
	tasks := []model.Task{{ID: "t1", Title: "alpha", Status: model.StatusActive}}
	backend := newTestBackend(t, serveCollections(tasks, nil))
	gw := newTestGateway(backend)

	// Warm the snapshot with a successful fetch, then take the backend down.
	_, err := gw.ListTasks(context.Background(), usecase.TaskQuery{})
	require.NoError(t, err)
	backend.swap(failEverything)

	got, err := gw.ListTasks(context.Background(), usecase.TaskQuery{})
	require.NoError(t, err, "reads degrade silently to the snapshot")
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID)
}

func TestGatewayReadFailureWithColdCache(t *testing.T) {
	backend := newTestBackend(t, failEverything)
	gw := newTestGateway(backend)

	_, err := gw.ListTasks(context.Background(), usecase.TaskQuery{})
	require.Error(t, err, "nothing cached means nothing to fall back on")
	assert.Equal(t, int64(1), backend.calls.Load(), "reads never retry")
}

func TestGatewayMalformedRecordPoisonsResponse(t *testing.T) {
	good := []model.Task{{ID: "t1", Title: "alpha", Status: model.StatusActive}}
	backend := newTestBackend(t, serveCollections(good, nil))
	gw := newTestGateway(backend)

	_, err := gw.ListTasks(context.Background(), usecase.TaskQuery{})
	require.NoError(t, err)

	// One record missing its required title invalidates the whole fetch;
	// the previous snapshot keeps serving.
	bad := []model.Task{
		{ID: "t1", Title: "alpha", Status: model.StatusActive},
		{ID: "t2", Status: model.StatusActive},
	}
	backend.swap(serveCollections(bad, nil))

	got, err := gw.ListTasks(context.Background(), usecase.TaskQuery{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alpha", got[0].Title)
}

func TestGatewayWriteRetriesThenSurfacesError(t *testing.T) {
	backend := newTestBackend(t, failEverything)
	gw := newTestGateway(backend)

	_, err := gw.CreateTask(context.Background(), dto.CreateTaskRequest{Title: "doomed"})
	require.Error(t, err)
	assert.True(t, model.IsNetwork(err))
	assert.Equal(t, int64(3), backend.calls.Load(), "writes spend the whole retry budget")
}

func TestGatewayWriteRecoversMidRetry(t *testing.T) {
	created := model.Task{ID: "t9", Title: "persistent", Status: model.StatusActive}
	var attempts atomic.Int64
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			http.Error(w, "flaky", http.StatusServiceUnavailable)
			return
		}
		writeData(w, http.StatusCreated, created)
	})
	gw := newTestGateway(backend)

	task, err := gw.CreateTask(context.Background(), dto.CreateTaskRequest{Title: "persistent"})
	require.NoError(t, err)
	assert.Equal(t, "t9", task.ID)
	assert.Equal(t, int64(3), attempts.Load())
}

func TestGatewayValidationErrorNotRetried(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})
	gw := newTestGateway(backend)

	_, err := gw.CreateTask(context.Background(), dto.CreateTaskRequest{Title: ""})
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
	assert.Equal(t, int64(1), backend.calls.Load())
}

func TestGatewaySuccessfulWriteVisibleOffline(t *testing.T) {
	existing := []model.Task{{ID: "t1", Title: "old", Status: model.StatusActive}}
	created := model.Task{ID: "t2", Title: "new", Status: model.StatusActive}
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/api/tasks" {
			writeData(w, http.StatusCreated, created)
			return
		}
		serveCollections(existing, nil)(w, r)
	})
	gw := newTestGateway(backend)

	_, err := gw.ListTasks(context.Background(), usecase.TaskQuery{})
	require.NoError(t, err)
	_, err = gw.CreateTask(context.Background(), dto.CreateTaskRequest{Title: "new"})
	require.NoError(t, err)

	backend.swap(failEverything)

	got, err := gw.ListTasks(context.Background(), usecase.TaskQuery{})
	require.NoError(t, err)
	require.Len(t, got, 2, "the acknowledged write landed in the snapshot")
}

func TestGatewayGetListNotFound(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	gw := newTestGateway(backend)

	_, err := gw.GetList(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))
}

func TestGatewayGetListRecomputesCount(t *testing.T) {
	list := model.List{ID: "work_1", Kind: model.ListKindArea, Title: "Work", Count: 42}
	tasks := []model.Task{
		{ID: "t1", Title: "open", Status: model.StatusActive, ListID: "work_1"},
		{ID: "t2", Title: "done", Status: model.StatusCompleted, ListID: "work_1"},
	}
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tasks":
			writeData(w, http.StatusOK, tasks)
		case "/api/lists/work_1":
			writeData(w, http.StatusOK, list)
		default:
			http.NotFound(w, r)
		}
	})
	gw := newTestGateway(backend)

	// Seed the snapshot with the task set so the count has a basis.
	_, err := gw.ListTasks(context.Background(), usecase.TaskQuery{})
	require.NoError(t, err)

	got, err := gw.GetList(context.Background(), "work_1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count, "the advertised count is never trusted")
}

func TestGatewayGetListColdCacheCountsLiveTasks(t *testing.T) {
	list := model.List{ID: "work_1", Kind: model.ListKindArea, Title: "Work"}
	tasks := []model.Task{
		{ID: "t1", Title: "open", Status: model.StatusActive, ListID: "work_1"},
		{ID: "t2", Title: "done", Status: model.StatusCompleted, ListID: "work_1"},
	}
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tasks":
			writeData(w, http.StatusOK, tasks)
		case "/api/lists/work_1":
			writeData(w, http.StatusOK, list)
		default:
			http.NotFound(w, r)
		}
	})
	gw := newTestGateway(backend)

	// First read of the process: nothing cached yet, so the count must come
	// from the live task set, not an empty snapshot.
	got, err := gw.GetList(context.Background(), "work_1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count)
}

func TestGatewaySnapshotIsolatedFromReturnedTask(t *testing.T) {
	created := model.Task{ID: "t1", Title: "tagged", Status: model.StatusActive, Tags: []string{"home"}}
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/api/tasks" {
			writeData(w, http.StatusCreated, created)
			return
		}
		failEverything(w, r)
	})
	gw := newTestGateway(backend)

	task, err := gw.CreateTask(context.Background(), dto.CreateTaskRequest{Title: "tagged"})
	require.NoError(t, err)
	task.Tags[0] = "mutated"

	// The offline read serves the snapshot, which must not share slices with
	// the record handed back to the caller.
	cached, err := gw.ListTasks(context.Background(), usecase.TaskQuery{})
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, []string{"home"}, cached[0].Tags)
}

func TestGatewayConnectivityFlips(t *testing.T) {
	backend := newTestBackend(t, serveCollections(nil, nil))
	gw := newTestGateway(backend)

	_, err := gw.ListTasks(context.Background(), usecase.TaskQuery{})
	require.NoError(t, err)
	assert.True(t, gw.Monitor().Online())

	backend.server.Close()
	_, _ = gw.ListTasks(context.Background(), usecase.TaskQuery{})
	assert.False(t, gw.Monitor().Online(), "a transport failure marks the host offline")
}
