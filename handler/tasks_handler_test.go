package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasknest/model"
	"tasknest/repository"
	"tasknest/usecase"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc, err := usecase.NewTaskService(context.Background(), repository.NewStore(db))
	require.NoError(t, err)

	tasks := NewTaskHandler(svc)
	views := NewViewHandler(svc)
	lists := NewListHandler(svc)

	router := gin.New()
	api := router.Group("/api")
	api.GET("/views", views.ListViews)
	api.GET("/tasks", tasks.ListTasks)
	api.POST("/tasks", tasks.CreateTask)
	api.PUT("/tasks/reorder", tasks.ReorderTasks)
	api.PATCH("/tasks/:id", tasks.UpdateTask)
	api.DELETE("/tasks/:id", tasks.DeleteTask)
	api.POST("/areas", lists.AddArea)
	api.GET("/lists/:id", lists.GetList)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestCreateAndListTasksRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/tasks", gin.H{"title": "Pay rent"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Task
	decodeData(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.StatusActive, created.Status)

	rec = doRequest(t, router, http.MethodGet, "/api/tasks?listId=inbox", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var tasks []model.Task
	decodeData(t, rec, &tasks)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Pay rent", tasks[0].Title)
}

func TestCreateTaskRejectsMissingTitle(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/tasks", gin.H{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/tasks", gin.H{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTaskMergePatch(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/tasks", gin.H{
		"title":       "Draft report",
		"description": "quarterly numbers",
		"tags":        []string{"work"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Task
	decodeData(t, rec, &created)

	rec = doRequest(t, router, http.MethodPatch, "/api/tasks/"+created.ID, gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated model.Task
	decodeData(t, rec, &updated)
	assert.Equal(t, model.StatusCompleted, updated.Status)
	assert.Equal(t, "quarterly numbers", updated.Description, "untouched fields survive the patch")
	assert.Equal(t, []string{"work"}, updated.Tags)
}

func TestUpdateMissingTaskIs404(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPatch, "/api/tasks/nope", gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTask(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/tasks", gin.H{"title": "ephemeral"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Task
	decodeData(t, rec, &created)

	rec = doRequest(t, router, http.MethodDelete, "/api/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/api/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReorderTasksValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/tasks", gin.H{"title": "a"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var task model.Task
	decodeData(t, rec, &task)

	rec = doRequest(t, router, http.MethodPut, "/api/tasks/reorder", gin.H{"ids": []string{task.ID, task.ID}})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "duplicate ids are rejected")

	rec = doRequest(t, router, http.MethodPut, "/api/tasks/reorder", gin.H{"ids": []string{task.ID}})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestViewsEndpointCountsTasks(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/areas", gin.H{"title": "Home"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var area model.List
	decodeData(t, rec, &area)

	rec = doRequest(t, router, http.MethodPost, "/api/tasks", gin.H{"title": "vacuum", "listId": area.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/views", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var index model.ViewIndex
	decodeData(t, rec, &index)
	require.Len(t, index.Areas, 1)
	assert.Equal(t, 1, index.Areas[0].Count)
	assert.NotEmpty(t, index.SmartViews)

	rec = doRequest(t, router, http.MethodGet, "/api/lists/"+area.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.List
	decodeData(t, rec, &got)
	assert.Equal(t, 1, got.Count)
}
