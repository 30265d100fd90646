package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"tasknest/dto"
	"tasknest/model"
	"tasknest/usecase"
	"tasknest/utils"
)

type TaskHandler struct {
	backend usecase.Backend
}

func NewTaskHandler(backend usecase.Backend) *TaskHandler {
	return &TaskHandler{backend: backend}
}

// ListTasks serves tasks for a smart view or a literal list id, optionally
// filtered by status and paged.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	q := usecase.TaskQuery{
		ViewID: c.Query("listId"),
		Status: model.Status(c.Query("status")),
		Page:   atoiOrZero(c.Query("page")),
	}
	q.PageSize = atoiOrZero(c.Query("limit"))

	tasks, err := h.backend.ListTasks(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	utils.Success(c, tasks)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	task, err := h.backend.CreateTask(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		utils.BadRequest(c, "Missing task ID")
		return
	}

	var patch dto.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	task, err := h.backend.UpdateTask(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		utils.BadRequest(c, "Missing task ID")
		return
	}

	if err := h.backend.DeleteTask(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"message": "Task deleted successfully"})
}

func (h *TaskHandler) ReorderTasks(c *gin.Context) {
	var req dto.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.backend.ReorderTasks(c.Request.Context(), req.IDs); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"message": "Tasks reordered successfully"})
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
