package handler

import (
	"github.com/gin-gonic/gin"

	"tasknest/usecase"
	"tasknest/utils"
)

type ViewHandler struct {
	backend usecase.Backend
}

func NewViewHandler(backend usecase.Backend) *ViewHandler {
	return &ViewHandler{backend: backend}
}

// ListViews serves the sidebar index: smart views plus areas and projects,
// every count recomputed from the live task set.
func (h *ViewHandler) ListViews(c *gin.Context) {
	index, err := h.backend.ListViews(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, index)
}
