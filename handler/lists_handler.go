package handler

import (
	"github.com/gin-gonic/gin"

	"tasknest/dto"
	"tasknest/model"
	"tasknest/usecase"
	"tasknest/utils"
)

type ListHandler struct {
	backend usecase.Backend
}

func NewListHandler(backend usecase.Backend) *ListHandler {
	return &ListHandler{backend: backend}
}

// ListLists serves the raw list collection (areas and projects together).
func (h *ListHandler) ListLists(c *gin.Context) {
	index, err := h.backend.ListViews(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	lists := make([]model.List, 0, len(index.Areas)+len(index.Projects))
	lists = append(lists, index.Areas...)
	lists = append(lists, index.Projects...)
	utils.Success(c, lists)
}

func (h *ListHandler) GetList(c *gin.Context) {
	list, err := h.backend.GetList(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, list)
}

func (h *ListHandler) AddArea(c *gin.Context) {
	var req dto.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	list, err := h.backend.AddArea(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, list)
}

func (h *ListHandler) AddProject(c *gin.Context) {
	var req dto.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	list, err := h.backend.AddProject(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, list)
}

func (h *ListHandler) AddSection(c *gin.Context) {
	var req dto.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	section, err := h.backend.AddSection(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, section)
}

func (h *ListHandler) UpdateSection(c *gin.Context) {
	var patch dto.SectionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	section, err := h.backend.UpdateSection(c.Request.Context(), c.Param("id"), c.Param("sectionId"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, section)
}

func (h *ListHandler) DeleteSection(c *gin.Context) {
	if err := h.backend.DeleteSection(c.Request.Context(), c.Param("id"), c.Param("sectionId")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"message": "Section deleted successfully"})
}

func (h *ListHandler) AddJournalEntry(c *gin.Context) {
	var req dto.JournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.backend.AddJournalEntry(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, entry)
}

func (h *ListHandler) DeleteJournalEntry(c *gin.Context) {
	if err := h.backend.DeleteJournalEntry(c.Request.Context(), c.Param("id"), c.Param("entryId")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"message": "Journal entry deleted successfully"})
}
