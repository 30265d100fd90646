package dto

type CreateListRequest struct {
	Title       string `json:"title" binding:"required"`
	Icon        string `json:"icon"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}

type SectionRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	Order   *int   `json:"order"`
}

// SectionPatch follows the same merge-patch rules as TaskPatch.
type SectionPatch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Order   *int    `json:"order"`
}

type JournalEntryRequest struct {
	Content string `json:"content" binding:"required"`
}
