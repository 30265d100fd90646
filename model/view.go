package model

// ViewCounts is the four-way status breakdown of a view-filtered task set.
type ViewCounts struct {
	All       int `json:"all"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Archived  int `json:"archived"`
}

// ViewSummary annotates a smart view with its live counts.
type ViewSummary struct {
	ID     string     `json:"id"`
	Title  string     `json:"title"`
	Counts ViewCounts `json:"counts"`
}

// ViewIndex is the sidebar payload: all smart views plus all areas and
// projects, each carrying counts recomputed from the current task set.
type ViewIndex struct {
	SmartViews []ViewSummary `json:"smartViews"`
	Areas      []List        `json:"areas"`
	Projects   []List        `json:"projects"`
}
