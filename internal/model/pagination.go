package model

// PageRef is one slot in the pagination control: either a navigable page
// number or an ellipsis gap.
type PageRef struct {
	Page int  `json:"page,omitempty"`
	Gap  bool `json:"gap,omitempty"`
}

// DashboardView is the snapshot the frontend polls to render the list view.
type DashboardView struct {
	Records    []ActivityRecord `json:"records"`
	TotalCount int              `json:"totalCount"`
	TotalPages int              `json:"totalPages"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	PageWindow []PageRef        `json:"pageWindow,omitempty"`
	Loading    bool             `json:"loading"`
	Message    string           `json:"message,omitempty"`
	Filters    FilterState      `json:"filters"`
}
