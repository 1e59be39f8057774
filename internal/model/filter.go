package model

// Date filter presets understood by the payload compiler. "Custom Range"
// is the only value that reads CustomStartDate/CustomEndDate.
const (
	DateFilterToday       = "Today"
	DateFilterLast7Days   = "Last 7 Days"
	DateFilterLast30Days  = "Last 30 Days"
	DateFilterThisMonth   = "This Month"
	DateFilterLastMonth   = "Last Month"
	DateFilterCustomRange = "Custom Range"
	DateFilterAll         = "All"
)

// Record type filters passed through to the search endpoint verbatim.
const (
	FilterByBoth       = "Both"
	FilterByLeads      = "Leads"
	FilterByCandidates = "Candidates"
)

// FilterState holds one dashboard session's filter selections. Times are
// "HH:MM" strings, custom dates "YYYY-MM-DD"; empty means unset.
type FilterState struct {
	Page            int      `json:"page"`
	Limit           int      `json:"limit"`
	Users           []string `json:"users"`
	JobFunctions    []string `json:"jobFunctions"`
	Tags            []string `json:"tags"`
	Search          string   `json:"search"`
	DateFilter      string   `json:"dateFilter"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	CustomStartDate string   `json:"customStartDate"`
	CustomEndDate   string   `json:"customEndDate"`
	GroupBy         string   `json:"groupBy"`
	FilterBy        string   `json:"filterBy"`
}

// DefaultFilters returns the state a fresh dashboard session starts with.
func DefaultFilters(limit int) FilterState {
	if limit <= 0 {
		limit = 10
	}
	return FilterState{
		Page:       1,
		Limit:      limit,
		DateFilter: DateFilterToday,
		GroupBy:    "Date",
		FilterBy:   FilterByBoth,
	}
}
