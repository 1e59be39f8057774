package model

// SearchPayload is the wire body for the upstream activity-log search
// endpoint. Optional keys are omitted entirely when they carry no value, so
// compiling the same FilterState twice marshals to identical bytes.
type SearchPayload struct {
	Page         int      `json:"page"`
	Limit        int      `json:"limit"`
	GroupBy      string   `json:"groupBy"`
	FilterBy     string   `json:"filterBy"`
	Users        []string `json:"users,omitempty"`
	JobFunctions []string `json:"jobFunctions,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Search       string   `json:"search,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
}
