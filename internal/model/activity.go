package model

import "encoding/json"

// Record type discriminants.
const (
	RecordTypeLead      = "Lead"
	RecordTypeCandidate = "Candidate"
)

// Derived call statuses, classified from the activity title.
const (
	StatusAnswered   = "Answered"
	StatusBusy       = "Busy"
	StatusNotReached = "Not Reachable"
	StatusNoteAdded  = "Note Added"
	StatusUnknown    = "Unknown"
)

// PersonName is the structured name shape the upstream API uses.
type PersonName struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

// RawLead is the lead sub-document embedded in a raw activity.
type RawLead struct {
	Name        *PersonName     `json:"name"`
	Email       string          `json:"email"`
	Phones      []string        `json:"phones"`
	JobFunction *RawJobFunction `json:"_jobFunction"`
}

// RawCandidate is the candidate sub-document embedded in a raw activity.
type RawCandidate struct {
	Name        *PersonName     `json:"name"`
	Emails      []string        `json:"emails"`
	Phones      []string        `json:"phones"`
	JobFunction *RawJobFunction `json:"_jobFunction"`
}

// RawJobFunction is a populated job-function reference.
type RawJobFunction struct {
	Name string `json:"name"`
}

// RawUser is the creating user embedded in a raw activity.
type RawUser struct {
	Name *PersonName `json:"name"`
}

// RawActivity is one activity-log row exactly as the search endpoint returns
// it. Note is kept raw because the server sends either a tag array or free
// text depending on the record's origin.
type RawActivity struct {
	ID                    string          `json:"_id"`
	Title                 string          `json:"title"`
	CreatedAt             string          `json:"createdAt"`
	Note                  json.RawMessage `json:"note"`
	IsDailyCallingTracker bool            `json:"isDailyCallingTracker"`
	IsLead                bool            `json:"isLead"`
	CandidateOrLeadName   string          `json:"candidateOrLeadName"`
	CandidateOrLeadEmail  string          `json:"candidateOrLeadEmail"`
	JobFunctionID         string          `json:"_jobFunction"`
	Lead                  *RawLead        `json:"_lead"`
	Candidate             *RawCandidate   `json:"_candidate"`
	CreatedBy             *RawUser        `json:"_createdBy"`
}

// ActivityRecord is the display-ready row derived from a RawActivity.
// Records are immutable once built; the dashboard replaces its whole list,
// never patches rows in place.
type ActivityRecord struct {
	ID             string   `json:"id"`
	CreatedAt      string   `json:"createdAt"`
	CandidateName  string   `json:"candidateName"`
	ContactDetails string   `json:"contactDetails"`
	JobFunction    string   `json:"jobFunction"`
	User           string   `json:"user"`
	Tags           []string `json:"tags"`
	Status         string   `json:"status"`
	Details        string   `json:"details"`
	Type           string   `json:"type"`
}

// SearchResult mirrors the upstream search response envelope.
type SearchResult struct {
	Error      bool          `json:"error"`
	Message    string        `json:"message"`
	Activities []RawActivity `json:"activities"`
	TotalCount int           `json:"totalCount"`
}
