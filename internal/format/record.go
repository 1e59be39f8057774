package format

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/hireloop-labs/hireloop-console/internal/model"
)

// nameFromTitle extracts a person name from activity titles like
// "Called on Jane Doe on 2024-01-01" or "added a note to Jane Doe at 10:15".
// Best-effort only; structured names always win over this.
var nameFromTitle = regexp.MustCompile(`(?i)(?:to|on)\s+([A-Za-z\s]+?)(?:\s+on|\s+at|$)`)

// jobFunctionLabels maps raw job-function ids to display labels for records
// that carry an unpopulated reference.
var jobFunctionLabels = map[string]string{
	"651d1392be1d01530699bf65": "Actuarial",
	"65f9762acd85af49308a481c": "Art",
	"66d1b247adbc8a65d8df6f41": "Content Writer",
	"66d1b241adbc8a65d8df6f3b": "Data Science",
	"6523f30eacb0666ba1d169c7": "Audit And IT Roles",
}

const notAvailable = "N/A"

// Records formats a batch of raw activities in order.
func Records(raw []model.RawActivity) []model.ActivityRecord {
	records := make([]model.ActivityRecord, 0, len(raw))
	for _, activity := range raw {
		records = append(records, Record(activity))
	}
	return records
}

// Record derives the display-ready row for one raw activity. Each field is
// resolved through an ordered fallback chain; the first match wins.
func Record(raw model.RawActivity) model.ActivityRecord {
	isLead := raw.IsDailyCallingTracker || raw.IsLead

	recordType := model.RecordTypeCandidate
	if isLead {
		recordType = model.RecordTypeLead
	}

	createdAt := raw.CreatedAt
	if createdAt == "" {
		createdAt = notAvailable
	}

	return model.ActivityRecord{
		ID:             raw.ID,
		CreatedAt:      createdAt,
		CandidateName:  resolveName(raw, isLead),
		ContactDetails: resolveContact(raw),
		JobFunction:    resolveJobFunction(raw),
		User:           resolveUser(raw.CreatedBy),
		Tags:           resolveTags(raw.Note),
		Status:         ClassifyStatus(raw.Title),
		Details:        raw.Title,
		Type:           recordType,
	}
}

// ClassifyStatus buckets an activity by case-insensitive substring match on
// its title, checked in a fixed order.
func ClassifyStatus(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "answered"):
		return model.StatusAnswered
	case strings.Contains(lower, "busy"):
		return model.StatusBusy
	case strings.Contains(lower, "not reachable"):
		return model.StatusNotReached
	case strings.Contains(lower, "added a note"):
		return model.StatusNoteAdded
	default:
		return model.StatusUnknown
	}
}

func resolveName(raw model.RawActivity, isLead bool) string {
	if isLead {
		if name := extractTitleName(raw.Title); name != "" {
			return name
		}
		if raw.CandidateOrLeadName != "" {
			return raw.CandidateOrLeadName
		}
		if raw.Lead != nil && raw.Lead.Name != nil && raw.Lead.Name.First != "" {
			return strings.TrimSpace(raw.Lead.Name.First + " " + raw.Lead.Name.Last)
		}
		return notAvailable
	}
	if c := raw.Candidate; c != nil && c.Name != nil && c.Name.First != "" && c.Name.Last != "" {
		return strings.TrimSpace(c.Name.First + " " + c.Name.Last)
	}
	if raw.CandidateOrLeadName != "" {
		return raw.CandidateOrLeadName
	}
	if name := extractTitleName(raw.Title); name != "" {
		return name
	}
	return notAvailable
}

func extractTitleName(title string) string {
	match := nameFromTitle.FindStringSubmatch(title)
	if len(match) < 2 {
		return ""
	}
	return strings.TrimSpace(match[1])
}

func resolveContact(raw model.RawActivity) string {
	if lead := raw.Lead; lead != nil {
		if lead.Email != "" {
			return lead.Email
		}
		if len(lead.Phones) > 0 {
			return lead.Phones[0]
		}
	}
	if c := raw.Candidate; c != nil {
		if len(c.Emails) > 0 {
			return c.Emails[0]
		}
		if len(c.Phones) > 0 {
			return c.Phones[0]
		}
	}
	if raw.CandidateOrLeadEmail != "" {
		return raw.CandidateOrLeadEmail
	}
	return notAvailable
}

func resolveJobFunction(raw model.RawActivity) string {
	if raw.Lead != nil && raw.Lead.JobFunction != nil && raw.Lead.JobFunction.Name != "" {
		return raw.Lead.JobFunction.Name
	}
	if raw.Candidate != nil && raw.Candidate.JobFunction != nil && raw.Candidate.JobFunction.Name != "" {
		return raw.Candidate.JobFunction.Name
	}
	if raw.JobFunctionID != "" {
		if label, ok := jobFunctionLabels[raw.JobFunctionID]; ok {
			return label
		}
	}
	return notAvailable
}

func resolveUser(user *model.RawUser) string {
	if user != nil && user.Name != nil && user.Name.First != "" && user.Name.Last != "" {
		return strings.TrimSpace(user.Name.First + " " + user.Name.Last)
	}
	return notAvailable
}

// resolveTags keeps the note field only when it is a JSON string array.
func resolveTags(note json.RawMessage) []string {
	var tags []string
	if len(note) == 0 || json.Unmarshal(note, &tags) != nil {
		return []string{}
	}
	if tags == nil {
		return []string{}
	}
	return tags
}
