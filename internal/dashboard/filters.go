package dashboard

import (
	"fmt"

	"github.com/hireloop-labs/hireloop-console/internal/model"
)

// Filter keys accepted by Session.SetFilter.
const (
	KeyPage            = "page"
	KeyLimit           = "limit"
	KeyUsers           = "users"
	KeyJobFunctions    = "jobFunctions"
	KeyTags            = "tags"
	KeySearch          = "search"
	KeyDateFilter      = "dateFilter"
	KeyStartTime       = "startTime"
	KeyEndTime         = "endTime"
	KeyCustomStartDate = "customStartDate"
	KeyCustomEndDate   = "customEndDate"
	KeyGroupBy         = "groupBy"
	KeyFilterBy        = "filterBy"
)

// applyChange returns the filter state after setting one key, enforcing the
// two state invariants: a dateFilter change clears all custom date/time
// fragments, and any change other than page/limit resets the page to 1.
// resetList reports whether the visible record list must be cleared before
// the next fetch resolves.
func applyChange(f model.FilterState, key string, value any) (next model.FilterState, resetList bool, err error) {
	next = f
	switch key {
	case KeyPage:
		next.Page, err = intValue(key, value)
	case KeyLimit:
		next.Limit, err = intValue(key, value)
	case KeyUsers:
		next.Users, err = stringsValue(key, value)
	case KeyJobFunctions:
		next.JobFunctions, err = stringsValue(key, value)
	case KeyTags:
		next.Tags, err = stringsValue(key, value)
	case KeySearch:
		next.Search, err = stringValue(key, value)
	case KeyDateFilter:
		next.DateFilter, err = stringValue(key, value)
		// stale custom-range fragments must never outlive a dateFilter change
		next.CustomStartDate = ""
		next.CustomEndDate = ""
		next.StartTime = ""
		next.EndTime = ""
	case KeyStartTime:
		next.StartTime, err = stringValue(key, value)
	case KeyEndTime:
		next.EndTime, err = stringValue(key, value)
	case KeyCustomStartDate:
		next.CustomStartDate, err = stringValue(key, value)
	case KeyCustomEndDate:
		next.CustomEndDate, err = stringValue(key, value)
	case KeyGroupBy:
		next.GroupBy, err = stringValue(key, value)
	case KeyFilterBy:
		next.FilterBy, err = stringValue(key, value)
	default:
		return f, false, fmt.Errorf("unknown filter key %q", key)
	}
	if err != nil {
		return f, false, err
	}
	if key != KeyPage && key != KeyLimit {
		next.Page = 1
		resetList = true
	}
	return next, resetList, nil
}

func stringValue(key string, value any) (string, error) {
	if value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("filter %q expects a string", key)
	}
	return s, nil
}

func intValue(key string, value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64: // JSON numbers decode as float64
		return int(v), nil
	default:
		return 0, fmt.Errorf("filter %q expects a number", key)
	}
}

func stringsValue(key string, value any) ([]string, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("filter %q expects an array of strings", key)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("filter %q expects an array of strings", key)
	}
}
