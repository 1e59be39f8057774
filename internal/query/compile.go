package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/hireloop-labs/hireloop-console/internal/model"
)

// isoMillis matches the upstream contract: UTC ISO-8601 with millisecond
// precision, e.g. 2024-06-01T03:30:00.000Z.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Compile maps a filter snapshot plus an explicit page number to the wire
// payload the activity-log search endpoint expects. It is pure: no clock
// reads, no I/O; "today" is derived from the caller-supplied now, in now's
// location. pageToFetch is decoupled from f.Page so pagination clicks and
// retries can override without mutating state first.
func Compile(f model.FilterState, pageToFetch int, now time.Time) model.SearchPayload {
	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	p := model.SearchPayload{
		Page:     pageToFetch,
		Limit:    limit,
		GroupBy:  f.GroupBy,
		FilterBy: f.FilterBy,
	}
	if len(f.Users) > 0 {
		p.Users = f.Users
	}
	if len(f.JobFunctions) > 0 {
		p.JobFunctions = f.JobFunctions
	}
	if len(f.Tags) > 0 {
		p.Tags = f.Tags
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		p.Search = search
	}
	if start, end, ok := resolveRange(f, now); ok {
		p.StartDate = start.UTC().Format(isoMillis)
		p.EndDate = end.UTC().Format(isoMillis)
	}
	return p
}

// resolveRange turns the date filter into concrete local boundaries.
// CustomStartDate/CustomEndDate are read only when the filter is
// "Custom Range"; any other filter value is the sole discriminant and stale
// custom fields are ignored. Unrecognized filter values, like "All", emit no
// range at all.
func resolveRange(f model.FilterState, now time.Time) (time.Time, time.Time, bool) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	var start, end time.Time
	switch f.DateFilter {
	case model.DateFilterToday:
		start = today
		end = endOfDay(today)
		start = applyStartTime(start, f.StartTime)
		end = applyEndTime(end, f.EndTime)
	case model.DateFilterLast7Days:
		start = today.AddDate(0, 0, -7)
		end = endOfDay(today)
	case model.DateFilterLast30Days:
		start = today.AddDate(0, 0, -30)
		end = endOfDay(today)
	case model.DateFilterThisMonth:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		end = endOfDay(time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, loc))
	case model.DateFilterLastMonth:
		start = time.Date(today.Year(), today.Month()-1, 1, 0, 0, 0, 0, loc)
		end = endOfDay(time.Date(today.Year(), today.Month(), 0, 0, 0, 0, 0, loc))
	case model.DateFilterCustomRange:
		startDay, okStart := parseDay(f.CustomStartDate, loc)
		endDay, okEnd := parseDay(f.CustomEndDate, loc)
		// a range is emitted only when both dates parse
		if !okStart || !okEnd {
			return time.Time{}, time.Time{}, false
		}
		start = applyStartTime(startDay, f.StartTime)
		end = applyEndTime(endOfDay(endDay), f.EndTime)
	default:
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 999e6, day.Location())
}

// applyStartTime overwrites the hour/minute of the range start, forcing
// seconds to :00.000. Malformed clock strings are treated as absent.
func applyStartTime(start time.Time, clock string) time.Time {
	h, m, ok := parseClock(clock)
	if !ok {
		return start
	}
	return time.Date(start.Year(), start.Month(), start.Day(), h, m, 0, 0, start.Location())
}

// applyEndTime overwrites the hour/minute of the range end, forcing seconds
// to :59.999.
func applyEndTime(end time.Time, clock string) time.Time {
	h, m, ok := parseClock(clock)
	if !ok {
		return end
	}
	return time.Date(end.Year(), end.Month(), end.Day(), h, m, 59, 999e6, end.Location())
}

func parseClock(value string) (int, int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, 0, false
	}
	hh, mm, found := strings.Cut(value, ":")
	if !found {
		return 0, 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

func parseDay(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}
