package dashboard

import "github.com/hireloop-labs/hireloop-console/internal/model"

// TotalPages derives the page count from the server-reported total and the
// page size.
func TotalPages(totalCount, limit int) int {
	if totalCount <= 0 || limit <= 0 {
		return 0
	}
	return (totalCount + limit - 1) / limit
}

// PageWindow builds the sliding run of page numbers around current: the
// first and last pages are always pinned, width inner slots follow the
// current page, and a gap marker stands in wherever the window does not
// reach an edge. Returns nil when there is a single page or less, in which
// case no pagination controls are shown.
func PageWindow(current, totalPages, width int) []model.PageRef {
	if totalPages <= 1 {
		return nil
	}
	if width < 3 {
		width = 5
	}
	half := width / 2

	window := []model.PageRef{{Page: 1}}

	start := max(2, current-half+1)
	end := min(totalPages-1, current+half-1)
	if current <= half+1 {
		end = min(totalPages-1, width)
	}
	if current >= totalPages-half {
		start = max(2, totalPages-width+1)
	}

	if start > 2 {
		window = append(window, model.PageRef{Gap: true})
	}
	for page := start; page <= end; page++ {
		window = append(window, model.PageRef{Page: page})
	}
	if end < totalPages-1 {
		window = append(window, model.PageRef{Gap: true})
	}
	return append(window, model.PageRef{Page: totalPages})
}
