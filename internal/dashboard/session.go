package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hireloop-labs/hireloop-console/internal/apiclient"
	"github.com/hireloop-labs/hireloop-console/internal/format"
	"github.com/hireloop-labs/hireloop-console/internal/logger"
	"github.com/hireloop-labs/hireloop-console/internal/model"
	"github.com/hireloop-labs/hireloop-console/internal/query"
)

// Fetcher dispatches a compiled payload to the activity-log search endpoint.
type Fetcher interface {
	SearchActivityLogs(ctx context.Context, token string, payload model.SearchPayload) (*model.SearchResult, error)
}

// TokenFunc supplies the upstream bearer token for this session. Injected at
// construction so the session never reaches into ambient storage.
type TokenFunc func(ctx context.Context) (string, error)

// Options configures a Session.
type Options struct {
	Fetcher       Fetcher
	Token         TokenFunc
	OnAuthFailure func() // invoked outside the session lock
	Log           *logger.Logger

	PageSize     int
	Debounce     time.Duration // search debounce window
	FetchTimeout time.Duration
	WindowWidth  int              // pagination window width
	Now          func() time.Time // clock seam for tests
}

// Session owns one dashboard's filter state and record list. All mutation
// goes through SetFilter and GoToPage; overlapping fetches are serialized by
// a sequence number so the last dispatched request always wins, regardless
// of the order responses arrive in.
type Session struct {
	mu      sync.Mutex
	filters model.FilterState
	records []model.ActivityRecord
	total   int
	loading bool
	message string

	seq     uint64
	timer   *time.Timer
	closed  bool
	fetcher Fetcher
	token   TokenFunc
	onAuth  func()
	log     *logger.Logger

	debounce     time.Duration
	fetchTimeout time.Duration
	windowWidth  int
	now          func() time.Time
}

// NewSession builds a session with the default filter state.
func NewSession(opts Options) *Session {
	if opts.Debounce <= 0 {
		opts.Debounce = time.Second
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 15 * time.Second
	}
	if opts.WindowWidth <= 0 {
		opts.WindowWidth = 5
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		filters:      model.DefaultFilters(opts.PageSize),
		fetcher:      opts.Fetcher,
		token:        opts.Token,
		onAuth:       opts.OnAuthFailure,
		log:          opts.Log,
		debounce:     opts.Debounce,
		fetchTimeout: opts.FetchTimeout,
		windowWidth:  opts.WindowWidth,
		now:          opts.Now,
	}
}

// Start issues the initial fetch with the default filters.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatch(s.filters, s.filters.Page)
}

// SetFilter applies one filter key and triggers the matching refresh: search
// changes arm a single-slot debounce timer, everything else fetches
// immediately. A change to any facet other than page/limit resets the page
// to 1 and clears the visible list so stale-filter rows are never shown
// under the new filter.
func (s *Session) SetFilter(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("session closed")
	}
	next, resetList, err := applyChange(s.filters, key, value)
	if err != nil {
		return err
	}
	s.filters = next
	if resetList {
		s.records = nil
	}
	if key == KeySearch {
		// single-slot timer: arming a new one invalidates the pending fire
		if s.timer != nil {
			s.timer.Stop()
		}
		snapshot := next
		s.timer = time.AfterFunc(s.debounce, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.closed {
				return
			}
			s.dispatch(snapshot, snapshot.Page)
		})
		return nil
	}
	s.dispatch(next, next.Page)
	return nil
}

// GoToPage fetches page n. Out-of-range targets are ignored; valid ones set
// the page cursor and clear the list without touching the other facets.
func (s *Session) GoToPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if n < 1 || n > TotalPages(s.total, s.filters.Limit) {
		return
	}
	s.filters.Page = n
	s.records = nil
	s.dispatch(s.filters, n)
}

// View snapshots the current list state for rendering.
func (s *Session) View() model.DashboardView {
	s.mu.Lock()
	defer s.mu.Unlock()
	totalPages := TotalPages(s.total, s.filters.Limit)
	records := make([]model.ActivityRecord, len(s.records))
	copy(records, s.records)
	return model.DashboardView{
		Records:    records,
		TotalCount: s.total,
		TotalPages: totalPages,
		Page:       s.filters.Page,
		Limit:      s.filters.Limit,
		PageWindow: PageWindow(s.filters.Page, totalPages, s.windowWidth),
		Loading:    s.loading,
		Message:    s.message,
		Filters:    s.filters,
	}
}

// Close stops the debounce timer and refuses further events. In-flight
// fetches resolve into the void.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++ // orphan any in-flight fetch
}

// dispatch starts an asynchronous fetch for the given snapshot. Caller must
// hold the lock. The sequence number taken here decides at resolution time
// whether the result is still the latest intent.
func (s *Session) dispatch(snapshot model.FilterState, pageToFetch int) {
	s.seq++
	s.loading = true
	go s.fetch(s.seq, snapshot, pageToFetch)
}

func (s *Session) fetch(seq uint64, snapshot model.FilterState, pageToFetch int) {
	ctx, cancel := context.WithTimeout(context.Background(), s.fetchTimeout)
	defer cancel()

	token, err := s.token(ctx)
	if err != nil || token == "" {
		s.resolveAuthFailure(seq)
		return
	}

	payload := query.Compile(snapshot, pageToFetch, s.now())
	result, err := s.fetcher.SearchActivityLogs(ctx, token, payload)

	s.mu.Lock()
	if seq != s.seq {
		// a newer request was dispatched while this one was in flight
		s.mu.Unlock()
		return
	}
	s.loading = false
	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
		s.mu.Unlock()
		s.resolveAuthFailure(seq)
		return
	case err != nil:
		if s.log != nil {
			s.log.Warnw("activity log fetch failed", "err", err)
		}
		s.records = nil
		s.total = 0
		s.message = "Failed to fetch call records."
	case result == nil || result.Error:
		s.records = nil
		s.total = 0
		s.message = failureMessage(result)
	default:
		s.records = format.Records(result.Activities)
		s.total = result.TotalCount
		s.message = ""
	}
	s.mu.Unlock()
}

// resolveAuthFailure clears the list and forces a logout; a missing or
// rejected token is fatal to the session, never retried.
func (s *Session) resolveAuthFailure(seq uint64) {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	s.loading = false
	s.records = nil
	s.total = 0
	s.message = "Session expired. Please sign in again."
	onAuth := s.onAuth
	s.mu.Unlock()
	if onAuth != nil {
		onAuth()
	}
}

func failureMessage(result *model.SearchResult) string {
	if result != nil && result.Message != "" {
		return result.Message
	}
	return "Failed to fetch call records."
}
