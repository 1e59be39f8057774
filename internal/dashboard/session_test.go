package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hireloop-labs/hireloop-console/internal/apiclient"
	"github.com/hireloop-labs/hireloop-console/internal/model"
)

// fakeFetcher records every payload it receives and answers through an
// optional per-test handler.
type fakeFetcher struct {
	mu      sync.Mutex
	calls   []model.SearchPayload
	handler func(payload model.SearchPayload) (*model.SearchResult, error)
}

func (f *fakeFetcher) SearchActivityLogs(_ context.Context, _ string, payload model.SearchPayload) (*model.SearchResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, payload)
	handler := f.handler
	f.mu.Unlock()
	if handler != nil {
		return handler(payload)
	}
	return &model.SearchResult{}, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFetcher) lastCall() model.SearchPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return model.SearchPayload{}
	}
	return f.calls[len(f.calls)-1]
}

func staticToken(context.Context) (string, error) { return "tok", nil }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func newTestSession(fetcher *fakeFetcher, mutate func(*Options)) *Session {
	opts := Options{
		Fetcher:  fetcher,
		Token:    staticToken,
		PageSize: 10,
		Debounce: 40 * time.Millisecond,
		Now:      func() time.Time { return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC) },
	}
	if mutate != nil {
		mutate(&opts)
	}
	return NewSession(opts)
}

func TestSessionStartFetchesFirstPage(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{
		handler: func(model.SearchPayload) (*model.SearchResult, error) {
			return &model.SearchResult{
				Activities: []model.RawActivity{{ID: "a1"}, {ID: "a2"}},
				TotalCount: 95,
			}, nil
		},
	}
	s := newTestSession(fetcher, nil)
	defer s.Close()
	s.Start()

	waitFor(t, func() bool { return !s.View().Loading })

	view := s.View()
	if len(view.Records) != 2 || view.TotalCount != 95 || view.TotalPages != 10 {
		t.Errorf("view = %d records, total %d, pages %d", len(view.Records), view.TotalCount, view.TotalPages)
	}
	if got := fetcher.lastCall(); got.Page != 1 || got.Limit != 10 {
		t.Errorf("payload page/limit = %d/%d, want 1/10", got.Page, got.Limit)
	}
}

func TestSessionGoToPageBounds(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{
		handler: func(model.SearchPayload) (*model.SearchResult, error) {
			return &model.SearchResult{TotalCount: 95}, nil
		},
	}
	s := newTestSession(fetcher, nil)
	defer s.Close()
	s.Start()
	waitFor(t, func() bool { return !s.View().Loading })

	before := fetcher.callCount()
	s.GoToPage(0)
	s.GoToPage(11)
	if got := fetcher.callCount(); got != before {
		t.Errorf("out-of-range pages fetched, calls %d -> %d", before, got)
	}

	s.GoToPage(10)
	waitFor(t, func() bool { return fetcher.callCount() == before+1 })
	if got := fetcher.lastCall(); got.Page != 10 {
		t.Errorf("payload page = %d, want 10", got.Page)
	}
	waitFor(t, func() bool { return !s.View().Loading })
	if got := s.View().Page; got != 10 {
		t.Errorf("view page = %d, want 10", got)
	}
}

func TestSessionSearchDebounce(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{
		handler: func(model.SearchPayload) (*model.SearchResult, error) {
			return &model.SearchResult{TotalCount: 1}, nil
		},
	}
	s := newTestSession(fetcher, nil)
	defer s.Close()
	s.Start()
	waitFor(t, func() bool { return !s.View().Loading })
	before := fetcher.callCount()

	for _, term := range []string{"j", "ja", "jan"} {
		if err := s.SetFilter(KeySearch, term); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	waitFor(t, func() bool { return fetcher.callCount() > before })
	// give a second, spurious fire the chance to land
	time.Sleep(100 * time.Millisecond)

	if got := fetcher.callCount(); got != before+1 {
		t.Errorf("calls after debounce = %d, want %d", got, before+1)
	}
	if got := fetcher.lastCall(); got.Search != "jan" {
		t.Errorf("payload search = %q, want the last keystroke", got.Search)
	}
}

func TestSessionFilterChangeFetchesImmediately(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	s := newTestSession(fetcher, nil)
	defer s.Close()
	s.Start()
	waitFor(t, func() bool { return fetcher.callCount() == 1 })

	if err := s.SetFilter(KeyDateFilter, model.DateFilterAll); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return fetcher.callCount() == 2 })

	if got := fetcher.lastCall(); got.Page != 1 || got.StartDate != "" {
		t.Errorf("payload = page %d, startDate %q; want page 1 and no range", got.Page, got.StartDate)
	}
}

func TestSessionDiscardsStaleResponse(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	fetcher := &fakeFetcher{}
	fetcher.handler = func(payload model.SearchPayload) (*model.SearchResult, error) {
		if payload.StartDate != "" {
			// the initial Today fetch: hold it until the test says so
			<-release
			return &model.SearchResult{TotalCount: 999}, nil
		}
		return &model.SearchResult{TotalCount: 7}, nil
	}
	s := newTestSession(fetcher, nil)
	defer s.Close()
	s.Start()
	waitFor(t, func() bool { return fetcher.callCount() == 1 })

	// a newer request overtakes the blocked one
	if err := s.SetFilter(KeyDateFilter, model.DateFilterAll); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return s.View().TotalCount == 7 })

	close(release)
	time.Sleep(100 * time.Millisecond)

	if got := s.View().TotalCount; got != 7 {
		t.Errorf("stale response applied, totalCount = %d, want 7", got)
	}
}

func TestSessionFetchErrorClearsList(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	fetcher := &fakeFetcher{
		handler: func(model.SearchPayload) (*model.SearchResult, error) {
			if calls.Add(1) == 1 {
				return &model.SearchResult{
					Activities: []model.RawActivity{{ID: "a1"}},
					TotalCount: 1,
				}, nil
			}
			return nil, errors.New("boom")
		},
	}
	s := newTestSession(fetcher, nil)
	defer s.Close()
	s.Start()
	waitFor(t, func() bool { return s.View().TotalCount == 1 })

	s.GoToPage(1)
	waitFor(t, func() bool { return !s.View().Loading && s.View().Message != "" })

	view := s.View()
	if len(view.Records) != 0 || view.TotalCount != 0 {
		t.Errorf("list not cleared: %d records, total %d", len(view.Records), view.TotalCount)
	}
	if view.Message != "Failed to fetch call records." {
		t.Errorf("message = %q", view.Message)
	}
}

func TestSessionUpstreamErrorEnvelope(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{
		handler: func(model.SearchPayload) (*model.SearchResult, error) {
			return &model.SearchResult{Error: true, Message: "index rebuilding"}, nil
		},
	}
	s := newTestSession(fetcher, nil)
	defer s.Close()
	s.Start()
	waitFor(t, func() bool { return !s.View().Loading })

	if got := s.View().Message; got != "index rebuilding" {
		t.Errorf("message = %q, want the upstream message", got)
	}
}

func TestSessionAuthFailure(t *testing.T) {
	t.Parallel()

	loggedOut := make(chan struct{}, 1)
	fetcher := &fakeFetcher{
		handler: func(model.SearchPayload) (*model.SearchResult, error) {
			return nil, apiclient.ErrUnauthorized
		},
	}
	s := newTestSession(fetcher, func(opts *Options) {
		opts.OnAuthFailure = func() { loggedOut <- struct{}{} }
	})
	defer s.Close()
	s.Start()

	select {
	case <-loggedOut:
	case <-time.After(2 * time.Second):
		t.Fatal("auth failure callback never fired")
	}
	waitFor(t, func() bool { return s.View().Message == "Session expired. Please sign in again." })
}

func TestSessionMissingTokenIsAuthFailure(t *testing.T) {
	t.Parallel()

	loggedOut := make(chan struct{}, 1)
	fetcher := &fakeFetcher{}
	s := newTestSession(fetcher, func(opts *Options) {
		opts.Token = func(context.Context) (string, error) { return "", errors.New("no token") }
		opts.OnAuthFailure = func() { loggedOut <- struct{}{} }
	})
	defer s.Close()
	s.Start()

	select {
	case <-loggedOut:
	case <-time.After(2 * time.Second):
		t.Fatal("auth failure callback never fired")
	}
	if got := fetcher.callCount(); got != 0 {
		t.Errorf("fetcher called %d times without a token", got)
	}
}

func TestSessionClosedRefusesEvents(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	s := newTestSession(fetcher, nil)
	s.Start()
	waitFor(t, func() bool { return fetcher.callCount() == 1 })
	s.Close()

	if err := s.SetFilter(KeySearch, "x"); err == nil {
		t.Error("SetFilter on a closed session should fail")
	}
	s.GoToPage(1)
	time.Sleep(50 * time.Millisecond)
	if got := fetcher.callCount(); got != 1 {
		t.Errorf("closed session still fetched, calls = %d", got)
	}
}
