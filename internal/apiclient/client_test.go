package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hireloop-labs/hireloop-console/internal/model"
)

func TestNewRejectsBadURL(t *testing.T) {
	t.Parallel()

	if _, err := New("", time.Second); err == nil {
		t.Error("empty url accepted")
	}
	if _, err := New("api-dev.example.com/api/v1", time.Second); err == nil {
		t.Error("schemeless url accepted")
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		body      string
		wantToken string
		wantAuthE bool
		wantErr   bool
	}{
		{"success", http.StatusOK, `{"error":false,"token":"abc123"}`, "abc123", false, false},
		{"rejected credentials", http.StatusUnauthorized, `{}`, "", true, true},
		{"forbidden", http.StatusForbidden, `{}`, "", true, true},
		{"missing token", http.StatusOK, `{"error":true,"message":"wrong handle"}`, "", false, true},
		{"server error", http.StatusBadGateway, `{}`, "", false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/v1/login" {
					t.Errorf("path = %q", r.URL.Path)
				}
				var creds map[string]string
				if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
					t.Errorf("decode credentials: %v", err)
				}
				if creds["handle"] != "jane" || creds["password"] != "pw" {
					t.Errorf("credentials = %v", creds)
				}
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer upstream.Close()

			c, err := New(upstream.URL+"/api/v1", time.Second)
			if err != nil {
				t.Fatal(err)
			}
			token, err := c.Login(context.Background(), "jane", "pw")
			if tc.wantAuthE && !errors.Is(err, ErrUnauthorized) {
				t.Errorf("err = %v, want ErrUnauthorized", err)
			}
			if tc.wantErr && err == nil {
				t.Error("want error")
			}
			if !tc.wantErr && err != nil {
				t.Fatal(err)
			}
			if token != tc.wantToken {
				t.Errorf("token = %q, want %q", token, tc.wantToken)
			}
		})
	}
}

func TestSearchActivityLogs(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/activity/logs" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization = %q", got)
		}
		var payload model.SearchPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.Page != 2 {
			t.Errorf("page = %d", payload.Page)
		}
		fmt.Fprint(w, `{"error":false,"activities":[{"_id":"a1","title":"Call Answered"}],"totalCount":21}`)
	}))
	defer upstream.Close()

	c, err := New(upstream.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	result, err := c.SearchActivityLogs(context.Background(), "tok", model.SearchPayload{Page: 2, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalCount != 21 || len(result.Activities) != 1 || result.Activities[0].ID != "a1" {
		t.Errorf("result = %+v", result)
	}
}

func TestSearchActivityLogsUnauthorized(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer upstream.Close()

	c, err := New(upstream.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.SearchActivityLogs(context.Background(), "expired", model.SearchPayload{Page: 1})
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestCreateEntryUpstreamError(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":true,"message":"duplicate email"}`)
	}))
	defer upstream.Close()

	c, err := New(upstream.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	err = c.CreateEntry(context.Background(), "tok", model.EntryPayload{})
	if err == nil || err.Error() != "create entry failed: duplicate email" {
		t.Errorf("err = %v", err)
	}
}

func TestRemoveDevice(t *testing.T) {
	t.Parallel()

	var got map[string]string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/remove/device" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		fmt.Fprint(w, `{"error":false}`)
	}))
	defer upstream.Close()

	c, err := New(upstream.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.RemoveDevice(context.Background(), "tok", "player-9"); err != nil {
		t.Fatal(err)
	}
	if got["deviceId"] != "player-9" {
		t.Errorf("body = %v", got)
	}
}
