package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ogurasousui/company-admin-console/internal/core/employee"
	"github.com/ogurasousui/company-admin-console/internal/platform/config"
)

func newTestClient(t *testing.T, baseURL string, attempts uint) *Client {
	t.Helper()

	c, err := NewClient(config.UpstreamConfig{
		BaseURL:       baseURL,
		Token:         "service-token",
		Timeout:       time.Second,
		RetryAttempts: attempts,
	}, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	c.delay = time.Millisecond
	return c
}

func TestClient_ListByCompany(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/employees/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("company_id") != "c1" {
			t.Errorf("unexpected company_id: %s", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Bearer service-token" {
			t.Errorf("unexpected authorization header: %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1, "is_active": "Active", "department_name": "Eng"}, {"id": 2, "is_active": false}]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/api", 1)

	list, err := c.ListByCompany(context.Background(), "c1")
	if err != nil {
		t.Fatalf("ListByCompany returned error: %v", err)
	}
	if len(list) != 2 || list[0].ID != "1" || !list[0].IsActive || list[1].IsActive {
		t.Fatalf("unexpected employees: %+v", list)
	}
	if list[0].CompanyID != "c1" {
		t.Fatalf("expected company id to be set, got %q", list[0].CompanyID)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"results": [{"id": "a"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 3)

	list, err := c.ListByCompany(context.Background(), "c1")
	if err != nil {
		t.Fatalf("ListByCompany returned error: %v", err)
	}
	if len(list) != 1 || atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected success on third call, got %d employees after %d calls", len(list), calls)
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 3)

	_, err := c.ListByCompany(context.Background(), "c1")
	if !errors.Is(err, employee.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestClient_InvalidPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 1)

	if _, err := c.ListByCompany(context.Background(), "c1"); !errors.Is(err, employee.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
}
