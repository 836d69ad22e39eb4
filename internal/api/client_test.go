package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/0x13a/jobdash/internal/api"
	"github.com/0x13a/jobdash/internal/company"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   string
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*api.Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(b)})
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Config{BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, &calls
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := api.NewClient(api.Config{}); err == nil {
		t.Error("NewClient without base url should fail")
	}
}

func TestListJobs(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":1,"company":"Acme","title":"Intern","url":"https://acme.test/1","discovered_at":"2026-01-02T03:04:05Z","notified":true}]`)
	})

	jobs, err := client.ListJobs(context.Background())
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Company != "Acme" || !jobs[0].Notified {
		t.Errorf("ListJobs() = %+v", jobs)
	}
	if got := (*calls)[0]; got.Method != http.MethodGet || got.Path != "/api/jobs" {
		t.Errorf("request = %s %s, want GET /api/jobs", got.Method, got.Path)
	}
}

func TestListJobs_NullIsEmpty(t *testing.T) {
	for _, body := range []string{"null", "", "[]"} {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, body)
		})
		jobs, err := client.ListJobs(context.Background())
		if err != nil {
			t.Fatalf("ListJobs(%q): %v", body, err)
		}
		if jobs == nil || len(jobs) != 0 {
			t.Errorf("ListJobs(%q) = %#v, want empty non-nil slice", body, jobs)
		}
	}
}

func TestListLogs_SendsLimit(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":2,"status":"success","new_jobs":3},{"id":1,"status":"error"}]`)
	})
	logs, err := client.ListLogs(context.Background(), 20)
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if len(logs) != 2 || logs[0].ID != 2 || !logs[0].Succeeded() {
		t.Errorf("ListLogs() = %+v", logs)
	}
	if got := (*calls)[0]; got.Path != "/api/logs" || got.Query != "limit=20" {
		t.Errorf("request = %s?%s, want /api/logs?limit=20", got.Path, got.Query)
	}
}

func TestCompanyMutations(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			writeJSON(w, http.StatusCreated, `{"id":5,"name":"Acme","career_url":"https://acme.test","search_term":"intern","enabled":true}`)
		case http.MethodPut:
			writeJSON(w, http.StatusOK, `{"id":5,"name":"Acme Corp","career_url":"https://acme.test","search_term":"intern","enabled":false}`)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()
	req := company.Request{Name: "Acme", CareerURL: "https://acme.test", SearchTerm: "intern", Enabled: true}

	created, err := client.CreateCompany(ctx, req)
	if err != nil || created.ID != 5 {
		t.Fatalf("CreateCompany() = %+v, %v", created, err)
	}
	req.Name = "Acme Corp"
	req.Enabled = false
	if _, err := client.UpdateCompany(ctx, 5, req); err != nil {
		t.Fatalf("UpdateCompany: %v", err)
	}
	if err := client.DeleteCompany(ctx, 5); err != nil {
		t.Fatalf("DeleteCompany: %v", err)
	}

	want := []struct{ method, path string }{
		{http.MethodPost, "/api/companies"},
		{http.MethodPut, "/api/companies/5"},
		{http.MethodDelete, "/api/companies/5"},
	}
	if len(*calls) != len(want) {
		t.Fatalf("got %d calls, want %d", len(*calls), len(want))
	}
	for i, w := range want {
		if got := (*calls)[i]; got.Method != w.method || got.Path != w.path {
			t.Errorf("call %d = %s %s, want %s %s", i, got.Method, got.Path, w.method, w.path)
		}
	}

	var body map[string]interface{}
	if err := json.Unmarshal([]byte((*calls)[1].Body), &body); err != nil {
		t.Fatalf("update body: %v", err)
	}
	for _, key := range []string{"name", "career_url", "search_term", "enabled"} {
		if _, ok := body[key]; !ok {
			t.Errorf("update body missing %q: %v", key, body)
		}
	}
	if body["name"] != "Acme Corp" || body["enabled"] != false {
		t.Errorf("update body = %v", body)
	}
}

func TestGetMetricsAndStats(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/metrics":
			writeJSON(w, http.StatusOK, `{"jobs":{"total":3},"runs":{"total_runs":2,"total_new_jobs_found":4}}`)
		case "/api/stats":
			writeJSON(w, http.StatusOK, `{"total_jobs":3,"notified":1,"by_company":{"A":2,"B":1}}`)
		}
	})
	m, err := client.GetMetrics(context.Background())
	if err != nil || m.Jobs.Total != 3 || m.Runs.TotalNewJobsFound != 4 {
		t.Errorf("GetMetrics() = %+v, %v", m, err)
	}
	s, err := client.GetStats(context.Background())
	if err != nil || s.ByCompany["A"] != 2 || s.Notified != 1 {
		t.Errorf("GetStats() = %+v, %v", s, err)
	}
}

func TestTriggerRefresh(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status":"ok","message":"refresh triggered"}`)
	})
	if err := client.TriggerRefresh(context.Background()); err != nil {
		t.Fatalf("TriggerRefresh: %v", err)
	}
	if got := (*calls)[0]; got.Method != http.MethodPost || got.Path != "/api/refresh" || got.Body != "" {
		t.Errorf("request = %s %s body %q, want POST /api/refresh without body", got.Method, got.Path, got.Body)
	}
}

func TestErrorsAreFetchFailed(t *testing.T) {
	cases := []struct {
		name string
		h    http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"jobs":`)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, calls := newTestClient(t, tc.h)
			_, err := client.ListCompanies(context.Background())
			if !errors.Is(err, api.ErrFetchFailed) {
				t.Errorf("ListCompanies() error = %v, want ErrFetchFailed", err)
			}
			if len(*calls) != 1 {
				t.Errorf("got %d requests, want exactly 1 (no retries)", len(*calls))
			}
		})
	}
}

func TestNetworkErrorIsFetchFailed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client, err := api.NewClient(api.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := client.TriggerRefresh(context.Background()); !errors.Is(err, api.ErrFetchFailed) {
		t.Errorf("TriggerRefresh() error = %v, want ErrFetchFailed", err)
	}
}
