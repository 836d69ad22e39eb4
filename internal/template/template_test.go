package template_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/0x13a/jobdash/internal/company"
	"github.com/0x13a/jobdash/internal/dashboard"
	"github.com/0x13a/jobdash/internal/job"
	"github.com/0x13a/jobdash/internal/metrics"
	"github.com/0x13a/jobdash/internal/runlog"
	"github.com/0x13a/jobdash/internal/template"
	"github.com/0x13a/jobdash/internal/view"

	"github.com/PuerkitoBio/goquery"
)

const script = `<script>alert("x")</script>`

func render(t *testing.T, name string, data interface{}) (*goquery.Document, string) {
	t.Helper()
	var buf bytes.Buffer
	if err := template.NewTemplate().Execute(&buf, name, data); err != nil {
		t.Fatalf("Execute(%s): %v", name, err)
	}
	html := buf.String()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	return doc, html
}

func TestEmptyStates(t *testing.T) {
	cases := []struct {
		name     string
		template string
		data     interface{}
		rows     string
	}{
		{"jobs", "jobs-table", view.Jobs(nil, job.AllCompanies), "#jobs-tbody tr"},
		{"companies", "companies-grid", view.Companies(nil), ".company-card"},
		{"logs", "logs-table", view.Logs(nil), "#logs-tbody tr"},
		{"chart", "company-chart", view.CompanyChart(nil), ".bar-row"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, html := render(t, tc.template, tc.data)
			if doc.Find(".empty-state").Length() != 1 {
				t.Errorf("%s: missing empty-state markup:\n%s", tc.template, html)
			}
			if tc.name == "jobs" || tc.name == "logs" {
				// the only row is the placeholder
				if n := doc.Find(tc.rows).Length(); n != 1 {
					t.Errorf("%s: got %d rows, want only the placeholder", tc.template, n)
				}
				return
			}
			if n := doc.Find(tc.rows).Length(); n != 0 {
				t.Errorf("%s: got %d items, want 0", tc.template, n)
			}
		})
	}
}

func TestJobsTable_Rows(t *testing.T) {
	when := time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC)
	jobs := []job.Job{
		{ID: 1, Company: "Acme", Title: "Go Intern", URL: "https://acme.test/1", DiscoveredAt: when, Notified: true},
		{ID: 2, Company: "Other", Title: "Data Intern", URL: "https://other.test/2"},
	}
	doc, _ := render(t, "jobs-table", view.Jobs(jobs, "Acme"))

	rows := doc.Find("#jobs-tbody tr")
	if rows.Length() != 1 {
		t.Fatalf("got %d rows, want 1", rows.Length())
	}
	if doc.Find(".empty-state").Length() != 0 {
		t.Error("non-empty table should not show the empty state")
	}
	if got := rows.Find(".job-title").Text(); got != "Go Intern" {
		t.Errorf("title = %q", got)
	}
	if !rows.Find(".company-badge").HasClass("acme") {
		t.Error("company badge should carry the slug class")
	}
	if !rows.Find(".status-badge").HasClass("notified") {
		t.Error("notified job should show the notified badge")
	}
	if href, _ := rows.Find("a.btn-apply").Attr("href"); href != "https://acme.test/1" {
		t.Errorf("apply href = %q", href)
	}
	if got := rows.Find("time").Text(); got != "May 4, 03:30 PM" {
		t.Errorf("date = %q", got)
	}
}

func TestScriptIsEscaped(t *testing.T) {
	jobs := []job.Job{{Company: script, Title: script, Location: script, URL: "javascript:alert(1)"}}
	companies := []company.Company{{ID: 1, Name: script, SearchTerm: script, CareerURL: script}}
	logs := []runlog.RunLog{{Status: runlog.StatusError, ErrorMessage: script}}

	cases := []struct {
		template string
		data     interface{}
	}{
		{"jobs-table", view.Jobs(jobs, job.AllCompanies)},
		{"companies-grid", view.Companies(companies)},
		{"logs-table", view.Logs(logs)},
		{"company-chart", view.CompanyChart(jobs)},
	}
	for _, tc := range cases {
		t.Run(tc.template, func(t *testing.T) {
			doc, html := render(t, tc.template, tc.data)
			if doc.Find("script").Length() != 0 {
				t.Errorf("%s rendered a script element:\n%s", tc.template, html)
			}
			if strings.Contains(html, "<script>") {
				t.Errorf("%s contains raw <script>:\n%s", tc.template, html)
			}
			if tc.template != "logs-table" && !strings.Contains(doc.Text(), `<script>alert("x")</script>`) {
				t.Errorf("%s should show the text literally:\n%s", tc.template, html)
			}
		})
	}

	doc, _ := render(t, "jobs-table", view.Jobs(jobs, job.AllCompanies))
	if href, _ := doc.Find("a.btn-apply").Attr("href"); strings.HasPrefix(href, "javascript:") {
		t.Errorf("unsafe href kept: %q", href)
	}
}

func TestCompanyChart_Widths(t *testing.T) {
	doc, _ := render(t, "company-chart", view.CompanyChart([]job.Job{{Company: "A"}, {Company: "A"}, {Company: "B"}}))
	rows := doc.Find(".bar-row")
	if rows.Length() != 2 {
		t.Fatalf("got %d bars, want 2", rows.Length())
	}
	want := []struct{ label, count, style string }{
		{"A", "2", "width: 100%"},
		{"B", "1", "width: 50%"},
	}
	rows.Each(func(i int, s *goquery.Selection) {
		style, _ := s.Find(".bar").Attr("style")
		if s.Find(".bar-label").Text() != want[i].label || s.Find(".bar-value").Text() != want[i].count || style != want[i].style {
			t.Errorf("bar %d = %s(%s) %q, want %+v", i, s.Find(".bar-label").Text(), s.Find(".bar-value").Text(), style, want[i])
		}
	})
}

func TestMetrics(t *testing.T) {
	m := metrics.Metrics{
		Jobs: metrics.JobCounts{Total: 1200},
		Runs: metrics.RunCounts{TotalRuns: 4, SuccessfulRuns: 3, AvgDurationMs: 2500},
	}
	doc, _ := render(t, "metrics", view.Metrics(m, []job.Job{{Notified: true}}, nil))
	checks := map[string]string{
		"#total-jobs":    "1,200",
		"#notified-jobs": "1",
		"#total-runs":    "4",
		"#success-rate":  "75%",
		"#avg-duration":  "2.5s",
		"#last-run":      "Never",
	}
	for sel, want := range checks {
		if got := strings.TrimSpace(doc.Find(sel).Text()); got != want {
			t.Errorf("%s = %q, want %q", sel, got, want)
		}
	}
}

func TestCompanyModal(t *testing.T) {
	create, _ := dashboard.OpenCompanyModal(nil, "")
	doc, _ := render(t, "company-modal", create)
	if id, _ := doc.Find(`input[name="id"]`).Attr("value"); id != "" {
		t.Errorf("create modal id = %q, want empty", id)
	}
	if doc.Find("#modal-title").Text() != "Add Company" {
		t.Errorf("create title = %q", doc.Find("#modal-title").Text())
	}

	edit, err := dashboard.OpenCompanyModal([]company.Company{{ID: 8, Name: "Acme", CareerURL: "https://acme.test", SearchTerm: "intern"}}, "8")
	if err != nil {
		t.Fatalf("OpenCompanyModal: %v", err)
	}
	doc, _ = render(t, "company-modal", edit)
	if id, _ := doc.Find(`input[name="id"]`).Attr("value"); id != "8" {
		t.Errorf("edit modal id = %q, want 8", id)
	}
	if name, _ := doc.Find(`input[name="name"]`).Attr("value"); name != "Acme" {
		t.Errorf("edit modal name = %q, want Acme", name)
	}
	if _, checked := doc.Find(`input[name="enabled"]`).Attr("checked"); checked {
		t.Error("disabled company should render an unchecked box")
	}
}

func TestDashboardPage(t *testing.T) {
	tabs := dashboard.DefaultTabs().Select(dashboard.TabCompanies)
	data := map[string]interface{}{
		"SiteName":  "Tracker",
		"Tabs":      tabs,
		"Refresh":   dashboard.RefreshButton{Label: "Refreshing...", Disabled: true},
		"Toasts":    []struct{ Kind, Message string }{{"error", "Failed to load data"}},
		"LoadedAt":  time.Time{},
		"Jobs":      view.Jobs(nil, job.AllCompanies),
		"Companies": view.Companies(nil),
		"Logs":      view.Logs(nil),
		"Metrics":   view.Metrics(metrics.Metrics{}, nil, nil),
		"Chart":     view.CompanyChart(nil),
	}
	doc, html := render(t, "dashboard.html", data)

	if doc.Find(".tab-btn.active").Length() != 1 || doc.Find(".tab-content.active").Length() != 1 {
		t.Errorf("want exactly one active tab and panel:\n%s", html)
	}
	if id, _ := doc.Find(".tab-content.active").Attr("id"); id != "companies-tab" {
		t.Errorf("active panel = %q, want companies-tab", id)
	}
	btn := doc.Find("#refresh-btn")
	if _, disabled := btn.Attr("disabled"); !disabled || btn.Text() != "Refreshing..." {
		t.Errorf("refresh button = %q disabled=%v", btn.Text(), disabled)
	}
	if doc.Find(".toast.error").Text() != "Failed to load data" {
		t.Errorf("toast = %q", doc.Find(".toast.error").Text())
	}
	if doc.Find("#company-modal").Length() != 0 || doc.Find("#confirm-modal").Length() != 0 {
		t.Error("modals should be closed by default")
	}
}
