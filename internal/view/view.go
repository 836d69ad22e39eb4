// Package view turns snapshot collections into the models the templates
// render. Every function is pure: inputs are never modified.
package view

import (
	"math"
	"strconv"
	"time"

	"github.com/0x13a/jobdash/internal/company"
	"github.com/0x13a/jobdash/internal/job"
	"github.com/0x13a/jobdash/internal/metrics"
	"github.com/0x13a/jobdash/internal/runlog"

	"github.com/gosimple/slug"
)

const notAvailable = "N/A"

type FilterOption struct {
	Value    string
	Label    string
	Selected bool
}

type JobRow struct {
	Company      string
	CompanyClass string
	Title        string
	Location     string
	URL          string
	DiscoveredAt time.Time
	Notified     bool
}

type JobsView struct {
	Rows    []JobRow
	Options []FilterOption
	Filter  string
	Total   int
	Empty   bool
}

// Jobs renders the jobs table for the given company filter. Filter options
// always come from the full snapshot.
func Jobs(jobs []job.Job, filter string) JobsView {
	options := []FilterOption{{Value: job.AllCompanies, Label: "All Companies", Selected: filter == job.AllCompanies}}
	for _, c := range job.Companies(jobs) {
		options = append(options, FilterOption{Value: c, Label: c, Selected: c == filter})
	}
	filtered := job.FilterByCompany(jobs, filter)
	rows := make([]JobRow, 0, len(filtered))
	for _, j := range filtered {
		loc := j.Location
		if loc == "" {
			loc = notAvailable
		}
		rows = append(rows, JobRow{
			Company:      j.Company,
			CompanyClass: slug.Make(j.Company),
			Title:        j.Title,
			Location:     loc,
			URL:          j.URL,
			DiscoveredAt: j.DiscoveredAt,
			Notified:     j.Notified,
		})
	}
	return JobsView{
		Rows:    rows,
		Options: options,
		Filter:  filter,
		Total:   len(jobs),
		Empty:   len(rows) == 0,
	}
}

type CompanyCard struct {
	ID         int64
	Name       string
	CareerURL  string
	SearchTerm string
	Enabled    bool
	EditURL    string
	DeleteURL  string
}

type CompaniesView struct {
	Cards []CompanyCard
	Empty bool
}

func Companies(companies []company.Company) CompaniesView {
	cards := make([]CompanyCard, 0, len(companies))
	for _, c := range companies {
		id := strconv.FormatInt(c.ID, 10)
		cards = append(cards, CompanyCard{
			ID:         c.ID,
			Name:       c.Name,
			CareerURL:  c.CareerURL,
			SearchTerm: c.SearchTerm,
			Enabled:    c.Enabled,
			EditURL:    "/companies/" + id + "/edit",
			DeleteURL:  "/companies/" + id + "/delete",
		})
	}
	return CompaniesView{Cards: cards, Empty: len(cards) == 0}
}

type LogRow struct {
	RunAt             time.Time
	CompaniesChecked  int
	JobsFound         int
	NewJobs           int
	NotificationsSent int
	Duration          time.Duration
	Status            string
	Success           bool
	Error             string
}

type LogsView struct {
	Rows  []LogRow
	Empty bool
}

func Logs(logs []runlog.RunLog) LogsView {
	rows := make([]LogRow, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, LogRow{
			RunAt:             l.RunAt,
			CompaniesChecked:  l.CompaniesChecked,
			JobsFound:         l.JobsFound,
			NewJobs:           l.NewJobs,
			NotificationsSent: l.NotificationsSent,
			Duration:          l.Duration(),
			Status:            string(l.Status),
			Success:           l.Succeeded(),
			Error:             l.ErrorMessage,
		})
	}
	return LogsView{Rows: rows, Empty: len(rows) == 0}
}

type MetricsView struct {
	TotalJobs        int
	Notified         int
	TrackedCompanies int
	EnabledCompanies int
	TotalRuns        int
	SuccessRate      float64
	NewJobsFound     int
	AvgDuration      time.Duration
	Recent           runlog.DurationSummary
	LastRun          time.Time
	HasLastRun       bool
}

// Metrics combines the server-side counters with figures derived from the job
// and log snapshots.
func Metrics(m metrics.Metrics, jobs []job.Job, logs []runlog.RunLog) MetricsView {
	tracked := m.Companies.Total
	if tracked == 0 {
		tracked = len(m.ByCompany)
	}
	lastRun, ok := m.Runs.LastRunAt()
	return MetricsView{
		TotalJobs:        m.Jobs.Total,
		Notified:         job.CountNotified(jobs),
		TrackedCompanies: tracked,
		EnabledCompanies: m.Companies.Enabled,
		TotalRuns:        m.Runs.TotalRuns,
		SuccessRate:      round1(m.Runs.SuccessRate()),
		NewJobsFound:     m.Runs.TotalNewJobsFound,
		AvgDuration:      time.Duration(m.Runs.AvgDurationMs * float64(time.Millisecond)).Round(time.Millisecond),
		Recent:           runlog.SummarizeDurations(logs),
		LastRun:          lastRun,
		HasLastRun:       ok,
	}
}

type Bar struct {
	Company string
	Count   int
	Width   float64
}

type ChartView struct {
	Bars  []Bar
	Empty bool
}

// CompanyChart groups jobs by company, largest first. The largest bar is 100%
// wide and the others are scaled against it.
func CompanyChart(jobs []job.Job) ChartView {
	counts := job.CountByCompany(jobs)
	if len(counts) == 0 {
		return ChartView{Bars: []Bar{}, Empty: true}
	}
	max := counts[0].Count
	bars := make([]Bar, 0, len(counts))
	for _, c := range counts {
		bars = append(bars, Bar{
			Company: c.Company,
			Count:   c.Count,
			Width:   round1(float64(c.Count) / float64(max) * 100),
		})
	}
	return ChartView{Bars: bars}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
