package metrics

import (
	"time"
)

// Metrics is the aggregate snapshot served by /api/metrics. ByCompany is
// filled when the backend includes it.
type Metrics struct {
	Jobs      JobCounts      `json:"jobs"`
	Companies CompanyCounts  `json:"companies"`
	Runs      RunCounts      `json:"runs"`
	ByCompany map[string]int `json:"by_company,omitempty"`
}

type JobCounts struct {
	Total int `json:"total"`
}

type CompanyCounts struct {
	Total   int `json:"total"`
	Enabled int `json:"enabled"`
}

type RunCounts struct {
	TotalRuns         int     `json:"total_runs"`
	SuccessfulRuns    int     `json:"successful_runs"`
	TotalNewJobsFound int     `json:"total_new_jobs_found"`
	AvgDurationMs     float64 `json:"avg_duration_ms"`
	LastRun           string  `json:"last_run,omitempty"`
}

// Stats is the smaller summary served by /api/stats.
type Stats struct {
	TotalJobs int            `json:"total_jobs"`
	Notified  int            `json:"notified"`
	ByCompany map[string]int `json:"by_company"`
}

// SuccessRate is the share of successful runs in percent, 0 when no run has
// been recorded.
func (r RunCounts) SuccessRate() float64 {
	if r.TotalRuns == 0 {
		return 0
	}
	return float64(r.SuccessfulRuns) / float64(r.TotalRuns) * 100
}

// LastRunAt parses LastRun, which the backend emits in either RFC 3339 or
// sqlite's "2006-01-02 15:04:05" layout.
func (r RunCounts) LastRunAt() (time.Time, bool) {
	if r.LastRun == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, r.LastRun); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
