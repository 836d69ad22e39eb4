package runlog

import (
	"time"

	"github.com/aclements/go-moremath/stats"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type RunLog struct {
	ID                int64     `json:"id"`
	RunAt             time.Time `json:"run_at"`
	CompaniesChecked  int       `json:"companies_checked"`
	JobsFound         int       `json:"jobs_found"`
	NewJobs           int       `json:"new_jobs"`
	NotificationsSent int       `json:"notifications_sent"`
	DurationMs        int64     `json:"duration_ms"`
	Status            Status    `json:"status"`
	ErrorMessage      string    `json:"error_message,omitempty"`
}

func (l RunLog) Succeeded() bool {
	return l.Status == StatusSuccess
}

func (l RunLog) Duration() time.Duration {
	return time.Duration(l.DurationMs) * time.Millisecond
}

// DurationSummary describes the run durations of a set of logs.
type DurationSummary struct {
	Runs int
	Mean time.Duration
	Min  time.Duration
	Max  time.Duration
}

func SummarizeDurations(logs []RunLog) DurationSummary {
	if len(logs) == 0 {
		return DurationSummary{}
	}
	var sample stats.Sample
	for _, l := range logs {
		sample.Xs = append(sample.Xs, float64(l.DurationMs))
	}
	min, max := sample.Bounds()
	return DurationSummary{
		Runs: len(logs),
		Mean: msToDuration(sample.Mean()),
		Min:  msToDuration(min),
		Max:  msToDuration(max),
	}
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond)).Round(time.Millisecond)
}
