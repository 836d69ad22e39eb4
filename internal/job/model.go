package job

import (
	"time"
)

const (
	// AllCompanies is the filter value that selects every job.
	AllCompanies = ""
)

type Job struct {
	ID           int64     `json:"id"`
	Company      string    `json:"company"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Location     string    `json:"location,omitempty"`
	DiscoveredAt time.Time `json:"discovered_at"`
	Notified     bool      `json:"notified"`
}

// CompanyCount is one row of the jobs-by-company chart.
type CompanyCount struct {
	Company string
	Count   int
}
