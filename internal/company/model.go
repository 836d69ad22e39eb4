package company

import (
	"time"
)

const (
	// DefaultSearchTerm is used when a new company is created without one.
	DefaultSearchTerm = "intern"
)

type Company struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	CareerURL  string    `json:"career_url"`
	SearchTerm string    `json:"search_term"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// Request is the body of a create or update call.
type Request struct {
	Name       string `json:"name" validate:"required,max=200"`
	CareerURL  string `json:"career_url" validate:"required,url,max=2048"`
	SearchTerm string `json:"search_term" validate:"max=200"`
	Enabled    bool   `json:"enabled"`
}

func (c Company) Request() Request {
	return Request{
		Name:       c.Name,
		CareerURL:  c.CareerURL,
		SearchTerm: c.SearchTerm,
		Enabled:    c.Enabled,
	}
}

func FindByID(companies []Company, id int64) (Company, bool) {
	for _, c := range companies {
		if c.ID == id {
			return c, true
		}
	}
	return Company{}, false
}
