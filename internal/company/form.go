package company

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Form is the company modal as submitted by the browser. ID is empty when the
// modal was opened in create mode.
type Form struct {
	ID         string
	Name       string
	CareerURL  string
	SearchTerm string
	Enabled    bool
}

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

var (
	validate = validator.New()
	strict   = bluemonday.StrictPolicy()
)

func FormFromValues(v url.Values) Form {
	enabled := false
	switch strings.ToLower(v.Get("enabled")) {
	case "on", "true", "1", "yes":
		enabled = true
	}
	return Form{
		ID:         strings.TrimSpace(v.Get("id")),
		Name:       v.Get("name"),
		CareerURL:  v.Get("career_url"),
		SearchTerm: v.Get("search_term"),
		Enabled:    enabled,
	}
}

func FormFromCompany(c Company) Form {
	return Form{
		ID:         strconv.FormatInt(c.ID, 10),
		Name:       c.Name,
		CareerURL:  c.CareerURL,
		SearchTerm: c.SearchTerm,
		Enabled:    c.Enabled,
	}
}

func (f Form) IsEdit() bool {
	return f.ID != ""
}

func (f Form) CompanyID() (int64, error) {
	id, err := strconv.ParseInt(f.ID, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ValidationError{Field: "id", Message: "is not a valid company id"}
	}
	return id, nil
}

// Request strips markup from the text fields and validates the result.
func (f Form) Request() (Request, error) {
	req := Request{
		Name:       clean(f.Name),
		CareerURL:  strings.TrimSpace(f.CareerURL),
		SearchTerm: clean(f.SearchTerm),
		Enabled:    f.Enabled,
	}
	if !f.IsEdit() && req.SearchTerm == "" {
		req.SearchTerm = DefaultSearchTerm
	}
	if err := validate.Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return req, &ValidationError{Field: fieldName(fe.Field()), Message: messageFor(fe.Tag())}
		}
		return req, err
	}
	u, err := url.Parse(req.CareerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return req, &ValidationError{Field: "career_url", Message: "must be an http or https address"}
	}
	return req, nil
}

// clean drops any tags and decodes the entities bluemonday leaves behind, the
// templates escape on output.
func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

func fieldName(f string) string {
	switch f {
	case "CareerURL":
		return "career_url"
	case "SearchTerm":
		return "search_term"
	}
	return strings.ToLower(f)
}

func messageFor(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "max":
		return "is too long"
	}
	return fmt.Sprintf("failed on '%s' validation", tag)
}
