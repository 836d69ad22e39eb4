package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/0x13a/jobdash/internal/company"
	"github.com/0x13a/jobdash/internal/job"
	"github.com/0x13a/jobdash/internal/metrics"
	"github.com/0x13a/jobdash/internal/runlog"

	"github.com/pkg/errors"
)

// ErrFetchFailed is matched by every error the client returns: transport
// failures, non-2xx statuses and undecodable bodies alike.
var ErrFetchFailed = errors.New("fetch failed")

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("api: base url is required")
	}
	u, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "api: parse base url")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: u, httpClient: httpClient}, nil
}

func (c *Client) ListJobs(ctx context.Context) ([]job.Job, error) {
	var jobs []job.Job
	if err := c.do(ctx, http.MethodGet, "/api/jobs", nil, nil, &jobs); err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []job.Job{}
	}
	return jobs, nil
}

func (c *Client) ListCompanies(ctx context.Context) ([]company.Company, error) {
	var companies []company.Company
	if err := c.do(ctx, http.MethodGet, "/api/companies", nil, nil, &companies); err != nil {
		return nil, err
	}
	if companies == nil {
		companies = []company.Company{}
	}
	return companies, nil
}

func (c *Client) CreateCompany(ctx context.Context, req company.Request) (company.Company, error) {
	var created company.Company
	err := c.do(ctx, http.MethodPost, "/api/companies", nil, req, &created)
	return created, err
}

func (c *Client) UpdateCompany(ctx context.Context, id int64, req company.Request) (company.Company, error) {
	var updated company.Company
	err := c.do(ctx, http.MethodPut, companyPath(id), nil, req, &updated)
	return updated, err
}

func (c *Client) DeleteCompany(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, companyPath(id), nil, nil, nil)
}

// ListLogs returns the most recent limit run logs, newest first.
func (c *Client) ListLogs(ctx context.Context, limit int) ([]runlog.RunLog, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var logs []runlog.RunLog
	if err := c.do(ctx, http.MethodGet, "/api/logs", q, nil, &logs); err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []runlog.RunLog{}
	}
	return logs, nil
}

func (c *Client) GetMetrics(ctx context.Context) (metrics.Metrics, error) {
	var m metrics.Metrics
	err := c.do(ctx, http.MethodGet, "/api/metrics", nil, nil, &m)
	return m, err
}

func (c *Client) GetStats(ctx context.Context) (metrics.Stats, error) {
	var s metrics.Stats
	err := c.do(ctx, http.MethodGet, "/api/stats", nil, nil, &s)
	return s, err
}

// TriggerRefresh asks the backend for a scraping pass and waits for it to
// answer.
func (c *Client) TriggerRefresh(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/refresh", nil, nil, nil)
}

func companyPath(id int64) string {
	return "/api/companies/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "api: encode %s %s", method, path)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return errors.Wrapf(err, "api: build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Method: method, Path: path, Err: err}
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &FetchError{Method: method, Path: path, StatusCode: res.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return &FetchError{Method: method, Path: path, StatusCode: res.StatusCode, Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &FetchError{Method: method, Path: path, StatusCode: res.StatusCode, Err: errors.Wrap(err, "decode response")}
	}
	return nil
}
