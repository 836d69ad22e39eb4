package company

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// PageCheck is the result of fetching a company's career page.
type PageCheck struct {
	Company    Company
	StatusCode int
	Title      string
	Mentions   int // case-insensitive occurrences of the search term in the page text
	Err        error
}

func (p PageCheck) Reachable() bool {
	return p.Err == nil && p.StatusCode == http.StatusOK
}

// PageChecker fetches career pages, rate limited per host so companies
// sharing an ATS are not hammered.
type PageChecker struct {
	client *http.Client
	mu     sync.Mutex
	hosts  map[string]*rate.Limiter
	limit  rate.Limit
	burst  int
}

func NewPageChecker(client *http.Client, reqPerSec float64, burst int) *PageChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return &PageChecker{
		client: client,
		hosts:  make(map[string]*rate.Limiter),
		limit:  rate.Limit(reqPerSec),
		burst:  burst,
	}
}

func (pc *PageChecker) limiterFor(host string) *rate.Limiter {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if lim, ok := pc.hosts[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(pc.limit, pc.burst)
	pc.hosts[host] = lim
	return lim
}

func (pc *PageChecker) Check(ctx context.Context, c Company) PageCheck {
	res := PageCheck{Company: c}
	u, err := url.Parse(c.CareerURL)
	if err != nil || u.Host == "" {
		res.Err = errors.Errorf("invalid career url %q", c.CareerURL)
		return res
	}
	if err := pc.limiterFor(u.Host).Wait(ctx); err != nil {
		res.Err = errors.Wrap(err, "rate limiter")
		return res
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.CareerURL, nil)
	if err != nil {
		res.Err = errors.Wrap(err, "build request")
		return res
	}
	resp, err := pc.client.Do(req)
	if err != nil {
		res.Err = errors.Wrapf(err, "GET %s", c.CareerURL)
		return res
	}
	defer resp.Body.Close()
	res.StatusCode = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		res.Err = fmt.Errorf("GET %s: status code error: %d %s", c.CareerURL, resp.StatusCode, resp.Status)
		return res
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		res.Err = errors.Wrap(err, "parse career page")
		return res
	}
	res.Title = strings.TrimSpace(doc.Find("title").First().Text())
	term := strings.ToLower(strings.TrimSpace(c.SearchTerm))
	if term == "" {
		term = DefaultSearchTerm
	}
	doc.Find("script, style, noscript").Remove()
	res.Mentions = strings.Count(strings.ToLower(doc.Find("body").Text()), term)
	return res
}
