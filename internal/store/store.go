package store

import (
	"context"
	"sync"
	"time"

	"github.com/0x13a/jobdash/internal/company"
	"github.com/0x13a/jobdash/internal/job"
	"github.com/0x13a/jobdash/internal/metrics"
	"github.com/0x13a/jobdash/internal/runlog"

	"golang.org/x/sync/errgroup"
)

// Snapshot is the full, unfiltered result of the last successful load.
type Snapshot struct {
	Jobs      []job.Job
	Companies []company.Company
	Logs      []runlog.RunLog
	Metrics   metrics.Metrics
	LoadedAt  time.Time
}

// Store holds the last snapshot. Collections are only ever replaced whole.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

func New() *Store {
	return &Store{snap: Snapshot{
		Jobs:      []job.Job{},
		Companies: []company.Company{},
		Logs:      []runlog.RunLog{},
	}}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Store) Replace(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *Store) ReplaceCompanies(companies []company.Company) {
	s.mu.Lock()
	s.snap.Companies = companies
	s.mu.Unlock()
}

// Fetcher is the read side of the API client.
type Fetcher interface {
	ListJobs(ctx context.Context) ([]job.Job, error)
	ListCompanies(ctx context.Context) ([]company.Company, error)
	ListLogs(ctx context.Context, limit int) ([]runlog.RunLog, error)
	GetMetrics(ctx context.Context) (metrics.Metrics, error)
}

type Loader struct {
	fetcher   Fetcher
	store     *Store
	logsLimit int
	now       func() time.Time
}

func NewLoader(f Fetcher, s *Store, logsLimit int) *Loader {
	return &Loader{fetcher: f, store: s, logsLimit: logsLimit, now: time.Now}
}

func (l *Loader) Store() *Store {
	return l.store
}

// Load fetches all four collections concurrently and replaces the snapshot
// only when every fetch succeeded. On error the previous snapshot is kept.
func (l *Loader) Load(ctx context.Context) (Snapshot, error) {
	var (
		next Snapshot
		g    errgroup.Group
	)
	g.Go(func() error {
		jobs, err := l.fetcher.ListJobs(ctx)
		next.Jobs = jobs
		return err
	})
	g.Go(func() error {
		companies, err := l.fetcher.ListCompanies(ctx)
		next.Companies = companies
		return err
	})
	g.Go(func() error {
		logs, err := l.fetcher.ListLogs(ctx, l.logsLimit)
		next.Logs = logs
		return err
	})
	g.Go(func() error {
		m, err := l.fetcher.GetMetrics(ctx)
		next.Metrics = m
		return err
	})
	if err := g.Wait(); err != nil {
		return l.store.Snapshot(), err
	}
	next.LoadedAt = l.now()
	l.store.Replace(next)
	return next, nil
}

// ReloadCompanies refetches the companies collection after a mutation.
func (l *Loader) ReloadCompanies(ctx context.Context) ([]company.Company, error) {
	companies, err := l.fetcher.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	l.store.ReplaceCompanies(companies)
	return companies, nil
}
