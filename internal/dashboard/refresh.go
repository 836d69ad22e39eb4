package dashboard

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

var (
	ErrBusy        = errors.New("a refresh is already running")
	ErrCoolingDown = errors.New("refresh was triggered too recently")
)

const (
	refreshLabel     = "Refresh Jobs"
	refreshBusyLabel = "Refreshing..."
)

type RefreshButton struct {
	Label    string
	Disabled bool
}

// Refresher tracks the refresh control. The control is busy from the moment
// Run starts until trigger and reload have both returned.
type Refresher struct {
	busy    atomic.Bool
	limiter *rate.Limiter
}

// NewRefresher returns a Refresher; a positive cooldown limits refreshes to
// one per cooldown.
func NewRefresher(cooldown time.Duration) *Refresher {
	r := &Refresher{}
	if cooldown > 0 {
		r.limiter = rate.NewLimiter(rate.Every(cooldown), 1)
	}
	return r
}

func (r *Refresher) Busy() bool {
	return r.busy.Load()
}

func (r *Refresher) Button() RefreshButton {
	if r.Busy() {
		return RefreshButton{Label: refreshBusyLabel, Disabled: true}
	}
	return RefreshButton{Label: refreshLabel}
}

func (r *Refresher) Run(ctx context.Context, trigger, reload func(ctx context.Context) error) error {
	if !r.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer r.busy.Store(false)

	if r.limiter != nil && !r.limiter.Allow() {
		return ErrCoolingDown
	}
	if err := trigger(ctx); err != nil {
		return errors.Wrap(err, "refresh failed")
	}
	if err := reload(ctx); err != nil {
		return errors.Wrap(err, "reload after refresh failed")
	}
	return nil
}
