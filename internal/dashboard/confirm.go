package dashboard

import (
	"context"
	"strconv"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

var ErrNotConfirmed = errors.New("delete not confirmed")

type CompanyDeleter interface {
	DeleteCompany(ctx context.Context, id int64) error
}

// Confirmations holds one-shot tokens that tie a delete confirmation dialog to
// the company it was opened for.
type Confirmations struct {
	cache *bigcache.BigCache
}

func NewConfirmations(ctx context.Context, ttl time.Duration) (*Confirmations, error) {
	cfg := bigcache.DefaultConfig(ttl)
	cfg.Shards = 16
	cfg.MaxEntriesInWindow = 1024
	cfg.CleanWindow = time.Minute
	cfg.Verbose = false
	cache, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to initialise confirmation cache")
	}
	return &Confirmations{cache: cache}, nil
}

// Request issues a token confirming the deletion of company id.
func (c *Confirmations) Request(id int64) (string, error) {
	token := ksuid.New().String()
	if err := c.cache.Set(token, []byte(strconv.FormatInt(id, 10))); err != nil {
		return "", errors.Wrap(err, "unable to store confirmation token")
	}
	return token, nil
}

// consume reports whether token was issued for id. The token is removed
// either way.
func (c *Confirmations) consume(token string, id int64) bool {
	if token == "" {
		return false
	}
	val, err := c.cache.Get(token)
	if err != nil {
		return false
	}
	_ = c.cache.Delete(token)
	return string(val) == strconv.FormatInt(id, 10)
}

// Delete issues exactly one DeleteCompany call when the user confirmed the
// dialog opened for id, and none otherwise.
func (c *Confirmations) Delete(ctx context.Context, d CompanyDeleter, id int64, token string, confirmed bool) error {
	valid := c.consume(token, id)
	if !confirmed || !valid {
		return ErrNotConfirmed
	}
	return d.DeleteCompany(ctx, id)
}

func (c *Confirmations) Close() error {
	return c.cache.Close()
}
