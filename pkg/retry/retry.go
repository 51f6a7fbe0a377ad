package retry

import (
	"context"
	"math/rand"
	"time"
)

// Config controls the backoff schedule.
type Config struct {
	Attempts     int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Factor       float64
	Jitter       time.Duration
}

// Quick is tuned for best-effort side calls: a couple of fast attempts,
// then give up and let the caller swallow the error.
func Quick() Config {
	return Config{
		Attempts:     3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Factor:       2.0,
		Jitter:       50 * time.Millisecond,
	}
}

// Do runs op until it succeeds, attempts are exhausted, or the context is
// cancelled. The last error is returned.
func Do(ctx context.Context, cfg Config, op func() error) error {
	delay := cfg.InitialDelay
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	var err error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if attempt == cfg.Attempts {
			return err
		}

		wait := delay + time.Duration(rnd.Float64()*float64(cfg.Jitter))
		if wait > cfg.MaxDelay {
			wait = cfg.MaxDelay
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * cfg.Factor)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return err
}
