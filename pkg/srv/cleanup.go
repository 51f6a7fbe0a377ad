package srv

import "context"

type cleanupService struct {
	cleanup func() error
}

func (c *cleanupService) Start(ctx context.Context) error {
	return nil
}

func (c *cleanupService) Shutdown(ctx context.Context) error {
	if c.cleanup != nil {
		return c.cleanup()
	}
	return nil
}

// NewCleanup wraps a teardown function as a Service so resources close in
// the same shutdown pass as everything else.
func NewCleanup(fn func() error) Service {
	return &cleanupService{cleanup: fn}
}
