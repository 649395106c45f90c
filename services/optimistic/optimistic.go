// Package optimistic runs a write whose effect is shown before the write is
// confirmed, undoing it locally when the write fails.
package optimistic

import "context"

// Command is one optimistic update. Apply changes local state right away,
// Write performs the remote call and Compensate reverts Apply. Compensate
// runs only when Write returns an error.
type Command struct {
	Apply      func()
	Write      func(ctx context.Context) error
	Compensate func()
}

// Run applies, writes and compensates on failure. The write error is
// returned unchanged.
func (c Command) Run(ctx context.Context) error {
	if c.Apply != nil {
		c.Apply()
	}
	err := c.Write(ctx)
	if err != nil && c.Compensate != nil {
		c.Compensate()
	}
	return err
}
