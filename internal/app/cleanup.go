package app

import (
	"context"
	"log/slog"
	"time"
)

type cleanupStep struct {
	name string
	fn   func(context.Context) error
}

// cleanup releases what NewApp acquired, newest first, when a later startup
// step fails.
type cleanup struct {
	logger *slog.Logger
	steps  []cleanupStep
}

func (c *cleanup) add(name string, fn func(context.Context) error) {
	c.steps = append(c.steps, cleanupStep{name: name, fn: fn})
}

func (c *cleanup) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := len(c.steps) - 1; i >= 0; i-- {
		step := c.steps[i]
		if err := step.fn(ctx); err != nil {
			c.logger.Error("startup cleanup failed",
				slog.String("component", step.name),
				slog.String("error", err.Error()),
			)
		}
	}
	c.steps = nil
}
