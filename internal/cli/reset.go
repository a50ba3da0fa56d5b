package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
)

// ResetRunCmd runs the midnight completion-reset loop until
// interrupted. Deployments run this as a sidecar process next to
// whatever serves requests.
type ResetRunCmd struct{}

func (c *ResetRunCmd) Run(appCtx *Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Completion reset scheduler running (Ctrl-C to stop)")
	if err := appCtx.Resetter.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// ResetOnceCmd performs a single tick, useful for cron-driven setups
// and for poking a reset by hand.
type ResetOnceCmd struct{}

func (c *ResetOnceCmd) Run(appCtx *Context) error {
	return appCtx.Resetter.Tick(context.Background())
}
