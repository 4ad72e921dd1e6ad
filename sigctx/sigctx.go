// Package sigctx provides a context that is canceled on SIGINT or SIGTERM.
package sigctx

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// New returns a context canceled by the first interrupt or termination
// signal. A second signal falls through to the default handler and kills the
// process.
func New() context.Context {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx
}
