package graceful

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

// WithSignals returns a copy of ctx that is cancelled on SIGINT or SIGTERM.
// The returned cancel func also stops signal delivery.
func WithSignals(ctx context.Context, logger logrus.FieldLogger) (context.Context, context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(ctx)
	go watch(ctx, cancel, sigCh, logger)

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

func watch(ctx context.Context, cancel context.CancelFunc, sigCh <-chan os.Signal, logger logrus.FieldLogger) {
	select {
	case sig := <-sigCh:
		logger.Infof("received exit signal: %v", sig)
		cancel()
	case <-ctx.Done():
	}
}
