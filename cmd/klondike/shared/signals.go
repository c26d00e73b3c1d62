package shared

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

// SetupSignalHandler returns a context that is cancelled on the first
// interrupt or SIGTERM. A second signal exits immediately.
func SetupSignalHandler(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, shutting down gracefully", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			return
		}

		if sig, ok := <-sigChan; ok {
			logger.Warn("Received second signal, exiting", "signal", sig.String())
			os.Exit(1)
		}
	}()

	return ctx, cancel
}
