package main

import (
	"context"
	"os"
	"os/signal"
	"sync"

	storage2md "github.com/alnah/go-storage2md"
)

// notifyContext returns a context canceled by the first interrupt in
// interruptSignals. Documents already converting finish; the rest of the
// batch is reported as canceled. stop releases the signal subscription and
// may be called more than once.
func notifyContext(parent context.Context, logger storage2md.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, interruptSignals...)

	go func() {
		select {
		case sig := <-sigs:
			logger.Warn("interrupted, skipping documents not yet started", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(sigs)
			cancel()
		})
	}
	return ctx, stop
}
