package main

import (
	"fmt"

	glog "github.com/goliatone/go-logger/glog"
	"go.uber.org/automaxprocs/maxprocs"

	storage2md "github.com/alnah/go-storage2md"
)

// loggerName names the CLI child logger.
const loggerName = "storage2md.cli"

// newLogger builds the console logger for diagnostics. Result lines for the
// user are printed separately, so by default only errors are logged.
func newLogger(verbose, quiet bool) storage2md.Logger {
	level := glog.Error
	switch {
	case verbose:
		level = glog.Debug
	case quiet:
		level = glog.Fatal
	}

	root := glog.NewLogger(
		glog.WithLevel(level),
		glog.WithLoggerTypeConsole(),
	)
	return root.GetLogger(loggerName)
}

// setMaxProcs matches GOMAXPROCS to the container CPU quota.
func setMaxProcs(logger storage2md.Logger) {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))
}
