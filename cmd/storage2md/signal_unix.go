//go:build !windows

package main

import (
	"os"
	"syscall"
)

// SIGHUP is included so a closed terminal stops a long batch cleanly.
var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
