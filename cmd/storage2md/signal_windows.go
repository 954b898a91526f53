//go:build windows

package main

import "os"

// Only os.Interrupt is delivered on Windows.
var interruptSignals = []os.Signal{os.Interrupt}
