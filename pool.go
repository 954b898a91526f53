package storage2md

import "runtime"

// Worker count bounds for ConvertBatch.
const (
	// MinWorkers ensures at least one worker is available.
	MinWorkers = 1

	// MaxWorkers caps the automatic worker count.
	MaxWorkers = 8

	// cpuDivisor leaves headroom for the caller's own I/O.
	cpuDivisor = 2
)

// ResolveWorkers determines the worker count for a batch.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs in containers.
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	return min(max(n, MinWorkers), MaxWorkers)
}
