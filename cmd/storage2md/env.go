package main

import (
	"io"
	"os"
	"time"

	storage2md "github.com/alnah/go-storage2md"
	"github.com/alnah/go-storage2md/internal/assets"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	Styles      assets.StyleLoader       // nil = resolved from assets.basePath
	Logger      storage2md.Logger        // nil = console logger built from flags
	AdjustProcs func(storage2md.Logger) // nil = leave GOMAXPROCS alone
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		AdjustProcs: setMaxProcs,
	}
}
