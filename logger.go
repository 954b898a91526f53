package storage2md

// Logger receives per-document diagnostics. Arguments after msg are
// key-value pairs. The glog loggers of github.com/goliatone/go-logger
// satisfy it, as does a thin wrapper over log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// nopLogger is the default: the library is silent unless asked.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
