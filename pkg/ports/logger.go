package ports

// Logger is the logging channel handed to every module.
// args are slog-style key/value pairs.
type Logger interface {
	Status(msg string, args ...any)
	Warning(msg string, args ...any)
	Error(msg string, args ...any)
}
