package ports

// Logger defines the interface for logging.
//
//go:generate go run go.uber.org/mock/mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Info and Warn accept slog-style key/value pairs.
	Info(msg string, attrs ...any)
	Warn(msg string, attrs ...any)
	Error(err error)
}
