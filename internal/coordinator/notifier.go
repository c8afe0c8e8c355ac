package coordinator

import "log/slog"

//go:generate mockgen -destination=mocks/mock_notifier.go -package=mocks -source=notifier.go Notifier

// Notifier receives the user-visible notices the coordinator produces.
// Implementations decide how a notice reaches the user (terminal output,
// UI toast, log line).
type Notifier interface {
	// Success reports a user-visible success notice
	Success(message string)

	// Failure reports a user-visible failure notice
	Failure(message string)
}

// slogNotifier is the default Notifier, emitting notices as log records
type slogNotifier struct{}

func (slogNotifier) Success(message string) {
	slog.Info("Notice", "kind", "success", "message", message)
}

func (slogNotifier) Failure(message string) {
	slog.Warn("Notice", "kind", "failure", "message", message)
}
