package geoquiz

import (
	"log/slog"

	"github.com/google/uuid"
)

// RepositoryOptions configures the repositories.
type RepositoryOptions struct {
	Tick   Clock         // Function to get current time for timestamps
	NewID  func() string // Identifier generator
	Logger *slog.Logger  // Logger for best-effort failures
}

func newRepositoryOptions(opts ...func(*RepositoryOptions)) RepositoryOptions {
	options := RepositoryOptions{
		Tick:   DefaultClock,
		NewID:  uuid.NewString,
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// WithClock sets the clock used for creation timestamps.
func WithClock(tick Clock) func(*RepositoryOptions) {
	return func(o *RepositoryOptions) {
		o.Tick = tick
	}
}

// WithIDGenerator sets the identifier generator.
func WithIDGenerator(newID func() string) func(*RepositoryOptions) {
	return func(o *RepositoryOptions) {
		o.NewID = newID
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) func(*RepositoryOptions) {
	return func(o *RepositoryOptions) {
		o.Logger = logger
	}
}

func (o RepositoryOptions) marshalOptions(mo *MarshalOptions) {
	mo.Tick = o.Tick
}
