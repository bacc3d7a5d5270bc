package worker

import (
	"time"

	"github.com/jigu1688/sporttools-sub000/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithFailureHook is called with every measurement that could not be scored
// or recorded.
func WithFailureHook(hook FailureHook) Option {
	return func(w *InMemoryWorker) {
		w.onFailure = hook
	}
}

// WithClock replaces time.Now for the ScoredAt stamp.
func WithClock(now func() time.Time) Option {
	return func(w *InMemoryWorker) {
		if now != nil {
			w.now = now
		}
	}
}
