package repository

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithKeepBest keeps each student's best result instead of the most recent
// one. A later record only replaces the entry when it ranks ahead of it.
func WithKeepBest() Option {
	return func(s *TreapStore) {
		s.keepBest = true
	}
}
