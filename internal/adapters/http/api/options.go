package api

import (
	"golang.org/x/time/rate"

	"github.com/jigu1688/sporttools-sub000/pkg/logger"
)

const defaultMaxRankingLimit = 500

// Option configures the Server.
type Option func(*Server)

// WithMaxRankingLimit caps the limit accepted by GET /ranking.
func WithMaxRankingLimit(limit int) Option {
	return func(s *Server) {
		if limit > 0 {
			s.maxRankingLimit = limit
		}
	}
}

// WithSubmitRateLimit throttles POST /measurements to rps requests per second
// with the given burst. A non-positive rps disables throttling.
func WithSubmitRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.submitLimiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.submitLimiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
