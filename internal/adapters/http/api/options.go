package api

import "github.com/okian/worthboard/pkg/logger"

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxTopN caps top_n and limit parameters.
func WithMaxTopN(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxTopN = n
		}
	}
}

// WithMaxAmount caps the amount that may be apportioned.
func WithMaxAmount(v float64) Option {
	return func(s *Server) {
		if v > 0 {
			s.maxAmount = v
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
