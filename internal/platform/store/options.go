package store

import "spinlog/internal/platform/logger"

// Option adjusts the Store while Open assembles it
type Option func(*Store) error

// WithLogger hands the Store the logger its subclients log through
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}
