package server

import (
	"github.com/pkg/errors"
)

// Option configures a Service prior to startup.
type Option func(*Service) error

// setOptions applies all options, returning the first error encountered.
func (s *Service) setOptions(options ...Option) error {
	for _, opt := range options {
		if err := opt(s); err != nil {
			return err
		}
	}
	return nil
}

// Host overrides the configured bind address when non-empty.
func Host(host string) Option {
	return func(s *Service) error {
		if host != "" {
			s.cfg.Server.Host = host
		}
		return nil
	}
}

// Port overrides the configured port when non-zero.
func Port(port int) Option {
	return func(s *Service) error {
		if port == 0 {
			return nil
		}
		if port < 0 || port > 65535 {
			return errors.Errorf("port out of range: %d", port)
		}
		s.cfg.Server.Port = port
		return nil
	}
}

// MaxUploadMB overrides the configured upload cap when positive.
func MaxUploadMB(mb int) Option {
	return func(s *Service) error {
		if mb > 0 {
			s.cfg.Server.MaxUploadMB = mb
		}
		return nil
	}
}
