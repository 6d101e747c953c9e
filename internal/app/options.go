package service

import (
	model "github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStorePath points the service at a sqlite database file. An empty
// path keeps the in-memory store.
func WithStorePath(path string) Option {
	return func(s *Service) {
		s.storePath = path
	}
}

// WithTemplatesFile loads additional rule templates from a YAML file on
// top of the built-in set.
func WithTemplatesFile(path string) Option {
	return func(s *Service) {
		s.templatesFile = path
	}
}

// WithSource sets the provenance stamped on server-originated events.
func WithSource(src model.Source) Option {
	return func(s *Service) {
		if src.DeviceID != "" {
			s.source = src
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
