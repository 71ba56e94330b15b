// Package greeting builds greeting messages and records who greeted whom.
package greeting

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/tagform/pkg/logger"
)

// DefaultFrom is the sender used when none is configured.
const DefaultFrom = "tagform"

type Service struct {
	log  *slog.Logger
	from string
}

// New creates a greeting service that signs greetings with from.
// A nil logger discards the greeting log.
func New(log *slog.Logger, from string) *Service {
	if log == nil {
		log = logger.Discard()
	}
	if from == "" {
		from = DefaultFrom
	}
	return &Service{
		log:  log.With(logger.Component("greeting")),
		from: from,
	}
}

// Greet logs "<name> greeted by <from>" at info level and returns
// "Hello <name> from <from>".
func (s *Service) Greet(ctx context.Context, name string) string {
	s.log.InfoContext(ctx, fmt.Sprintf("%s greeted by %s", name, s.from))
	return fmt.Sprintf("Hello %s from %s", name, s.from)
}
