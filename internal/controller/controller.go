// Package controller orchestrates service calls for the presentation layer:
// it shapes data for display and reports every failure as a notification
// before handing the error back.
package controller

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/naveenspark/mbadmin/pkg/client"
)

// Notifier receives user-facing notifications. *notify.Queue satisfies it.
type Notifier interface {
	Success(title, message string) string
	Error(title, message string) string
}

// ValidationError lists client-side violations. It never reaches the network.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// report publishes an error notification and returns err unchanged.
func report(n Notifier, log zerolog.Logger, title, fallback string, err error) error {
	msg := client.Message(err)
	if msg == "" {
		msg = fallback
	}
	n.Error(title, msg)
	log.Warn().Err(err).Str("title", title).Msg("operation failed")
	return err
}
