package appointment

import (
	"context"

	"github.com/batebc/backend-challenge/pkg/logging"
)

// LogPublisher records dispatch messages to the log instead of a real
// channel. It keeps Create usable in local runs with no messaging
// infrastructure and in binaries that never dispatch.
type LogPublisher struct {
	logger *logging.Logger
}

var _ DispatchPublisher = (*LogPublisher)(nil)

// NewLogPublisher builds the log-only publisher.
func NewLogPublisher(logger *logging.Logger) *LogPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the message and succeeds.
func (p *LogPublisher) Publish(ctx context.Context, msg DispatchMessage, attributes map[string]string) error {
	p.logger.Info("dispatch disabled; message logged only",
		"appointment_id", msg.AppointmentID,
		"country", msg.CountryISO,
		"attributes", attributes,
	)
	return nil
}
