package landedcost

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Severity grades advisory notifications
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Notification is an advisory message about an engine outcome. The engine
// never blocks document submission or cancellation; everything it has to say
// flows through here instead.
type Notification struct {
	Severity  Severity
	Code      string
	Message   string
	InvoiceID uuid.UUID
}

// Notifier delivers advisory notifications
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// LogNotifier writes notifications to the structured log
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a zap-backed notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier
func (n *LogNotifier) Notify(_ context.Context, notification Notification) {
	fields := []zap.Field{
		zap.String("code", notification.Code),
		zap.String("invoice_id", notification.InvoiceID.String()),
	}
	switch notification.Severity {
	case SeverityError:
		n.logger.Error(notification.Message, fields...)
	case SeverityWarn:
		n.logger.Warn(notification.Message, fields...)
	default:
		n.logger.Info(notification.Message, fields...)
	}
}

var _ Notifier = (*LogNotifier)(nil)
