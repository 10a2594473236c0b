package notify

import (
	"context"
	"log/slog"

	"laundry/internal/core/ports"
)

// LogNotifier "sends" notifications by logging them.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "log_notifier")}
}

func (n *LogNotifier) SendVerification(ctx context.Context, msg ports.VerificationMessage) error {
	n.logger.InfoContext(ctx, "verification email",
		"user_id", msg.UserID.String(),
		"email", msg.Email,
		"link", msg.Link,
	)
	return nil
}

func (n *LogNotifier) SendStatusUpdate(ctx context.Context, msg ports.StatusUpdateMessage) error {
	n.logger.InfoContext(ctx, "order status email",
		"order_id", msg.OrderID.String(),
		"email", msg.CustomerEmail,
		"status", msg.Status.String(),
	)
	return nil
}
