package notify

import (
	"time"

	"laundry/internal/core/ports"
)

const (
	typeVerification = "email_verification"
	typeStatusUpdate = "order_status_update"
)

// message is the JSON body published for the mail worker.
type message struct {
	Type    string    `json:"type"`
	Email   string    `json:"email"`
	UserID  string    `json:"user_id,omitempty"`
	Link    string    `json:"link,omitempty"`
	OrderID string    `json:"order_id,omitempty"`
	Status  string    `json:"status,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

func verificationMessage(msg ports.VerificationMessage, now time.Time) message {
	return message{
		Type:   typeVerification,
		Email:  msg.Email,
		UserID: msg.UserID.String(),
		Link:   msg.Link,
		SentAt: now.UTC(),
	}
}

func statusUpdateMessage(msg ports.StatusUpdateMessage, now time.Time) message {
	return message{
		Type:    typeStatusUpdate,
		Email:   msg.CustomerEmail,
		OrderID: msg.OrderID.String(),
		Status:  msg.Status.String(),
		SentAt:  now.UTC(),
	}
}
