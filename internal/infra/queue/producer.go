package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Notification kinds.
const (
	KindContactAck       = "contact_ack"
	KindCVDelivery       = "cv_delivery"
	KindRecruiterWelcome = "recruiter_welcome"
	KindAdminAlert       = "admin_alert"
)

// Notification is one outbound message to render and send. Attachment bytes,
// when present, are read before dispatch so the worker never touches disk.
type Notification struct {
	Kind    string `json:"kind"`
	To      string `json:"to"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Message string `json:"message,omitempty"`
	Company string `json:"company,omitempty"`
	Role    string `json:"role,omitempty"`

	// LeadEmail is the submitter's address when the notification itself goes
	// elsewhere (admin alerts).
	LeadEmail string `json:"lead_email,omitempty"`

	AttachmentName string `json:"attachment_name,omitempty"`
	Attachment     []byte `json:"attachment,omitempty"`
}

// DispatcherInterface schedules a notification and returns immediately.
// Delivery happens off the request path; delivery failures never surface to
// the caller that scheduled the dispatch.
type DispatcherInterface interface {
	Dispatch(ctx context.Context, n Notification) error
}

type RabbitMQProducer struct {
	Ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

// Dispatch publishes the notification transiently. Fire-and-forget: the
// message is not persisted and no confirmation is awaited.
func (p *RabbitMQProducer) Dispatch(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Transient,
		},
	)
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	return nil
}
