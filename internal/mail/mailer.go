package mail

import (
	"context"
	"fmt"

	"github.com/minimart-io/minimart/internal/domain"
)

// Mailer renders and sends order notification emails.
type Mailer struct {
	sender   *Sender
	renderer *Renderer
}

// NewMailer creates a mailer from SMTP configuration.
func NewMailer(config Config) (*Mailer, error) {
	sender, err := NewSender(config)
	if err != nil {
		return nil, err
	}

	renderer, err := NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("mail renderer: %w", err)
	}

	return &Mailer{sender: sender, renderer: renderer}, nil
}

// SendOrderConfirmation emails the customer about a newly placed order.
func (m *Mailer) SendOrderConfirmation(ctx context.Context, to string, order *domain.Order, total float64) error {
	subject, body, err := m.renderer.RenderOrderConfirmation(order, total)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, to, subject, body)
}

// SendStatusUpdate emails the customer about an order status change.
func (m *Mailer) SendStatusUpdate(ctx context.Context, to string, order *domain.Order) error {
	subject, body, err := m.renderer.RenderStatusUpdate(order)
	if err != nil {
		return err
	}
	return m.sender.Send(ctx, to, subject, body)
}
