// Package mail sends transactional email through SendGrid. Callers treat
// failures as non-fatal: a lost confirmation mail never fails an order.
package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/kakamalem/marketplace/internal/logging"
	"github.com/kakamalem/marketplace/internal/models"
)

type Client struct {
	apiKey string
	from   string
}

func NewClient(apiKey, from string) *Client {
	return &Client{apiKey: apiKey, from: from}
}

func (c *Client) send(ctx context.Context, to, subject, body string) error {
	if c == nil || c.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if to == "" {
		return fmt.Errorf("to address is empty")
	}

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail("KakaMalem", c.from),
		subject,
		sgmail.NewEmail("", to),
		body,
		fmt.Sprintf("<pre>%s</pre>", body),
	)

	client := sendgrid.NewSendClient(c.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", response.StatusCode, response.Body)
	}
	return nil
}

// SendOrderConfirmation mails the buyer a summary of their new order.
// Failures are logged and swallowed.
func (c *Client) SendOrderConfirmation(ctx context.Context, to string, order models.Order) {
	l := logging.FromContext(ctx).With("svc", "mail.order_confirmation", "order_id", order.ID)

	body := fmt.Sprintf(
		"Thank you for your order!\n\nOrder %s\nItems: %d\nShipping: %.2f %s\nTotal: %.2f %s\n",
		order.ID, len(order.Items), order.ShippingCost, order.Currency, order.Total, order.Currency,
	)
	if err := c.send(ctx, to, "Your KakaMalem order", body); err != nil {
		l.Warn("order_confirmation_not_sent", "error", err)
		return
	}
	l.Info("order_confirmation_sent", "to", to)
}
