package libs

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"storefront/models"

	"gopkg.in/gomail.v2"
)

var ErrMailerNotConfigured = errors.New("SMTP configuration missing")

type Email struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.User == "" || cfg.Pass == "" {
		return nil, ErrMailerNotConfigured
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}

	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, port, cfg.User, cfg.Pass),
		from:   cfg.From,
	}, nil
}

// Send dials per message. gomail has no context support, so ctx is only
// checked before dialing.
func (s *SMTPMailer) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/html", email.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// NopMailer drops every message. Used when SMTP is not configured.
type NopMailer struct{}

func (NopMailer) Send(context.Context, Email) error { return nil }

const emailLayout = `<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; }
        .logo { font-size: 24px; font-weight: bold; color: #2563eb; text-align: center; margin-bottom: 30px; }
        .box { background-color: #eff6ff; padding: 20px; margin: 20px 0; border-radius: 8px; }
        table { width: 100%%; border-collapse: collapse; }
        td, th { padding: 6px; border-bottom: 1px solid #eee; text-align: left; }
        .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">Storefront</div>
        %s
        <div class="footer">
            <p>This is an automated email. Please do not reply.</p>
        </div>
    </div>
</body>
</html>`

func OrderConfirmationEmail(order models.Order) Email {
	var rows strings.Builder
	for _, it := range order.Items {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d</td><td>%s</td></tr>",
			html.EscapeString(it.ProductName), it.Quantity, it.TotalPrice().StringFixed(2))
	}

	body := fmt.Sprintf(`
        <h2>Order Confirmation</h2>
        <p>Hello %s, thank you for your order!</p>
        <div class="box">
            <p><strong>Order Number:</strong> %s</p>
            <p><strong>Subtotal:</strong> %s</p>
            <p><strong>Shipping:</strong> %s</p>
            <p><strong>Tax:</strong> %s</p>
            <p><strong>Discount:</strong> %s</p>
            <p><strong>Total Amount:</strong> %s</p>
        </div>
        <table><tr><th>Product</th><th>Qty</th><th>Total</th></tr>%s</table>
        <p>We will let you know as soon as your order ships.</p>`,
		html.EscapeString(order.Shipping.FirstName), html.EscapeString(order.OrderNumber),
		order.Subtotal.StringFixed(2), order.ShippingAmount.StringFixed(2), order.TaxAmount.StringFixed(2),
		order.DiscountAmount.StringFixed(2), order.TotalAmount.StringFixed(2), rows.String())

	return Email{
		To:      order.CustomerEmail,
		Subject: fmt.Sprintf("Order Confirmation #%s", order.OrderNumber),
		HTML:    fmt.Sprintf(emailLayout, body),
	}
}

func OrderStatusEmail(order models.Order) Email {
	tracking := ""
	if order.TrackingNumber != "" {
		tracking = fmt.Sprintf("<p><strong>Tracking Number:</strong> %s</p>", html.EscapeString(order.TrackingNumber))
	}

	body := fmt.Sprintf(`
        <h2>Order Update</h2>
        <div class="box">
            <p><strong>Order Number:</strong> %s</p>
            <p><strong>Status:</strong> %s</p>
            %s
        </div>`,
		html.EscapeString(order.OrderNumber), strings.ToUpper(string(order.OrderStatus)), tracking)

	return Email{
		To:      order.CustomerEmail,
		Subject: fmt.Sprintf("Order #%s is now %s", order.OrderNumber, order.OrderStatus),
		HTML:    fmt.Sprintf(emailLayout, body),
	}
}

func WelcomeEmail(user models.User) Email {
	body := fmt.Sprintf(`
        <h2>Welcome, %s!</h2>
        <p>Your account has been created. Happy shopping!</p>`, html.EscapeString(user.FullName()))

	return Email{
		To:      user.Email,
		Subject: "Welcome to Storefront",
		HTML:    fmt.Sprintf(emailLayout, body),
	}
}
