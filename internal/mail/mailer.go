package mail

import (
	"context"
	"errors"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"borrowbee/internal/config"
)

// ErrNotConfigured is returned when SMTP credentials are missing. Dispatch is
// fire-and-forget: no retries anywhere on this path.
var ErrNotConfigured = errors.New("email service not configured")

// BorrowAlert notifies a book owner that someone wants to borrow their book.
type BorrowAlert struct {
	BorrowerName  string
	BorrowerEmail string
	BorrowerPhone *string
	OwnerEmail    string
	BookTitle     string
	BookAuthor    string
}

type Sender interface {
	SendBorrowAlert(ctx context.Context, alert BorrowAlert) error
}

type SMTPSender struct {
	cfg config.SMTPConfig
}

func NewSMTP(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) SendBorrowAlert(ctx context.Context, alert BorrowAlert) error {
	if !s.cfg.Configured() {
		return ErrNotConfigured
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", alert.OwnerEmail)
	m.SetHeader("Reply-To", alert.BorrowerEmail)
	m.SetHeader("Subject", fmt.Sprintf("BorrowBee: Someone wants to borrow %q", alert.BookTitle))
	m.SetBody("text/html", borrowAlertBody(alert))

	dialer := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send borrow alert: %w", err)
	}
	return nil
}

func borrowAlertBody(alert BorrowAlert) string {
	phone := ""
	if alert.BorrowerPhone != nil && *alert.BorrowerPhone != "" {
		phone = fmt.Sprintf("<p><strong>Phone:</strong> %s</p>", html.EscapeString(*alert.BorrowerPhone))
	}

	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #f39c12;">Book Borrow Request</h2>
  <p>Hi there!</p>
  <p>Someone is interested in borrowing your book through BorrowBee:</p>
  <div style="background: #f8f9fa; padding: 1rem; border-radius: 8px; margin: 1rem 0;">
    <h3 style="margin-top: 0;">Book: "%s"</h3>
    <p><strong>Author:</strong> %s</p>
  </div>
  <div style="background: #e3f2fd; padding: 1rem; border-radius: 8px; margin: 1rem 0;">
    <h3 style="margin-top: 0;">Borrower Contact Information:</h3>
    <p><strong>Name:</strong> %s</p>
    <p><strong>Email:</strong> %s</p>
    %s
  </div>
  <p>You can contact them directly to arrange the book lending. Happy sharing!</p>
  <p style="color: #666; font-size: 0.9rem;">This email was sent automatically from BorrowBee when someone requested to borrow your book.</p>
</div>`,
		html.EscapeString(alert.BookTitle),
		html.EscapeString(alert.BookAuthor),
		html.EscapeString(alert.BorrowerName),
		html.EscapeString(alert.BorrowerEmail),
		phone,
	)
}
