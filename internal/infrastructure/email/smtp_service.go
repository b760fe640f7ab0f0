package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"bookstore-marketplace/pkg/logger"
)

// PaymentReceiptData - nội dung email biên nhận sau khi verify payment thành công
type PaymentReceiptData struct {
	Email           string
	Username        string
	Receipt         string
	ProviderOrderID string
	PaymentID       string
	Amount          string // đã format theo base unit, vd "500.00"
	Currency        string
}

type EmailService interface {
	SendPaymentReceipt(ctx context.Context, data PaymentReceiptData) error
}

// sendFunc cùng chữ ký với smtp.SendMail
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
	send     sendFunc
}

// NewSMTPEmailService - dev dùng mailpit/mailhog nên không auth
func NewSMTPEmailService(smtpHost, smtpPort, from string) EmailService {
	return &smtpEmailService{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
		send:     smtp.SendMail,
	}
}

func (s *smtpEmailService) SendPaymentReceipt(ctx context.Context, data PaymentReceiptData) error {
	subject := fmt.Sprintf("Payment received - %s", data.Receipt)
	body := fmt.Sprintf(`Hi %s,

We have received your payment.

Receipt:    %s
Order:      %s
Payment ID: %s
Amount:     %s %s

Thank you for shopping with Bookstore.`,
		data.Username, data.Receipt, data.ProviderOrderID, data.PaymentID, data.Amount, data.Currency)

	msg := buildMessage(s.smtpFrom, data.Email, subject, body)

	if err := s.send(s.smtpAddr, nil, s.smtpFrom, []string{data.Email}, msg); err != nil {
		logger.Warn("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        data.Email,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
