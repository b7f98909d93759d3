package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"housing-notifier/internal/components/telemetry"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_email_notify = "email.notify"
)

type EmailOptions struct {
	Server       string
	Port         int
	EmailAddress string
	Password     string
	To           []string
	Subject      string
}

type sendFunc func(mail *email.Email, addr string, auth smtp.Auth) error

func sendMail(mail *email.Email, addr string, auth smtp.Auth) error {
	return mail.Send(addr, auth)
}

// Email sends the notification message over SMTP.
type Email struct {
	options EmailOptions
	send    sendFunc
	tel     telemetry.API
}

func NewEmail(options EmailOptions, tel telemetry.API) Email {
	if options.Subject == "" {
		options.Subject = "Housing available"
	}
	return Email{
		options: options,
		send:    sendMail,
		tel:     telemetry.NewScopedAPI("notify", tel),
	}
}

func (e Email) compose(message string) *email.Email {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("%s <%s>", DefaultUsername, e.options.EmailAddress)
	mail.To = e.options.To
	mail.Subject = e.options.Subject
	mail.Text = []byte(message)
	return mail
}

func (e Email) Notify(ctx context.Context, message string) error {
	_, span := tracer.Start(ctx, "notify:email")
	defer span.End()

	mail := e.compose(message)
	addr := fmt.Sprintf("%s:%d", e.options.Server, e.options.Port)

	err := e.send(mail, addr, smtp.PlainAuth("", e.options.EmailAddress, e.options.Password, e.options.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = e.send(mail, addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		wrapped := &NotificationDeliveryError{Channel: "email", Err: err}
		e.tel.ReportBroken(report_email_notify, wrapped)
		return wrapped
	}

	e.tel.ReportDebug(report_email_notify, "delivered", len(e.options.To))
	return nil
}
