/*
 * @module service/monitoring/notification
 * @description Notification channels: SMTP email delivery and structured log
 *              fallback behind one sender interface
 * @architecture Layered architecture - business service layer
 * @stateFlow Alert built -> enabled channels fan out -> delivery status logged
 * @rules A disabled channel skips silently with a warning; one channel
 *        failing never blocks the others
 * @dependencies net/smtp, gus-analytics-service/service/config
 * @refs service/monitoring/notifier.go, service/scheduler
 */

package monitoring

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"gus-analytics-service/service/config"
)

// Alert is one notification payload.
type Alert struct {
	Severity  string    `json:"severity"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationSender delivers alerts through one channel.
type NotificationSender interface {
	Send(alert *Alert) error
	ChannelType() string
	IsEnabled() bool
}

// EmailChannel delivers alerts over SMTP with STARTTLS.
type EmailChannel struct {
	cfg config.SMTPConfig
}

// NewEmailChannel builds an email channel from SMTP settings.
func NewEmailChannel(cfg config.SMTPConfig) *EmailChannel {
	return &EmailChannel{cfg: cfg}
}

// ChannelType identifies the channel.
func (e *EmailChannel) ChannelType() string { return "email" }

// IsEnabled reports whether SMTP settings are complete.
func (e *EmailChannel) IsEnabled() bool { return e.cfg.Enabled() }

// Send delivers one alert to every configured recipient.
func (e *EmailChannel) Send(alert *Alert) error {
	if !e.IsEnabled() {
		slog.Warn("email channel not configured, skipping notification",
			"subject", alert.Subject)
		return nil
	}

	message := e.buildMessage(alert)
	addr := net.JoinHostPort(e.cfg.Host, fmt.Sprintf("%d", e.cfg.Port))

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("connecting to smtp server: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: e.cfg.Host}); err != nil {
			return fmt.Errorf("starting tls: %w", err)
		}
	}
	if e.cfg.User != "" {
		auth := smtp.PlainAuth("", e.cfg.User, e.cfg.Password, e.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(e.cfg.Sender); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, to := range e.cfg.Recipients {
		if err := client.Rcpt(to); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", to, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing message: %w", err)
	}

	slog.Info("notification email sent", "subject", alert.Subject,
		"recipients", len(e.cfg.Recipients))
	return client.Quit()
}

func (e *EmailChannel) buildMessage(alert *Alert) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", e.cfg.Sender)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(e.cfg.Recipients, ", "))
	fmt.Fprintf(&b, "Subject: [%s] %s\r\n", alert.Severity, alert.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	fmt.Fprintf(&b, "Date: %s\r\n", alert.CreatedAt.Format(time.RFC1123Z))
	b.WriteString("\r\n")
	b.WriteString(alert.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// LogChannel writes alerts to the structured log. Always enabled, used as a
// delivery record alongside email.
type LogChannel struct{}

// NewLogChannel builds a log channel.
func NewLogChannel() *LogChannel { return &LogChannel{} }

// ChannelType identifies the channel.
func (l *LogChannel) ChannelType() string { return "log" }

// IsEnabled always holds for the log channel.
func (l *LogChannel) IsEnabled() bool { return true }

// Send records the alert in the log.
func (l *LogChannel) Send(alert *Alert) error {
	slog.Info("notification",
		"severity", alert.Severity,
		"subject", alert.Subject,
		"body", alert.Body)
	return nil
}
