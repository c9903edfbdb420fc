package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/MikeSquared-Agency/folio/internal/contact"
)

const ackSubject = "Thank you for reaching out!"

// Config holds SMTP settings. Username doubles as the From address.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
}

type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Mailer sends the acknowledgment email to a contact submitter.
type Mailer struct {
	cfg    Config
	client sender
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Mailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &Mailer{cfg: cfg, client: client, logger: logger}, nil
}

func (m *Mailer) Name() string { return "ack-email" }

// Notify sends the auto-reply to the submitter's address.
func (m *Mailer) Notify(ctx context.Context, sub contact.Submission) error {
	msg, err := m.buildAck(sub)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send acknowledgment: %w", err)
	}
	m.logger.Info("acknowledgment sent", "contact_id", sub.ID)
	return nil
}

func (m *Mailer) buildAck(sub contact.Submission) (*mail.Msg, error) {
	html, err := renderAck(sub)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.Username); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(sub.Email); err != nil {
		return nil, fmt.Errorf("recipient address: %w", err)
	}
	msg.Subject(ackSubject)
	msg.SetBodyString(mail.TypeTextHTML, html)
	msg.AddAlternativeString(mail.TypeTextPlain, renderAckText(sub, m.cfg.Username))
	return msg, nil
}

var ackTemplate = template.Must(template.New("ack").Parse(`<div style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #00d4ff;">Hello {{.Name}},</h2>
    <p>Thank you for reaching out through my portfolio website!</p>
    <p>This is an automated message to let you know that I've successfully received your inquiry. I will review it and get back to you as soon as possible.</p>
    <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
    <p><strong>A copy of your message:</strong><br>
    <em>"{{.Message}}"</em></p>
    <br>
    <p>Best regards,<br>
    <strong>MD Zeeshan</strong><br>
    <a href="mailto:mdzeeshan08886@gmail.com">mdzeeshan08886@gmail.com</a></p>
</div>`))

func renderAck(sub contact.Submission) (string, error) {
	var buf bytes.Buffer
	if err := ackTemplate.Execute(&buf, sub); err != nil {
		return "", fmt.Errorf("render acknowledgment: %w", err)
	}
	return buf.String(), nil
}

func renderAckText(sub contact.Submission, replyTo string) string {
	return fmt.Sprintf("Hello %s,\n\n"+
		"Thank you for reaching out through my portfolio website! "+
		"I've received your inquiry and will get back to you as soon as possible.\n\n"+
		"A copy of your message:\n%q\n\n"+
		"Best regards,\nMD Zeeshan\n%s\n",
		sub.Name, sub.Message, replyTo)
}
