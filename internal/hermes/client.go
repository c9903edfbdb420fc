package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/MikeSquared-Agency/folio/internal/contact"
)

const (
	// SubjectContactReceived carries a ContactReceived event for every stored submission.
	SubjectContactReceived = "folio.contact.received"
	// SubjectServiceStarted is announced once when the server begins listening.
	SubjectServiceStarted = "folio.service.started"
)

// ContactReceived is published after a contact submission is persisted.
type ContactReceived struct {
	ContactID   string    `json:"contact_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ServiceStarted is published when the server comes up.
type ServiceStarted struct {
	Service   string    `json:"service"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("folio"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

// Flush waits for buffered publishes to reach the server.
func (c *Client) Flush(ctx context.Context) error {
	return c.conn.FlushWithContext(ctx)
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}

// Publisher is the subset of Client used by ContactPublisher.
type Publisher interface {
	Publish(subject string, data any) error
}

// ContactPublisher fans contact submissions out to the bus.
type ContactPublisher struct {
	pub Publisher
}

func NewContactPublisher(pub Publisher) *ContactPublisher {
	return &ContactPublisher{pub: pub}
}

func (p *ContactPublisher) Name() string { return "nats-event" }

func (p *ContactPublisher) Notify(_ context.Context, sub contact.Submission) error {
	evt := ContactReceived{
		ContactID:   sub.ID,
		Name:        sub.Name,
		Email:       sub.Email,
		Message:     sub.Message,
		SubmittedAt: sub.SubmittedAt,
	}
	if err := p.pub.Publish(SubjectContactReceived, evt); err != nil {
		return fmt.Errorf("publish %s: %w", SubjectContactReceived, err)
	}
	return nil
}
