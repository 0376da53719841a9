package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Event types.
const (
	EventReportGenerated = "report.generated"
	EventCoinsUpdated    = "coins.updated"
	EventCourseEnrolled  = "course.enrolled"
)

// Event is a user-facing notification. Subscribers receive it on the subject
// "<prefix>.user.<userID>.<type>".
type Event struct {
	Type      string         `json:"type"`
	UserID    uuid.UUID      `json:"userId"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close()
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() {}

// conn is the part of *nats.Conn the publisher uses.
type conn interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

type NATSPublisher struct {
	nc     conn
	prefix string
	log    logrus.FieldLogger
}

// NewNATSPublisher connects to url. Reconnects are handled by the client.
func NewNATSPublisher(url, prefix string, log logrus.FieldLogger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("compath-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Warn("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.WithField("url", c.ConnectedUrl()).Info("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return newNATSPublisher(nc, prefix, log), nil
}

func newNATSPublisher(nc conn, prefix string, log logrus.FieldLogger) *NATSPublisher {
	if prefix == "" {
		prefix = "compath"
	}
	return &NATSPublisher{nc: nc, prefix: prefix, log: log}
}

func (p *NATSPublisher) Subject(e Event) string {
	return fmt.Sprintf("%s.user.%s.%s", p.prefix, e.UserID, e.Type)
}

func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	subject := p.Subject(e)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	if err := p.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}
	p.log.WithField("subject", subject).Debug("published event")
	return nil
}

func (p *NATSPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		p.log.WithError(err).Warn("nats drain failed")
	}
}
