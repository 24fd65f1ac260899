package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rogerio-castellano/storefront-analytics/internal/resolve"
	"go.uber.org/zap"
)

const DefaultSubject = "analytics.resolutions"

// Publisher is the part of a NATS connection the sink needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher publishes every resolution event as JSON. nats.Conn buffers
// publishes, so Record never waits on the network.
type NATSPublisher struct {
	conn    Publisher
	close   func()
	subject string
	log     *zap.Logger
}

func NewNATSPublisher(url, subject string, log *zap.Logger) (*NATSPublisher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	nc, err := nats.Connect(url,
		nats.Name("storefront-analytics"),
		nats.Timeout(3*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Info("Successfully connected to NATS", zap.String("url", url))
	p := NewPublisher(nc, subject, log)
	p.close = nc.Close
	return p, nil
}

// NewPublisher wraps an existing connection.
func NewPublisher(conn Publisher, subject string, log *zap.Logger) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &NATSPublisher{conn: conn, subject: subject, log: log}
}

// Record implements resolve.Sink. Events go to <subject>.<sub_query>.
func (p *NATSPublisher) Record(_ context.Context, e resolve.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		p.log.Error("failed to encode resolution event", zap.Error(err))
		return
	}
	subject := p.subject + "." + e.SubQuery
	if err := p.conn.Publish(subject, data); err != nil {
		p.log.Warn("failed to publish resolution event", zap.String("subject", subject), zap.Error(err))
	}
}

func (p *NATSPublisher) Close() error {
	if p.close != nil {
		p.close()
	}
	return nil
}
