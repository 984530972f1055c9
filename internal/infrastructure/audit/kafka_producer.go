// Package audit implements the audit event sinks: a Kafka producer for
// streaming deployments and a database sink for single-node setups.
package audit

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/rbenna1/ferriskey-sub000/internal/config"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/service"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

var _ service.AuditService = (*KafkaProducer)(nil)

// KafkaProducer publishes audit events to a Kafka topic, keyed by realm so
// per-realm ordering is preserved within a partition.
// KafkaProducer 将审计事件发布到 Kafka 主题，以 Realm 为键保证分区内按 Realm 有序。
type KafkaProducer struct {
	writer        *kafka.Writer
	signingSecret string
	logger        logger.Logger
}

// NewKafkaProducer creates the audit producer from the Kafka configuration.
func NewKafkaProducer(cfg *config.KafkaConfig, log logger.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaProducer{
		writer:        writer,
		signingSecret: cfg.SigningSecret,
		logger:        log.WithComponent("audit-producer"),
	}
}

// LogEvent publishes one event. A delivery failure is surfaced as a webhook
// notification error for the caller to log; the state change that produced
// the event stands.
func (p *KafkaProducer) LogEvent(ctx context.Context, event models.AuditEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.ErrServerError("audit event serialization failed").WithCause(err)
	}

	message := kafka.Message{
		Key:   []byte(event.RealmID.String()),
		Value: payload,
	}

	if p.signingSecret != "" {
		signature, signErr := SignAuditEvent(event, p.signingSecret)
		if signErr != nil {
			return errors.ErrServerError("audit event signing failed").WithCause(signErr)
		}
		message.Headers = append(message.Headers, kafka.Header{
			Key:   "x-signature",
			Value: []byte(signature),
		})
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		p.logger.Error(ctx, "failed to publish audit event", err,
			logger.String("event_type", string(event.EventType)),
		)
		return errors.ErrFailedWebhookNotification(string(event.EventType)).WithCause(err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
