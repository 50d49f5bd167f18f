package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// ProducerConfig describes the Kafka topic events are written to.
type ProducerConfig struct {
	Brokers   []string
	Topic     string
	ClientID  string
	BatchSize int
	Timeout   time.Duration
}

// Validate ensures the configuration is usable.
func (cfg ProducerConfig) Validate() error {
	if len(cfg.Brokers) == 0 {
		return errors.New("events: at least one broker must be configured")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return errors.New("events: topic must be provided")
	}
	return nil
}

func (cfg ProducerConfig) normalize() ProducerConfig {
	out := cfg
	out.Topic = strings.TrimSpace(out.Topic)
	out.ClientID = strings.TrimSpace(out.ClientID)
	brokers := make([]string, 0, len(out.Brokers))
	for _, broker := range out.Brokers {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	out.Brokers = brokers
	if out.Timeout <= 0 {
		out.Timeout = 5 * time.Second
	}
	if out.BatchSize <= 0 {
		out.BatchSize = 1
	}
	return out
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON, keyed by form id so the events of
// one form stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger logrus.FieldLogger
}

// NewKafkaPublisher constructs a publisher from cfg.
func NewKafkaPublisher(cfg ProducerConfig, logger logrus.FieldLogger) (*KafkaPublisher, error) {
	cfg = cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.Timeout,
		BatchSize:              cfg.BatchSize,
	}
	if cfg.ClientID != "" {
		writer.Transport = &kafka.Transport{ClientID: cfg.ClientID}
	}
	logger.WithFields(logrus.Fields{"brokers": cfg.Brokers, "topic": cfg.Topic}).Info("events: kafka producer initialized")
	return &KafkaPublisher{writer: writer, topic: cfg.Topic, logger: logger}, nil
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if p == nil {
		return nil
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", event.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(event.FormID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
			{Key: "event-id", Value: []byte(event.ID)},
			{Key: "company-id", Value: []byte(event.CompanyID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WithFields(logrus.Fields{"topic": p.topic, "event": event.Type, "form": event.FormID}).WithError(err).Warn("events: publish failed")
		return fmt.Errorf("events: publish %s: %w", event.Type, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
