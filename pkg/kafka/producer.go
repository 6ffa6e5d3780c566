package kafka

import (
	"context"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	kafka_config "medbook/pkg/kafka/config"
	"medbook/pkg/logger"
)

// Producer publishes reservation events to a topic, with failed
// messages diverted to a dead-letter topic when one is configured.
type Producer struct {
	writer    *kafkago.Writer
	dlqWriter *kafkago.Writer
	topic     string
	log       *logger.Logger
}

func NewProducer(cfg *kafka_config.Config, topic, dlqTopic string, log *logger.Logger) *Producer {
	p := &Producer{
		writer: newWriter(cfg, topic),
		topic:  topic,
		log:    log,
	}
	if dlqTopic != "" {
		p.dlqWriter = newWriter(cfg, dlqTopic)
	}
	return p
}

func newWriter(cfg *kafka_config.Config, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		MaxAttempts:  cfg.ProducerMaxAttempts,
		BatchTimeout: cfg.ProducerBatchTimeout,
		RequiredAcks: kafkago.RequiredAcks(cfg.ProducerRequireAcks),
		Compression:  compressionCodec(cfg.ProducerCompression),
		Async:        cfg.ProducerAsync,
	}
}

func compressionCodec(name string) kafkago.Compression {
	switch name {
	case "gzip":
		return kafkago.Gzip
	case "snappy":
		return kafkago.Snappy
	case "lz4":
		return kafkago.Lz4
	case "zstd":
		return kafkago.Zstd
	default:
		return 0
	}
}

// Publish sends one reservation event. On delivery failure the event
// is forwarded to the dead-letter topic so the caller never blocks a
// booking on the event bus.
func (p *Producer) Publish(ctx context.Context, event ReservationEvent) error {
	msg, err := NewMessage(event)
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Failed to publish event",
			"topic", p.topic,
			"event_type", event.EventType,
			"reservation_id", event.ReservationID,
			"error", err)
		if dlqErr := p.sendToDLQ(ctx, msg, err); dlqErr != nil {
			return fmt.Errorf("publish to %s: %w", p.topic, err)
		}
		return nil
	}

	p.log.Debug("Published event",
		"topic", p.topic,
		"event_type", event.EventType,
		"reservation_id", event.ReservationID)
	return nil
}

func (p *Producer) sendToDLQ(ctx context.Context, msg kafkago.Message, cause error) error {
	if p.dlqWriter == nil {
		return cause
	}

	setHeader(&msg, HeaderFailureReason, cause.Error())
	if err := p.dlqWriter.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Failed to publish to dead-letter topic",
			"topic", p.dlqWriter.Topic,
			"error", err)
		return err
	}

	p.log.Warn("Event diverted to dead-letter topic",
		"topic", p.dlqWriter.Topic,
		"reason", cause.Error())
	return nil
}

func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		return err
	}
	if p.dlqWriter != nil {
		return p.dlqWriter.Close()
	}
	return nil
}
