package kafka

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	kafka_config "medbook/pkg/kafka/config"
	"medbook/pkg/logger"
)

// EventHandler processes one decoded reservation event. Returning an
// error triggers the retry policy; a non-retryable error sends the
// message to the dead-letter topic immediately.
type EventHandler func(ctx context.Context, event ReservationEvent) error

// Consumer reads reservation events within a consumer group and
// dispatches them to a handler with bounded retries.
type Consumer struct {
	reader     *kafkago.Reader
	dlqWriter  *kafkago.Writer
	handler    EventHandler
	maxRetries int
	log        *logger.Logger
}

func NewConsumer(cfg *kafka_config.Config, topic, groupID, dlqTopic string, handler EventHandler, log *logger.Logger) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          topic,
		GroupID:        groupID,
		StartOffset:    cfg.ConsumerStartOffset,
		MinBytes:       cfg.ConsumerMinBytes,
		MaxBytes:       cfg.ConsumerMaxBytes,
		MaxWait:        cfg.ConsumerMaxWait,
		CommitInterval: cfg.ConsumerCommitInterval,
		SessionTimeout: cfg.ConsumerSessionTimeout,
	})

	c := &Consumer{
		reader:     reader,
		handler:    handler,
		maxRetries: cfg.ConsumerMaxRetries,
		log:        log,
	}
	if dlqTopic != "" {
		c.dlqWriter = newWriter(cfg, dlqTopic)
	}
	return c
}

// Run consumes until the context is cancelled. It always returns a
// non-nil error; on clean shutdown that error is context.Canceled.
func (c *Consumer) Run(ctx context.Context) error {
	c.log.Info("Consumer started",
		"topic", c.reader.Config().Topic,
		"group_id", c.reader.Config().GroupID)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			c.log.Error("Failed to fetch message", "error", err)
			continue
		}

		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			c.log.Error("Failed to commit offset",
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafkago.Message) {
	event, err := ParseEvent(msg)
	if err != nil {
		c.log.Error("Malformed event, sending to dead-letter topic",
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err)
		c.divert(ctx, msg, err)
		return
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
		}

		lastErr = c.handler(ctx, event)
		if lastErr == nil {
			return
		}
		if !IsRetryable(lastErr) {
			break
		}

		c.log.Warn("Handler failed, retrying",
			"event_type", event.EventType,
			"reservation_id", event.ReservationID,
			"attempt", attempt+1,
			"error", lastErr)
	}

	c.log.Error("Handler exhausted retries, sending to dead-letter topic",
		"event_type", event.EventType,
		"reservation_id", event.ReservationID,
		"error", lastErr)
	setHeader(&msg, HeaderRetryCount, strconv.Itoa(c.maxRetries))
	c.divert(ctx, msg, lastErr)
}

func (c *Consumer) divert(ctx context.Context, msg kafkago.Message, cause error) {
	if c.dlqWriter == nil {
		return
	}
	setHeader(&msg, HeaderFailureReason, cause.Error())
	if err := c.dlqWriter.WriteMessages(ctx, kafkago.Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: msg.Headers,
	}); err != nil {
		c.log.Error("Failed to divert message to dead-letter topic", "error", err)
	}
}

func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("close reader: %w", err)
	}
	if c.dlqWriter != nil {
		return c.dlqWriter.Close()
	}
	return nil
}
