// Package queue consumes domain events from Kafka and hands them to the
// event router. A message is committed only once it has been handled or
// dead-lettered: handler failures are retried in place with bounded backoff,
// and on exhaustion the message is published to the dead-letter topic before
// its offset is committed. Skipping ahead without either would silently drop
// the failed offset as soon as a later message on the partition commits.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/event"
)

// Handler processes one decoded event envelope. A nil return commits the
// message; errors are retried in place and dead-lettered when the retry
// budget is exhausted.
type Handler func(ctx context.Context, env event.Envelope) error

// Config holds Kafka consumer configuration.
type Config struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string

	// DeadLetterTopic receives messages whose handling exhausted the retry
	// budget. Defaults to Topic + "-dlq".
	DeadLetterTopic string

	// MaxRetries bounds in-place redelivery of a failed message.
	MaxRetries int

	// RetryDelay is the initial in-place retry delay; it doubles per attempt.
	RetryDelay time.Duration
}

// committer and publisher are the slices of kafka.Reader and kafka.Writer
// the processing path touches.
type committer interface {
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type publisher interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Consumer reads event envelopes from a Kafka topic.
type Consumer struct {
	reader     *kafka.Reader
	writer     *kafka.Writer
	commit     committer
	dlq        publisher
	logger     *slog.Logger
	handler    Handler
	maxRetries int
	retryDelay time.Duration
	wg         sync.WaitGroup
	cancel     context.CancelFunc
}

// NewConsumer creates a Consumer for the given topic and group.
func NewConsumer(cfg Config, logger *slog.Logger, handler Handler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    10e3,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
		StartOffset: kafka.FirstOffset,
	})

	dlqTopic := cfg.DeadLetterTopic
	if dlqTopic == "" {
		dlqTopic = cfg.Topic + "-dlq"
	}
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    dlqTopic,
		Balancer: &kafka.LeastBytes{},
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	return &Consumer{
		reader:     reader,
		writer:     writer,
		commit:     reader,
		dlq:        writer,
		logger:     logger.With(slog.String("component", "queue")),
		handler:    handler,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Start begins consuming in the background.
func (c *Consumer) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.logger.InfoContext(ctx, "consumer started",
		slog.String("topic", c.reader.Config().Topic),
		slog.String("group", c.reader.Config().GroupID))
}

// Stop cancels the consume loop and closes the reader and dead-letter writer.
func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	err := c.reader.Close()
	if werr := c.writer.Close(); err == nil {
		err = werr
	}
	return err
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			c.logger.ErrorContext(ctx, "fetch message failed", slog.Any("error", err))
			continue
		}

		c.processMessage(ctx, msg)
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	log := c.logger.With(
		slog.Int("partition", msg.Partition),
		slog.Int64("offset", msg.Offset),
	)

	var env event.Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		// An undecodable payload will never succeed; dead-letter it
		// straight away so the partition does not wedge.
		log.ErrorContext(ctx, "undecodable event, dead-lettering", slog.Any("error", err))
		c.deadLetter(ctx, msg, log)
		return
	}

	err := c.handleWithRetry(ctx, env, log)
	if err == nil {
		c.commitMessage(ctx, msg, log)
		return
	}
	if ctx.Err() != nil {
		// Shutting down mid-message: leave it uncommitted so the next
		// session resumes from it.
		return
	}

	log.ErrorContext(ctx, "retries exhausted, dead-lettering",
		slog.String("event_type", env.EventType),
		slog.Any("error", err))
	c.deadLetter(ctx, msg, log)
}

func (c *Consumer) handleWithRetry(ctx context.Context, env event.Envelope, log *slog.Logger) error {
	delay := c.retryDelay

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = c.handler(ctx, env)
		if lastErr == nil {
			return nil
		}

		if attempt < c.maxRetries {
			log.WarnContext(ctx, "event handling failed, retrying in place",
				slog.String("event_type", env.EventType),
				slog.Int("attempt", attempt+1),
				slog.Any("error", lastErr))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// deadLetter publishes the raw message to the dead-letter topic and then
// commits it. A failed publish leaves the offset uncommitted: reprocessing
// after a restart beats losing the event.
func (c *Consumer) deadLetter(ctx context.Context, msg kafka.Message, log *slog.Logger) {
	out := kafka.Message{Key: msg.Key, Value: msg.Value, Headers: msg.Headers}
	if err := c.dlq.WriteMessages(ctx, out); err != nil {
		log.ErrorContext(ctx, "dead-letter publish failed, leaving uncommitted", slog.Any("error", err))
		return
	}
	c.commitMessage(ctx, msg, log)
}

func (c *Consumer) commitMessage(ctx context.Context, msg kafka.Message, log *slog.Logger) {
	if err := c.commit.CommitMessages(ctx, msg); err != nil {
		log.ErrorContext(ctx, "commit failed", slog.Any("error", err))
	}
}
