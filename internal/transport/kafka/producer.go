package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/IlianBuh/Blog-service/internal/domain/models"
	"github.com/IlianBuh/Blog-service/internal/lib/logger/sl"
)

const (
	initialRetryTime = 1
	DefaultTopic     = "events"

	headerEventType = "event-type"
)

type Producer struct {
	log      *slog.Logger
	producer sarama.AsyncProducer
	topic    string
	drained  chan struct{}
}

// NewProducer creates new kafka producer publishing into topic.
// Creation is retried with growing pause up to maxTimeout seconds
func NewProducer(
	ctx context.Context,
	log *slog.Logger,
	addrs []string,
	topic string,
	maxTimeout int,
	retries int,
) (*Producer, error) {
	const op = "kafka.NewProducer"

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Errors = true
	cfg.Producer.Retry.Max = retries
	cfg.Producer.Timeout = time.Duration(maxTimeout) * time.Second

	p, err := sarama.NewAsyncProducer(addrs, cfg)
	if err != nil {
		log.Warn("failed to create producer, retrying", slog.String("op", op), sl.Err(err))
		p, err = tryToCreateProducer(ctx, addrs, cfg, maxTimeout, retries)
		if err != nil {
			return nil, fail(op, err)
		}
	}

	return newProducer(log, p, topic), nil
}

func newProducer(log *slog.Logger, p sarama.AsyncProducer, topic string) *Producer {
	if topic == "" {
		topic = DefaultTopic
	}

	prod := &Producer{
		log:      log,
		producer: p,
		topic:    topic,
		drained:  make(chan struct{}),
	}
	go prod.logErrors()

	return prod
}

// logErrors logs failed deliveries until the producer is closed
func (p *Producer) logErrors() {
	const op = "producer.logErrors"
	log := p.log.With(slog.String("op", op))
	defer close(p.drained)

	for perr := range p.producer.Errors() {
		key := ""
		if perr.Msg != nil && perr.Msg.Key != nil {
			if raw, err := perr.Msg.Key.Encode(); err == nil {
				key = string(raw)
			}
		}

		log.Error("failed to deliver event", slog.String("event-id", key), sl.Err(perr.Err))
	}
}

// tryToCreateProducer tries to make producer instance
func tryToCreateProducer(
	ctx context.Context,
	addrs []string,
	cfg *sarama.Config,
	maxTimeout, retries int,
) (sarama.AsyncProducer, error) {
	const op = "kafka.tryToCreateProducer"
	var (
		err error
		p   sarama.AsyncProducer
	)
	timeout := initialRetryTime

	for retries > 0 {
		retries--

		select {
		case <-ctx.Done():
			return nil, fail(op, ctx.Err())
		case <-time.After(time.Duration(timeout) * time.Second):
		}

		p, err = sarama.NewAsyncProducer(addrs, cfg)
		if err == nil {
			return p, nil
		}

		timeout *= 2
		if timeout > maxTimeout {
			timeout = maxTimeout
		}
	}

	if err == nil {
		err = sarama.ErrOutOfBrokers
	}

	return nil, fail(op, err)
}

// Send sends page of events to kafka. Event id is the key of the message,
// event type goes into the header
func (p *Producer) Send(ctx context.Context, page []models.Event) error {
	const op = "producer.Send"
	log := p.log.With(slog.String("op", op))

	for _, event := range page {
		msg := &sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(event.Id),
			Value: sarama.StringEncoder(event.Payload),
			Headers: []sarama.RecordHeader{
				{Key: []byte(headerEventType), Value: []byte(event.Type)},
			},
			Timestamp: time.Now(),
		}

		select {
		case p.producer.Input() <- msg:
		case <-ctx.Done():
			log.Warn("failed to send all messages", sl.Err(ctx.Err()))
			return fail(op, ctx.Err())
		}
	}

	log.Debug("events are sent", slog.Int("count", len(page)))
	return nil
}

// Stop stops kafka producer, but the first trying to send all messages.
// It returns when all delivery errors are logged
func (p *Producer) Stop() {
	const op = "producer.Stop"
	p.log.Info("starting to stop producer", slog.String("op", op))

	p.producer.AsyncClose()
	<-p.drained

	p.log.Info("producer is stopped", slog.String("op", op))
}

func fail(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
