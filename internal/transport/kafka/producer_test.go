package kafka

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/IlianBuh/Blog-service/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkMessage(topic, key, eventType string) mocks.MessageChecker {
	return func(msg *sarama.ProducerMessage) error {
		if msg.Topic != topic {
			return errors.New("unexpected topic " + msg.Topic)
		}
		got, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(got) != key {
			return errors.New("unexpected key " + string(got))
		}
		if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != eventType {
			return errors.New("event type header is missing")
		}
		return nil
	}
}

func TestSend(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mock := mocks.NewAsyncProducer(t, nil)
	mock.ExpectInputWithMessageCheckerFunctionAndSucceed(checkMessage(DefaultTopic, "1:created", "created"))
	mock.ExpectInputWithMessageCheckerFunctionAndSucceed(checkMessage(DefaultTopic, "1:updated", "updated"))

	p := newProducer(log, mock, "")

	err := p.Send(context.Background(), []models.Event{
		{Id: "1:created", Type: "created", Payload: `{"post-id":1}`},
		{Id: "1:updated", Type: "updated", Payload: `{"post-id":1}`},
	})
	require.NoError(t, err)

	p.Stop()
}

func TestSend_Topic(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mock := mocks.NewAsyncProducer(t, nil)
	mock.ExpectInputWithMessageCheckerFunctionAndSucceed(checkMessage("posts", "7:created", "created"))

	p := newProducer(log, mock, "posts")

	err := p.Send(context.Background(), []models.Event{
		{Id: "7:created", Type: "created", Payload: `{"post-id":7}`},
	})
	require.NoError(t, err)

	p.Stop()
}

func TestSend_DeliveryFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	mock := mocks.NewAsyncProducer(t, nil)
	mock.ExpectInputAndFail(sarama.ErrOutOfBrokers)
	mock.ExpectInputAndSucceed()

	p := newProducer(log, mock, "")

	err := p.Send(context.Background(), []models.Event{
		{Id: "3:created", Type: "created", Payload: `{"post-id":3}`},
		{Id: "4:created", Type: "created", Payload: `{"post-id":4}`},
	})
	require.NoError(t, err)

	p.Stop()

	out := buf.String()
	assert.Contains(t, out, "failed to deliver event")
	assert.Contains(t, out, "event-id=3:created")
	assert.Contains(t, out, sarama.ErrOutOfBrokers.Error())
	assert.NotContains(t, out, "event-id=4:created")
}
