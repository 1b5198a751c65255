package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"libraryhub/config"
	"libraryhub/infras/kafka"
	"libraryhub/infras/kafka/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	msg := kafka.Message{
		Key:   "room-3",
		Value: map[string]any{"type": "reservation.created", "room_id": 3},
	}

	got, err := msg.ToKafkaMessage("library.reservations")
	require.NoError(t, err)

	assert.Equal(t, "library.reservations", got.Topic)
	assert.Equal(t, []byte("room-3"), got.Key)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(got.Value, &decoded))
	assert.Equal(t, "reservation.created", decoded["type"])
}

func TestMessage_ToKafkaMessage_Unmarshalable(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := msg.ToKafkaMessage("topic")

	assert.Error(t, err)
}

func TestNew_DisabledIsNoop(t *testing.T) {
	cfg := &config.Config{}

	client, cleanup := kafka.New(cfg)
	defer cleanup()

	assert.NoError(t, client.SendMessages(context.Background(), "library.reservations", kafka.Message{Key: "k", Value: 1}))
	assert.NoError(t, client.Close())
}

func TestPublisher_CleanupWaitsForInFlightSends(t *testing.T) {
	client := mocks.NewMockClient(gomock.NewController(t))

	var sent atomic.Int32

	release := make(chan struct{})

	client.EXPECT().
		SendMessages(gomock.Any(), "library.reservations", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ...kafka.Message) error {
			<-release

			assert.NoError(t, ctx.Err())
			sent.Add(1)

			return nil
		}).
		Times(2)

	publisher, drain := kafka.NewPublisher(client)

	ctx, cancel := context.WithCancel(context.Background())
	publisher.Publish(ctx, "library.reservations", kafka.Message{Key: "3", Value: 1})
	publisher.Publish(ctx, "library.reservations", kafka.Message{Key: "4", Value: 2})
	cancel()

	time.AfterFunc(10*time.Millisecond, func() { close(release) })

	drain()

	assert.Equal(t, int32(2), sent.Load())
}

func TestPublisher_SendFailureIsSwallowed(t *testing.T) {
	client := mocks.NewMockClient(gomock.NewController(t))
	client.EXPECT().SendMessages(gomock.Any(), "topic", gomock.Any()).Return(errors.New("broker down"))

	publisher, drain := kafka.NewPublisher(client)

	publisher.Publish(context.Background(), "topic", kafka.Message{Key: "k", Value: 1})
	drain()
}
