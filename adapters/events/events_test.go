package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/layer-3/xosclaim/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, messages <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-messages:
		msg.Ack()
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func TestPublishAccountRun(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx := context.Background()
	messages, err := pubSub.Subscribe(ctx, TopicAccountRun)
	require.NoError(t, err)

	publisher := NewWatermillPublisher(pubSub)
	err = publisher.PublishAccountRun(ctx, "run-1", core.AccountRunSummary{
		Address:        "0xabc",
		Succeeded:      true,
		PointsEarned:   15,
		DrawsCompleted: 3,
		CheckIn:        core.OutcomeAlreadyDone,
	})
	require.NoError(t, err)

	msg := receive(t, messages)
	assert.NotEmpty(t, msg.UUID)

	var event AccountRunEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &event))
	assert.Equal(t, AccountRunEvent{
		RunID:          "run-1",
		Address:        "0xabc",
		Succeeded:      true,
		PointsEarned:   15,
		DrawsCompleted: 3,
		CheckIn:        "already_done",
	}, event)
}

func TestPublishFailedAccountRun(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx := context.Background()
	messages, err := pubSub.Subscribe(ctx, TopicAccountRun)
	require.NoError(t, err)

	publisher := NewWatermillPublisher(pubSub)
	err = publisher.PublishAccountRun(ctx, "run-2", core.AccountRunSummary{
		Address: "0xabc",
		CheckIn: core.OutcomeError,
		Err:     errors.New("handshake failed"),
	})
	require.NoError(t, err)

	var event AccountRunEvent
	require.NoError(t, json.Unmarshal(receive(t, messages).Payload, &event))
	assert.False(t, event.Succeeded)
	assert.Equal(t, "handshake failed", event.Error)
}

func TestPublishBatch(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx := context.Background()
	messages, err := pubSub.Subscribe(ctx, TopicBatch)
	require.NoError(t, err)

	publisher := NewWatermillPublisher(pubSub)
	err = publisher.PublishBatch(ctx, "run-3", core.BatchSummary{
		TotalAccounts: 3,
		SuccessCount:  2,
		FailureCount:  1,
		TotalPoints:   40,
	})
	require.NoError(t, err)

	var event BatchEvent
	require.NoError(t, json.Unmarshal(receive(t, messages).Payload, &event))
	assert.Equal(t, "66.67", event.SuccessRate)
	assert.Equal(t, int64(40), event.TotalPoints)
	assert.Equal(t, "run-3", event.RunID)
}

func TestPublishAfterClose(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	require.NoError(t, pubSub.Close())

	publisher := NewWatermillPublisher(pubSub)
	err := publisher.PublishBatch(context.Background(), "run-4", core.BatchSummary{})
	assert.Error(t, err)
}
