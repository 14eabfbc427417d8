//go:build integration

package testutils

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Black-And-White-Club/league-night/app/eventbus"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/require"
)

// MessageCapture collects messages published on a set of topics.
type MessageCapture struct {
	mu       sync.RWMutex
	messages map[string][]*message.Message
}

// CaptureTopics subscribes to every topic until ctx is cancelled. Messages
// are acked as soon as they are recorded.
func CaptureTopics(t *testing.T, ctx context.Context, bus eventbus.EventBus, topics ...string) *MessageCapture {
	t.Helper()
	mc := &MessageCapture{messages: make(map[string][]*message.Message)}
	for _, topic := range topics {
		ch, err := bus.Subscribe(ctx, topic)
		require.NoError(t, err, "subscribe %s", topic)
		go func(topic string, ch <-chan *message.Message) {
			for msg := range ch {
				mc.mu.Lock()
				mc.messages[topic] = append(mc.messages[topic], msg)
				mc.mu.Unlock()
				msg.Ack()
			}
		}(topic, ch)
	}
	return mc
}

// Messages returns a copy of what was captured on topic.
func (mc *MessageCapture) Messages(topic string) []*message.Message {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	out := make([]*message.Message, len(mc.messages[topic]))
	copy(out, mc.messages[topic])
	return out
}

// WaitFor polls until topic has at least count messages.
func (mc *MessageCapture) WaitFor(topic string, count int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if len(mc.Messages(topic)) >= count {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

// Publish sends payload as JSON on topic.
func Publish(t *testing.T, bus eventbus.EventBus, topic string, payload any) *message.Message {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set("correlation_id", watermill.NewUUID())
	require.NoError(t, bus.Publish(topic, msg))
	return msg
}

// Decode unmarshals a captured message.
func Decode[T any](msg *message.Message) (*T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", msg.UUID, err)
	}
	return &v, nil
}
