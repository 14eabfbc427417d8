package eventbus

import (
	"testing"

	"github.com/Black-And-White-Club/league-night/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nats-io/nkeys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msgFor(topic string) *message.Message {
	m := message.NewMessage("", []byte("{}"))
	if topic != "" {
		m.Metadata.Set(handlerwrapper.TopicMetadataKey, topic)
	}
	return m
}

func TestGroupByTopic(t *testing.T) {
	t.Run("explicit topic wins over metadata", func(t *testing.T) {
		batches, err := groupByTopic("fixed", []*message.Message{msgFor("a"), msgFor("b")})
		require.NoError(t, err)
		require.Len(t, batches, 1)
		assert.Equal(t, "fixed", batches[0].topic)
		assert.Len(t, batches[0].messages, 2)
	})

	t.Run("metadata routing keeps first-seen order", func(t *testing.T) {
		batches, err := groupByTopic("", []*message.Message{msgFor("b"), msgFor("a"), msgFor("b")})
		require.NoError(t, err)
		require.Len(t, batches, 2)
		assert.Equal(t, "b", batches[0].topic)
		assert.Len(t, batches[0].messages, 2)
		assert.Equal(t, "a", batches[1].topic)
	})

	t.Run("missing topic fails", func(t *testing.T) {
		_, err := groupByTopic("", []*message.Message{msgFor("")})
		assert.Error(t, err)
	})

	t.Run("empty uuid is filled", func(t *testing.T) {
		m := msgFor("x")
		_, err := groupByTopic("", []*message.Message{m})
		require.NoError(t, err)
		assert.NotEmpty(t, m.UUID)
	})
}

func TestMergeSubjects(t *testing.T) {
	merged, changed := mergeSubjects([]string{"draw.>"}, []string{"draw.>", "score.>"})
	assert.True(t, changed)
	assert.Equal(t, []string{"draw.>", "score.>"}, merged)

	_, changed = mergeSubjects([]string{"draw.>"}, []string{"draw.>"})
	assert.False(t, changed)
}

func TestConnectOptions(t *testing.T) {
	kp, err := nkeys.CreateUser()
	require.NoError(t, err)
	seed, err := kp.Seed()
	require.NoError(t, err)

	opts, err := connectOptions(Config{URL: "nats://localhost:4222", NKeySeed: string(seed), ClientName: "test"})
	require.NoError(t, err)
	assert.Len(t, opts, 4)

	_, err = connectOptions(Config{NKeySeed: "not-a-seed"})
	assert.Error(t, err)
}
