package events

import (
	"context"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConn struct {
	msgs    []*nats.Msg
	drained bool
}

func (c *recordingConn) PublishMsg(m *nats.Msg) error {
	c.msgs = append(c.msgs, m)
	return nil
}

func (c *recordingConn) Drain() error {
	c.drained = true
	return nil
}

func TestNatsPublisher(t *testing.T) {
	conn := &recordingConn{}
	p := NewNatsPublisher(conn, "sweeper")

	err := p.Publish(context.Background(), "game.finished", map[string]interface{}{
		"game_id":     "abc",
		"won":         true,
		"moves":       12,
		"duration_ms": int64(3400),
	})
	require.NoError(t, err)
	require.Len(t, conn.msgs, 1)

	msg := conn.msgs[0]
	assert.Equal(t, "sweeper.game.finished", msg.Subject)
	assert.Equal(t, contentType, msg.Header.Get("Content-Type"))

	event, err := Decode(msg.Data)
	require.NoError(t, err)
	assert.Equal(t, "abc", event["game_id"])
	assert.Equal(t, true, event["won"])
	assert.Equal(t, 12.0, event["moves"])
	assert.Equal(t, 3400.0, event["duration_ms"])

	err = p.Publish(context.Background(), "game.finished", map[string]interface{}{"bad": struct{}{}})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, "game.finished", nil), context.Canceled)

	p.Close()
	assert.True(t, conn.drained)

	_, err = Decode(nil)
	assert.Error(t, err)
}
