package connection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgLog "multi-agent-collaboration/pkg/log"
)

type recordingChannel struct {
	mu       sync.Mutex
	messages []Message
	closed   bool
	failWith error
	onSend   func()
}

func (c *recordingChannel) Send(ctx context.Context, msg Message) error {
	if c.onSend != nil {
		c.onSend()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	c.messages = append(c.messages, msg)
	return nil
}

func (c *recordingChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *recordingChannel) received() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

func newTestRegistry(opts ...Option) Registry {
	return New(pkgLog.NewNop(), opts...)
}

func TestRegistry_ConnectThenDisconnect(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()
	ch := &recordingChannel{}

	r.Connect(ctx, "s1", ch, BroadcastKey)
	require.True(t, r.IsConnected("s1", BroadcastKey))

	r.Disconnect(ctx, "s1", BroadcastKey)
	assert.False(t, r.IsConnected("s1", BroadcastKey))

	assert.NotPanics(t, func() {
		r.Send(ctx, "s1", UserMessage("user", "hello"), BroadcastKey)
	})
	assert.Empty(t, ch.received())

	// Disconnecting an absent key is a no-op.
	r.Disconnect(ctx, "s1", BroadcastKey)
	r.Disconnect(ctx, "unknown", "research")
}

func TestRegistry_ReplaceKeepsLastWriter(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()
	first := &recordingChannel{}
	second := &recordingChannel{}

	r.Connect(ctx, "s1", first, "research")
	r.Send(ctx, "s1", AgentTrace("Research", "one"), "research")

	r.Connect(ctx, "s1", second, "research")
	r.Send(ctx, "s1", AgentTrace("Research", "two"), "research")
	r.BroadcastToSession(ctx, "s1", InternalComm("Coordinator", "Research", "three"))

	require.Len(t, first.received(), 1)
	assert.Equal(t, "one", first.received()[0].Content)
	assert.False(t, first.closed)

	got := second.received()
	require.Len(t, got, 2)
	assert.Equal(t, "two", got[0].Content)
	assert.Equal(t, "three", got[1].Content)

	assert.Equal(t, Stats{Sessions: 1, PrivateChannels: 1}, r.Stats())
}

func TestRegistry_SendFailureEvicts(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()
	broken := &recordingChannel{failWith: errors.New("broken pipe")}

	r.Connect(ctx, "s1", broken, BroadcastKey)

	assert.NotPanics(t, func() {
		r.Send(ctx, "s1", UserMessage("user", "hi"), BroadcastKey)
	})
	assert.False(t, r.IsConnected("s1", BroadcastKey))
	assert.Equal(t, Stats{}, r.Stats())
}

func TestRegistry_FailureOfReplacedChannelKeepsReplacement(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()
	replacement := &recordingChannel{}
	stale := &recordingChannel{failWith: errors.New("closed")}
	stale.onSend = func() {
		r.Connect(ctx, "s1", replacement, BroadcastKey)
	}

	r.Connect(ctx, "s1", stale, BroadcastKey)
	r.Send(ctx, "s1", UserMessage("user", "hi"), BroadcastKey)

	assert.True(t, r.IsConnected("s1", BroadcastKey))

	r.Send(ctx, "s1", UserMessage("user", "again"), BroadcastKey)
	require.Len(t, replacement.received(), 1)
	assert.Equal(t, "again", replacement.received()[0].Content)
}

func TestRegistry_ReleaseOnlyRemovesOwnChannel(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()
	old := &recordingChannel{}
	current := &recordingChannel{}

	r.Connect(ctx, "s1", old, "creative")
	r.Connect(ctx, "s1", current, "creative")

	r.Release(ctx, "s1", "creative", old)
	assert.True(t, r.IsConnected("s1", "creative"))

	r.Release(ctx, "s1", "creative", current)
	assert.False(t, r.IsConnected("s1", "creative"))
}

func TestRegistry_BroadcastToSessionReachesPrivateChannels(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()
	main := &recordingChannel{}
	research := &recordingChannel{}
	creative := &recordingChannel{}
	otherSession := &recordingChannel{}

	r.Connect(ctx, "s1", main, BroadcastKey)
	r.Connect(ctx, "s1", research, "research")
	r.Connect(ctx, "s1", creative, "creative")
	r.Connect(ctx, "s2", otherSession, BroadcastKey)

	r.BroadcastToSession(ctx, "s1", InternalComm("Coordinator", "Research", "handoff"))

	for _, ch := range []*recordingChannel{main, research, creative} {
		require.Len(t, ch.received(), 1)
		assert.Equal(t, TypeInternalComm, ch.received()[0].Type)
	}
	assert.Empty(t, otherSession.received())

	// Send to the broadcast key stays off the private channels.
	r.Send(ctx, "s1", UserMessage("user", "echo"), BroadcastKey)
	assert.Len(t, main.received(), 2)
	assert.Len(t, research.received(), 1)
}

func TestRegistry_BroadcastOnlyHitsBroadcastChannels(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()
	a := &recordingChannel{}
	b := &recordingChannel{}
	private := &recordingChannel{}

	r.Connect(ctx, "s1", a, BroadcastKey)
	r.Connect(ctx, "s2", b, BroadcastKey)
	r.Connect(ctx, "s2", private, "task_manager")

	r.Broadcast(ctx, ErrorMessage("maintenance"))

	assert.Len(t, a.received(), 1)
	assert.Len(t, b.received(), 1)
	assert.Empty(t, private.received())
}

func TestRegistry_TimestampAssignedAtSend(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)
	r := newTestRegistry(WithClock(func() time.Time { return now }))
	ch := &recordingChannel{}
	r.Connect(ctx, "s1", ch, BroadcastKey)

	msg := UserMessage("user", "hello")
	msg.Timestamp = 42
	now = now.Add(5 * time.Second)
	r.Send(ctx, "s1", msg, BroadcastKey)

	require.Len(t, ch.received(), 1)
	assert.Equal(t, int64(1_700_000_005_000), ch.received()[0].Timestamp)
}

func TestRegistry_DropSessionClosesChannels(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()
	main := &recordingChannel{}
	research := &recordingChannel{}
	keep := &recordingChannel{}

	r.Connect(ctx, "s1", main, BroadcastKey)
	r.Connect(ctx, "s1", research, "research")
	r.Connect(ctx, "s2", keep, BroadcastKey)

	assert.Equal(t, 2, r.DropSession(ctx, "s1"))
	assert.True(t, main.closed)
	assert.True(t, research.closed)
	assert.False(t, keep.closed)
	assert.Equal(t, 0, r.DropSession(ctx, "s1"))
	assert.Equal(t, Stats{Sessions: 1, BroadcastChannels: 1}, r.Stats())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("s%d", i%4)
			for j := 0; j < 100; j++ {
				ch := &recordingChannel{}
				if j%7 == 0 {
					ch.failWith = errors.New("gone")
				}
				r.Connect(ctx, sessionID, ch, BroadcastKey)
				r.BroadcastToSession(ctx, sessionID, AgentTrace("Research", "x"))
				r.Send(ctx, sessionID, UserMessage("user", "y"), BroadcastKey)
				r.Release(ctx, sessionID, BroadcastKey, ch)
				_ = r.Stats()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, r.Stats().BroadcastChannels)
}

func TestDeliveryResult_String(t *testing.T) {
	assert.Equal(t, "delivered", resultDelivered.String())
	assert.Equal(t, "evicted", resultEvicted.String())
	assert.Equal(t, "absent", resultAbsent.String())
}
