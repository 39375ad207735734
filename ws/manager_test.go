package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startManager(t *testing.T) *WebSocketManager {
	t.Helper()
	m := NewWebSocketManager()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go m.Run(ctx)
	return m
}

func receive(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case msg := <-c.send:
		env, ok := msg.(Envelope)
		require.True(t, ok)
		return env
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return Envelope{}
	}
}

func assertNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Fatalf("unexpected message: %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestManager_DeliversOnlyMatchingThreadEvents(t *testing.T) {
	m := startManager(t)

	admin := newClient("admin", nil, m)
	admin.Subscribe(Subscription{ID: "thread", Table: TableMessages, Event: "*", Filters: PairFilter("admin", "u1")})
	m.Register(admin)
	require.Eventually(t, func() bool { return m.IsUserConnected("admin") }, time.Second, 5*time.Millisecond)

	m.Publish(ChangeEvent{
		Table:   TableMessages,
		Type:    EventInsert,
		Columns: map[string]string{"sender_id": "u2", "receiver_id": "admin"},
	}, "admin", "u2")
	assertNothing(t, admin)

	m.Publish(ChangeEvent{
		Table:   TableMessages,
		Type:    EventInsert,
		Columns: map[string]string{"sender_id": "u1", "receiver_id": "admin"},
		Record:  "hello",
	}, "admin", "u1")

	env := receive(t, admin)
	assert.Equal(t, "change", env.Type)
	assert.Equal(t, "thread", env.Subscription)
	assert.Equal(t, "hello", env.Event.Record)
}

func TestManager_NoticeBypassesSubscriptions(t *testing.T) {
	m := startManager(t)

	c := newClient("u1", nil, m)
	m.Register(c)
	require.Eventually(t, func() bool { return m.IsUserConnected("u1") }, time.Second, 5*time.Millisecond)

	m.Publish(ChangeEvent{Table: TableNotices, Type: EventNotice, Record: "boom"}, "u1")

	env := receive(t, c)
	assert.Equal(t, "notice", env.Type)
}

func TestManager_AudienceLimitsDelivery(t *testing.T) {
	m := startManager(t)

	a := newClient("a", nil, m)
	b := newClient("b", nil, m)
	for _, c := range []*Client{a, b} {
		c.Subscribe(Subscription{ID: "n", Table: TableNotifications})
		m.Register(c)
	}
	require.Eventually(t, func() bool { return m.GetClientCount() == 2 }, time.Second, 5*time.Millisecond)

	m.Publish(ChangeEvent{Table: TableNotifications, Type: EventInsert}, "a")

	receive(t, a)
	assertNothing(t, b)
}

func TestManager_DropsSlowClient(t *testing.T) {
	m := startManager(t)

	c := newClient("slow", nil, m)
	c.Subscribe(Subscription{ID: "n", Table: TableNotifications})
	m.Register(c)
	require.Eventually(t, func() bool { return m.IsUserConnected("slow") }, time.Second, 5*time.Millisecond)

	// буфер клиента заполнен, следующее событие не помещается
	for i := 0; i < sendBufferSize; i++ {
		c.send <- Envelope{Type: "filler"}
	}
	m.Publish(ChangeEvent{Table: TableNotifications, Type: EventInsert}, "slow")

	require.Eventually(t, func() bool { return !m.IsUserConnected("slow") }, time.Second, 5*time.Millisecond)
}

func TestManager_DroppedClientRepliesAreDiscarded(t *testing.T) {
	m := startManager(t)

	c := newClient("slow", nil, m)
	c.Subscribe(Subscription{ID: "n", Table: TableNotifications})
	m.Register(c)
	require.Eventually(t, func() bool { return m.IsUserConnected("slow") }, time.Second, 5*time.Millisecond)

	for i := 0; i < sendBufferSize; i++ {
		require.True(t, c.trySend(Envelope{Type: "filler"}))
	}
	m.Publish(ChangeEvent{Table: TableNotifications, Type: EventInsert}, "slow")
	require.Eventually(t, func() bool { return !m.IsUserConnected("slow") }, time.Second, 5*time.Millisecond)

	// клиент уже снят с хаба, а readPump продолжает отвечать
	assert.NotPanics(t, func() {
		c.handleMessage(IncomingWSMessage{Action: "ping"})
		c.handleMessage(IncomingWSMessage{Action: "unknown"})
	})
	assert.False(t, c.trySend(Envelope{Type: "pong"}))
}

func TestManager_ShutdownClosesClientsOnce(t *testing.T) {
	m := NewWebSocketManager()
	ctx, cancel := context.WithCancel(context.Background())
	go m.Run(ctx)

	c := newClient("u1", nil, m)
	m.Register(c)
	require.Eventually(t, func() bool { return m.IsUserConnected("u1") }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-m.Stopped():
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	assert.NotPanics(t, func() {
		c.handleMessage(IncomingWSMessage{Action: "ping"})
		m.Unregister(c)
	})
	assert.Equal(t, 0, m.GetClientCount())
}
