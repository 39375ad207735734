package ws

import (
	"encoding/json"
	"sync"
	"time"

	"creatorhub_backend/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBufferSize = 256
)

// IncomingWSMessage - команда клиента
type IncomingWSMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type Client struct {
	UserID  string
	conn    *websocket.Conn
	send    chan any
	manager *WebSocketManager

	mu   sync.RWMutex
	subs map[string]Subscription

	// send пишут хаб и readPump, закрывает только хаб через closeSend
	sendMu sync.Mutex
	closed bool
}

func newClient(userID string, conn *websocket.Conn, manager *WebSocketManager) *Client {
	return &Client{
		UserID:  userID,
		conn:    conn,
		send:    make(chan any, sendBufferSize),
		manager: manager,
		subs:    make(map[string]Subscription),
	}
}

// Subscribe добавляет (или заменяет) подписку
func (c *Client) Subscribe(sub Subscription) {
	c.mu.Lock()
	c.subs[sub.ID] = sub
	c.mu.Unlock()
}

func (c *Client) Unsubscribe(id string) {
	c.mu.Lock()
	delete(c.subs, id)
	c.mu.Unlock()
}

// deliver кладет подходящие события в буфер. false - буфер переполнен.
func (c *Client) deliver(evt ChangeEvent) bool {
	if evt.Type == EventNotice {
		return c.trySend(Envelope{Type: "notice", Event: &evt})
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, sub := range c.subs {
		if !sub.Matches(evt) {
			continue
		}
		e := evt
		if !c.trySend(Envelope{Type: "change", Subscription: sub.ID, Event: &e}) {
			return false
		}
	}
	return true
}

func (c *Client) trySend(msg any) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// closeSend закрывает канал отправки один раз; дальнейшие trySend возвращают false
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) readPump() {
	defer func() {
		c.manager.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msgBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws read error", "user_id", c.UserID, "error", err)
			}
			return
		}

		var msg IncomingWSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			c.trySend(Envelope{Type: "error", Error: "invalid message"})
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				logger.Warn("ws write error", "user_id", c.UserID, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg IncomingWSMessage) {
	switch msg.Action {
	case "subscribe":
		var sub Subscription
		if err := json.Unmarshal(msg.Data, &sub); err != nil || sub.ID == "" || sub.Table == "" {
			c.trySend(Envelope{Type: "error", Error: "invalid subscribe payload"})
			return
		}
		c.Subscribe(sub)
		c.trySend(Envelope{Type: "subscribed", Subscription: sub.ID})

	case "unsubscribe":
		var payload struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.ID == "" {
			c.trySend(Envelope{Type: "error", Error: "invalid unsubscribe payload"})
			return
		}
		c.Unsubscribe(payload.ID)
		c.trySend(Envelope{Type: "unsubscribed", Subscription: payload.ID})

	case "ping":
		c.trySend(Envelope{Type: "pong"})

	default:
		c.trySend(Envelope{Type: "error", Error: "unknown action: " + msg.Action})
	}
}
