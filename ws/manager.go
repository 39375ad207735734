package ws

import (
	"context"
	"sync"

	"creatorhub_backend/internal/logger"
)

type delivery struct {
	event    ChangeEvent
	audience []string
}

// WebSocketManager - хаб: реестр соединений по пользователю и рассылка событий
type WebSocketManager struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	publish    chan delivery
	done       chan struct{}
	stopped    chan struct{}
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan delivery, 256),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

// Run обрабатывает регистрацию и рассылку до отмены ctx
func (manager *WebSocketManager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(manager.done)
			manager.closeAll()
			close(manager.stopped)
			return

		case client := <-manager.register:
			manager.mu.Lock()
			if manager.clients[client.UserID] == nil {
				manager.clients[client.UserID] = make(map[*Client]struct{})
			}
			manager.clients[client.UserID][client] = struct{}{}
			manager.mu.Unlock()
			logger.Debug("ws client registered", "user_id", client.UserID)

		case client := <-manager.unregister:
			manager.remove(client)

		case d := <-manager.publish:
			manager.deliver(d)
		}
	}
}

// Stopped закрывается, когда Run завершился и все соединения закрыты
func (manager *WebSocketManager) Stopped() <-chan struct{} {
	return manager.stopped
}

// Register добавляет клиента в хаб
func (manager *WebSocketManager) Register(client *Client) {
	select {
	case manager.register <- client:
	case <-manager.done:
	}
}

// Unregister убирает клиента (безопасно после остановки хаба)
func (manager *WebSocketManager) Unregister(client *Client) {
	select {
	case manager.unregister <- client:
	case <-manager.done:
	}
}

// Publish ставит событие в очередь рассылки. Не блокирует: при переполнении событие теряется.
func (manager *WebSocketManager) Publish(evt ChangeEvent, audience ...string) {
	if len(audience) == 0 {
		return
	}
	select {
	case manager.publish <- delivery{event: evt, audience: audience}:
	default:
		logger.Warn("ws publish queue full, event dropped", "table", evt.Table, "type", evt.Type)
	}
}

func (manager *WebSocketManager) deliver(d delivery) {
	manager.mu.RLock()
	var slow []*Client
	seen := make(map[string]struct{}, len(d.audience))
	for _, userID := range d.audience {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}

		for client := range manager.clients[userID] {
			if !client.deliver(d.event) {
				slow = append(slow, client)
			}
		}
	}
	manager.mu.RUnlock()

	for _, client := range slow {
		logger.Warn("ws client disconnected due to full send channel", "user_id", client.UserID)
		manager.remove(client)
	}
}

func (manager *WebSocketManager) remove(client *Client) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	conns, ok := manager.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	client.closeSend()
	if len(conns) == 0 {
		delete(manager.clients, client.UserID)
	}
	logger.Debug("ws client unregistered", "user_id", client.UserID)
}

func (manager *WebSocketManager) closeAll() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	for userID, conns := range manager.clients {
		for client := range conns {
			client.closeSend()
		}
		delete(manager.clients, userID)
	}
}

// GetClientCount - количество соединений
func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	total := 0
	for _, conns := range manager.clients {
		total += len(conns)
	}
	return total
}

// IsUserConnected - есть ли у пользователя хотя бы одно соединение
func (manager *WebSocketManager) IsUserConnected(userID string) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients[userID]) > 0
}
