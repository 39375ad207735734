package notice

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Deduper решает, можно ли показать уведомление с данным ключом прямо сейчас
type Deduper interface {
	Allow(ctx context.Context, key string) bool
}

// Key - id уведомления, если задан, иначе текст сообщения
func Key(id, message string) string {
	if id != "" {
		return id
	}
	return message
}

type entry struct {
	key       string
	expiresAt time.Time
}

// MemoryDeduper - ограниченный по размеру кэш ключей с истечением.
// Окно у всех ключей одинаковое, поэтому порядок вставки совпадает с порядком истечения.
type MemoryDeduper struct {
	mu       sync.Mutex
	window   time.Duration
	capacity int
	now      func() time.Time

	order   *list.List
	entries map[string]*list.Element
}

type Option func(*MemoryDeduper)

// WithClock подменяет источник времени (тесты)
func WithClock(now func() time.Time) Option {
	return func(d *MemoryDeduper) { d.now = now }
}

func NewMemoryDeduper(window time.Duration, capacity int, opts ...Option) *MemoryDeduper {
	if capacity <= 0 {
		capacity = 1024
	}
	d := &MemoryDeduper{
		window:   window,
		capacity: capacity,
		now:      time.Now,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *MemoryDeduper) Allow(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.evictExpired(now)

	if _, seen := d.entries[key]; seen {
		return false
	}

	d.entries[key] = d.order.PushBack(&entry{key: key, expiresAt: now.Add(d.window)})
	for d.order.Len() > d.capacity {
		d.removeElement(d.order.Front())
	}
	return true
}

// Len - количество активных ключей
func (d *MemoryDeduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.evictExpired(d.now())
	return d.order.Len()
}

func (d *MemoryDeduper) evictExpired(now time.Time) {
	for front := d.order.Front(); front != nil; front = d.order.Front() {
		if front.Value.(*entry).expiresAt.After(now) {
			return
		}
		d.removeElement(front)
	}
}

func (d *MemoryDeduper) removeElement(el *list.Element) {
	d.order.Remove(el)
	delete(d.entries, el.Value.(*entry).key)
}
