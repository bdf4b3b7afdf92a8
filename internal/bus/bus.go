// Package bus provides best-effort, at-most-once broadcast of pet state
// updates to in-process listeners (overlay renderers, loggers, test hooks).
//
// Delivery is never guaranteed: a subscriber whose buffer is full simply
// misses the update. That matches the fire-and-forget tab messaging this
// replaces, where a closed or busy tab dropped the message on the floor.
package bus

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/petstate"
)

var (
	ErrBusClosed          = errors.New("bus closed")
	ErrSubscriberExists   = errors.New("subscriber already registered")
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrNilChannel         = errors.New("nil channel")
)

// Update is one pet state change as seen by the poll loop.
type Update struct {
	Gif      petstate.Gif
	Health   int
	Dead     bool
	Died     bool
	Observed time.Time
}

// SubscriberStats counts deliveries and drops for one subscriber.
type SubscriberStats struct {
	Sent    uint64
	Dropped uint64
}

type subscriber struct {
	ch    chan<- Update
	stats *SubscriberStats
}

type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
	published   uint64
	closed      bool
}

func New() *Bus {
	return &Bus{subscribers: make(map[string]*subscriber)}
}

func (b *Bus) Subscribe(id string, ch chan<- Update) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBusClosed
	}
	if ch == nil {
		return ErrNilChannel
	}
	if _, exists := b.subscribers[id]; exists {
		return ErrSubscriberExists
	}
	b.subscribers[id] = &subscriber{ch: ch, stats: &SubscriberStats{}}
	return nil
}

func (b *Bus) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.subscribers[id]; !exists {
		return ErrSubscriberNotFound
	}
	delete(b.subscribers, id)
	return nil
}

// Publish delivers the update to every subscriber that can take it right
// now. A full buffer means a drop, never a block.
func (b *Bus) Publish(update Update) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	atomic.AddUint64(&b.published, 1)
	for _, sub := range b.subscribers {
		select {
		case sub.ch <- update:
			atomic.AddUint64(&sub.stats.Sent, 1)
		default:
			atomic.AddUint64(&sub.stats.Dropped, 1)
		}
	}
}

func (b *Bus) Stats(id string) (SubscriberStats, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	sub, exists := b.subscribers[id]
	if !exists {
		return SubscriberStats{}, ErrSubscriberNotFound
	}
	return SubscriberStats{
		Sent:    atomic.LoadUint64(&sub.stats.Sent),
		Dropped: atomic.LoadUint64(&sub.stats.Dropped),
	}, nil
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.subscribers = make(map[string]*subscriber)
}
