package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"CPMS-backend/internal/platform/logging"
)

const channelName = "cpms.changes"

// Event is a coarse invalidation signal: consumers are expected to
// re-fetch the whole table, not patch incrementally.
type Event struct {
	Table  string    `json:"table"`
	Action string    `json:"action"`
	At     time.Time `json:"at"`
}

type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
	rdb  *redis.Client
}

// NewHub creates the in-process hub. When redisAddr is non-empty the hub
// also publishes to Redis and re-feeds events published by other
// instances into its local subscribers.
func NewHub(redisAddr string) *Hub {
	h := &Hub{subs: make(map[chan Event]struct{})}
	if redisAddr != "" {
		h.rdb = redis.NewClient(&redis.Options{Addr: redisAddr})
		go h.bridge()
	}
	return h
}

func (h *Hub) bridge() {
	ctx := context.Background()
	sub := h.rdb.Subscribe(ctx, channelName)
	for msg := range sub.Channel() {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			logging.LogError("events", "bridge", err)
			continue
		}
		h.fanout(ev)
	}
}

// Publish fans the event out to local subscribers and, when configured,
// to the Redis channel. Delivery is at-least-once; a slow subscriber
// drops events rather than blocking the writer.
func (h *Hub) Publish(ctx context.Context, table, action string) {
	ev := Event{Table: table, Action: action, At: time.Now().UTC()}
	h.fanout(ev)

	if h.rdb == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := h.rdb.Publish(ctx, channelName, payload).Err(); err != nil {
		logging.LogError("events", "Publish", err)
	}
}

func (h *Hub) fanout(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe returns a channel of events and a cancel func the caller
// must invoke when done.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}
