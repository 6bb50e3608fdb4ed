package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/discman/internal/model"
	"github.com/roach88/discman/internal/store"
)

// ErrClosed is returned when subscribing to a closed hub.
var ErrClosed = errors.New("live: hub closed")

// Hub fans store changes out to query subscribers.
//
// Thread-safety model:
//   - Subscribe and Close: safe from any goroutine
//   - Store change callbacks only enqueue; snapshots are loaded on the hub's
//     own notification goroutine, never on the writer's goroutine
type Hub struct {
	src    Source
	logger *slog.Logger

	changes        *queue[store.Change]
	removeListener func()
	stopped        chan struct{}

	// mu serializes snapshot loading with subscriber registration so a new
	// subscriber never observes an older snapshot after a newer one.
	mu     sync.Mutex
	topics map[Key]map[string]sink
	closed bool
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithLogger sets the hub's logger. Default: slog.Default().
func WithLogger(l *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = l
	}
}

// NewHub creates a hub reading from src and starts its notification loop.
// Call Close to stop it.
func NewHub(src Source, opts ...HubOption) *Hub {
	h := &Hub{
		src:     src,
		logger:  slog.Default(),
		changes: newQueue[store.Change](),
		stopped: make(chan struct{}),
		topics:  make(map[Key]map[string]sink),
	}

	for _, opt := range opts {
		opt(h)
	}

	h.removeListener = src.OnChange(func(c store.Change) {
		h.changes.Enqueue(c)
	})

	go h.run()
	return h
}

// Close stops the notification loop and closes every open subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()

	h.removeListener()
	h.changes.Close()
	<-h.stopped

	h.mu.Lock()
	defer h.mu.Unlock()
	for key, subs := range h.topics {
		for _, s := range subs {
			s.close()
		}
		delete(h.topics, key)
	}
}

// Courses subscribes to all courses ordered by name.
func (h *Hub) Courses(ctx context.Context) (*Subscription[[]model.Course], error) {
	return subscribe[[]model.Course](ctx, h, Key{Query: AllCourses})
}

// Holes subscribes to the holes of one course ordered by hole number.
func (h *Hub) Holes(ctx context.Context, courseID int64) (*Subscription[[]model.Hole], error) {
	return subscribe[[]model.Hole](ctx, h, Key{Query: HolesForCourse, CourseID: courseID})
}

// Players subscribes to all players ordered by name.
func (h *Hub) Players(ctx context.Context) (*Subscription[[]model.Player], error) {
	return subscribe[[]model.Player](ctx, h, Key{Query: AllPlayers})
}

// Games subscribes to all games, most recent first.
func (h *Hub) Games(ctx context.Context) (*Subscription[[]model.Game], error) {
	return subscribe[[]model.Game](ctx, h, Key{Query: AllGames})
}

// Watch subscribes to any key with untyped snapshots.
// Used by transports that only serialize the values.
func (h *Hub) Watch(ctx context.Context, key Key) (*Subscription[any], error) {
	return subscribe[any](ctx, h, key)
}

// subscribe registers a subscriber for key and queues the current snapshot.
func subscribe[T any](ctx context.Context, h *Hub, key Key) (*Subscription[T], error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}

	snapshot, err := load(ctx, h.src, key)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", key, err)
	}

	sub := newSubscriber[T](uuid.Must(uuid.NewV7()).String(), key, h)
	sub.push(snapshot)

	subs, ok := h.topics[key]
	if !ok {
		subs = make(map[string]sink)
		h.topics[key] = subs
	}
	subs[sub.id] = sub

	go sub.pump()
	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.done:
		}
	}()

	h.logger.Debug("subscribed", "query", key.String(), "subscription", sub.id)
	return &Subscription[T]{ID: sub.id, Key: key, C: sub.out, sub: sub}, nil
}

// unsubscribe drops a subscriber from its topic.
func (h *Hub) unsubscribe(key Key, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.topics[key]
	if !ok {
		return
	}
	delete(subs, id)
	if len(subs) == 0 {
		delete(h.topics, key)
	}
	h.logger.Debug("unsubscribed", "query", key.String(), "subscription", id)
}

// run is the notification loop. Changes are handled one at a time in the
// order the store committed them.
func (h *Hub) run() {
	defer close(h.stopped)

	for {
		c, ok := h.changes.TryDequeue()
		if !ok {
			if _, open := <-h.changes.Wait(); !open {
				// Drain anything enqueued before Close.
				for {
					c, ok := h.changes.TryDequeue()
					if !ok {
						return
					}
					h.publish(c)
				}
			}
			continue
		}
		h.publish(c)
	}
}

// publish reloads every topic affected by c and queues the result for its subscribers.
func (h *Hub) publish(c store.Change) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for key, subs := range h.topics {
		if len(subs) == 0 || !affects(key, c) {
			continue
		}

		snapshot, err := load(context.Background(), h.src, key)
		if err != nil {
			h.logger.Error("reload query", "query", key.String(), "table", string(c.Table), "error", err)
			continue
		}

		for _, s := range subs {
			s.push(snapshot)
		}
		h.logger.Debug("published", "query", key.String(), "table", string(c.Table), "subscribers", len(subs))
	}
}
