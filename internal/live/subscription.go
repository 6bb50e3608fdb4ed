package live

import "sync"

// sink is the untyped side of a subscriber as seen by the hub.
type sink interface {
	push(snapshot any)
	close()
}

// Subscription delivers snapshots of one query until closed.
// C is closed after Close, after the creating context is cancelled, or
// when the hub shuts down.
type Subscription[T any] struct {
	ID  string
	Key Key
	C   <-chan T

	sub *subscriber[T]
}

// Close stops delivery. Safe to call more than once.
func (s *Subscription[T]) Close() {
	s.sub.Close()
}

// subscriber owns a queue of pending snapshots and a pump goroutine that
// moves them onto the output channel.
type subscriber[T any] struct {
	id  string
	key Key
	hub *Hub

	pending *queue[T]
	out     chan T
	done    chan struct{}
	once    sync.Once
}

func newSubscriber[T any](id string, key Key, hub *Hub) *subscriber[T] {
	return &subscriber[T]{
		id:      id,
		key:     key,
		hub:     hub,
		pending: newQueue[T](),
		out:     make(chan T),
		done:    make(chan struct{}),
	}
}

// push queues a snapshot. Never blocks.
func (s *subscriber[T]) push(snapshot any) {
	v, _ := snapshot.(T)
	s.pending.Enqueue(v)
}

// close ends delivery without touching the hub's topic map.
// Called by the hub while it holds its lock.
func (s *subscriber[T]) close() {
	s.once.Do(func() {
		close(s.done)
		s.pending.Close()
	})
}

// Close ends delivery and removes the subscriber from its topic.
func (s *subscriber[T]) Close() {
	s.close()
	s.hub.unsubscribe(s.key, s.id)
}

// pump forwards queued snapshots in order until the subscriber is closed.
func (s *subscriber[T]) pump() {
	defer close(s.out)

	for {
		v, ok := s.pending.TryDequeue()
		if !ok {
			select {
			case <-s.done:
				return
			case <-s.pending.Wait():
			}
			continue
		}

		select {
		case s.out <- v:
		case <-s.done:
			return
		}
	}
}
