package engine

import "sync"

// subscriberBuffer is the channel capacity handed to each subscriber.
const subscriberBuffer = 16

// Stream is a replay-latest broadcast. Subscribers receive every published
// value in publish order; a late subscriber immediately receives the most
// recent value. A slow subscriber loses its oldest buffered values, never
// the newest.
type Stream[T any] struct {
	mu     sync.Mutex
	last   T
	seeded bool
	subs   map[int]chan T
	nextID int
}

func newStream[T any]() *Stream[T] {
	return &Stream[T]{subs: make(map[int]chan T)}
}

// Subscribe registers a subscriber and returns its channel together with a
// cancel function. If a value was already published, it is delivered first.
func (s *Stream[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	ch := make(chan T, subscriberBuffer)
	if s.seeded {
		ch <- s.last
	}
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Latest returns the most recently published value, if any.
func (s *Stream[T]) Latest() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.seeded
}

// publish caches v and delivers it to every subscriber without blocking.
// When a subscriber's buffer is full its oldest value is dropped to make
// room, preserving delivery order.
func (s *Stream[T]) publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = v
	s.seeded = true

	for _, ch := range s.subs {
		for {
			select {
			case ch <- v:
			default:
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}
