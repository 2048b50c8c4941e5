package schedule

import (
	"context"
	"sync"
)

// Snapshot is the full descending session list at a point in time.
type Snapshot []*ScheduleItem

// hub fans committed-mutation snapshots out to subscribers.
//
// Publish is non-blocking: a subscriber whose buffered channel is full drops
// the update. Every delivered value is a complete list rather than a delta, so
// a dropped update is recovered by the next one.
type hub struct {
	mu     sync.Mutex
	subs   map[uint64]chan Snapshot
	nextID uint64
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[uint64]chan Snapshot)}
}

// Subscribe returns the current snapshot, a channel of subsequent snapshots,
// and an unsubscribe func. The channel is registered before the current state
// is read so a mutation racing the subscription is never missed.
func (s *Store) Subscribe(ctx context.Context, buffer int) (Snapshot, <-chan Snapshot, func(), error) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Snapshot, buffer)

	s.hub.mu.Lock()
	if s.hub.closed {
		s.hub.mu.Unlock()
		close(ch)
		return nil, ch, func() {}, nil
	}
	s.hub.nextID++
	id := s.hub.nextID
	s.hub.subs[id] = ch
	s.hub.mu.Unlock()

	unsubscribe := s.unsubscribeFunc(id)

	current, err := s.ListAllDescending(ctx)
	if err != nil {
		unsubscribe()
		return nil, nil, nil, err
	}
	return Snapshot(current), ch, unsubscribe, nil
}

func (s *Store) unsubscribeFunc(id uint64) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			s.hub.mu.Lock()
			if ch, ok := s.hub.subs[id]; ok {
				delete(s.hub.subs, id)
				close(ch)
			}
			s.hub.mu.Unlock()
		})
	}
}

// publish pushes a fresh snapshot to every subscriber after a committed
// mutation. Failing to read the snapshot drops the notification; subscribers
// catch up on the next mutation and the write itself already committed.
func (s *Store) publish(ctx context.Context) {
	s.hub.mu.Lock()
	empty := len(s.hub.subs) == 0 || s.hub.closed
	s.hub.mu.Unlock()
	if empty {
		return
	}

	items, err := s.ListAllDescending(ctx)
	if err != nil {
		s.logger.Warn("snapshot refresh failed", "error", err)
		return
	}
	snapshot := Snapshot(items)

	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	for _, ch := range s.hub.subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
