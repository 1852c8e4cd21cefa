package frame

import "sync"

// busMailboxSize is the fixed per-observer mailbox capacity. An observer
// that falls behind loses its oldest unread frame rather than stalling the
// capture thread, grounded on lkumar3-iitr-Sensor-Logger's CameraReader.Out
// non-blocking-send pattern and svanichkin-gocam's latest-wins frame channel.
const busMailboxSize = 4

// Subscription is a live handle returned by FrameBus.Subscribe. Read from C
// to receive frames; call Unsubscribe when done observing.
type Subscription struct {
	C <-chan *Frame

	bus *FrameBus
	ch  chan *Frame
}

// Unsubscribe removes this subscription from the bus. Safe to call more
// than once.
func (s *Subscription) Unsubscribe() {
	s.bus.unsubscribe(s.ch)
}

// FrameBus fans out every published Frame to all current observers without
// ever blocking the publisher (the capture thread). Each observer has a
// bounded mailbox; if it is full, the oldest queued frame is dropped to make
// room for the new one, so observers always see the most recent frames at
// the cost of losing older ones they failed to keep up with.
type FrameBus struct {
	mu   sync.Mutex
	subs map[chan *Frame]struct{}

	// onMailboxDrop, when set, is invoked once per evicted frame. Kept as a
	// plain callback rather than an import of the metrics package so frame
	// has no dependency on it; wired up by the caller that owns a
	// metrics.Registry.
	onMailboxDrop func()
}

// NewFrameBus constructs an empty FrameBus.
func NewFrameBus() *FrameBus {
	return &FrameBus{subs: make(map[chan *Frame]struct{})}
}

// OnMailboxDrop registers fn to be called once for every frame evicted from
// a slow observer's mailbox. Not safe to call concurrently with Publish.
func (b *FrameBus) OnMailboxDrop(fn func()) {
	b.onMailboxDrop = fn
}

// Subscribe registers a new observer and returns its Subscription.
func (b *FrameBus) Subscribe() *Subscription {
	ch := make(chan *Frame, busMailboxSize)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return &Subscription{C: ch, bus: b, ch: ch}
}

func (b *FrameBus) unsubscribe(ch chan *Frame) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

// Publish fans f out to every current observer. Never blocks: an observer
// whose mailbox is full has its oldest pending frame evicted to make room.
func (b *FrameBus) Publish(f *Frame) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- f:
		default:
			select {
			case <-ch:
				if b.onMailboxDrop != nil {
					b.onMailboxDrop()
				}
			default:
			}
			select {
			case ch <- f:
			default:
			}
		}
	}
}

// NumSubscribers reports the current observer count, chiefly for tests and metrics.
func (b *FrameBus) NumSubscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close unsubscribes and closes every live observer channel. The bus may
// not be published to again afterward.
func (b *FrameBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}
