package frame

// RingBuffer is a fixed-capacity FIFO with overwrite-on-full semantics.
// Grounded on the original C++ MeteorCaptureQt::RingBuffer
// (_examples/original_source/MeteorCaptureQt/infra/ringbuffer.{h,cpp}),
// reimplemented as a Go generic type.
type RingBuffer[T any] struct {
	buf   []T
	first int
	size  int
}

// NewRingBuffer constructs a ring of the given capacity. Panics if
// capacity == 0.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity == 0 {
		panic("frame: ring buffer capacity must be > 0")
	}
	return &RingBuffer[T]{buf: make([]T, capacity)}
}

// Push inserts item, evicting the oldest item if the ring is already full. O(1).
func (r *RingBuffer[T]) Push(item T) {
	cap := len(r.buf)
	if r.size < cap {
		r.buf[(r.first+r.size)%cap] = item
		r.size++
		return
	}
	r.buf[r.first] = item
	r.first = (r.first + 1) % cap
}

// Back returns the newest element and true, or the zero value and false if empty.
func (r *RingBuffer[T]) Back() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	idx := (r.first + r.size - 1) % len(r.buf)
	return r.buf[idx], true
}

// Unroll returns the currently resident items, oldest first.
func (r *RingBuffer[T]) Unroll() []T {
	out := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.first+i)%len(r.buf)]
	}
	return out
}

// Clear resets the ring to empty without changing its capacity.
func (r *RingBuffer[T]) Clear() {
	var zero T
	for i := range r.buf {
		r.buf[i] = zero
	}
	r.first = 0
	r.size = 0
}

// Len returns the number of items currently resident.
func (r *RingBuffer[T]) Len() int { return r.size }

// Cap returns the fixed capacity the ring was constructed with.
func (r *RingBuffer[T]) Cap() int { return len(r.buf) }
