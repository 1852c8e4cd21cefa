// Package analysis implements the AnalysisSink: an asynchronous, bounded-
// parallelism consumer of finished clips that the capture thread never
// blocks on.
//
// Grounded on lkumar3-iitr-Sensor-Logger's RecordingController
// (_examples/lkumar3-iitr-Sensor-Logger/controller/recording_controller.go):
// the same writer-goroutine-plus-WaitGroup shutdown shape, generalized from
// a single writer to a bounded worker pool and from channel hand-off (which
// would block the producer once full) to an explicitly unbounded queue, so
// the analysis stage can fall behind without ever stalling the capture
// thread.
package analysis

import (
	"sync"

	"meteorcam/statemachine"
)

// Sink is the AnalysisSink contract: submit a finished clip and receive,
// asynchronously, the identifier it was processed under.
type Sink interface {
	// Submit enqueues clip for processing and returns a future channel that
	// receives exactly one clip ID when processing completes, or is closed
	// without a value if the sink was already closed. Never blocks.
	Submit(clip *statemachine.Clip) <-chan string
	// Close stops accepting submissions and waits for in-flight work to drain.
	Close()
	// QueueDepth reports the number of submissions not yet picked up by a worker.
	QueueDepth() int
}

// Process is the user-supplied unit of work a WorkerPoolSink runs for each
// submitted clip. It returns the clip's assigned identifier.
type Process func(clip *statemachine.Clip) string

type job struct {
	clip   *statemachine.Clip
	result chan string
}

// WorkerPoolSink is the reference AnalysisSink implementation: a fixed pool
// of worker goroutines draining an unbounded, mutex-guarded queue. Unlike a
// buffered channel, the queue never applies back-pressure to Submit.
type WorkerPoolSink struct {
	process Process

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*job
	closed bool

	wg sync.WaitGroup
}

// NewWorkerPoolSink starts workers goroutines, each running process for
// submitted clips until Close is called.
func NewWorkerPoolSink(workers int, process Process) *WorkerPoolSink {
	if workers < 1 {
		workers = 1
	}
	s := &WorkerPoolSink{process: process}
	s.cond = sync.NewCond(&s.mu)

	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.run()
	}
	return s
}

func (s *WorkerPoolSink) run() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.queue) == 0 && s.closed {
			s.mu.Unlock()
			return
		}
		j := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		id := s.process(j.clip)
		j.result <- id
		close(j.result)
	}
}

// Submit enqueues clip without blocking, regardless of current queue depth,
// and returns a future channel for the resulting clip ID.
func (s *WorkerPoolSink) Submit(clip *statemachine.Clip) <-chan string {
	result := make(chan string, 1)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(result)
		return result
	}
	s.queue = append(s.queue, &job{clip: clip, result: result})
	s.mu.Unlock()
	s.cond.Signal()
	return result
}

// QueueDepth reports submissions still waiting for a free worker.
func (s *WorkerPoolSink) QueueDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Close marks the sink closed (Submit afterward returns an already-closed
// channel) and blocks until every already-queued clip has been processed.
func (s *WorkerPoolSink) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cond.Broadcast()
	s.wg.Wait()
}
