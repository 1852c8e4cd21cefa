// Package statemachine implements the IDLE/DETECTING/RECORDING lifecycle
// that turns a stream of (frame, event-signal) pairs into finished clips.
//
// Grounded on Asteria::AcquisitionThread::run's state handling
// (_examples/original_source/Asteria/infra/acquisitionthread.cpp lines
// 313-367): every frame is pushed to the head ring unconditionally, and the
// DETECTING/RECORDING transitions follow the same shape. The tail-closure
// comparison uses a literal `>= tail` rather than the original's `> tail`.
package statemachine

import "meteorcam/frame"

// State is one of the three acquisition lifecycle states.
type State int

const (
	// Idle: no detection runs; frames are only accumulated in the head ring.
	Idle State = iota
	// Detecting: watching for an event signal to begin recording.
	Detecting
	// Recording: an event is in progress; frames accumulate into the clip.
	Recording
)

// String renders the state's name for logging.
func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Detecting:
		return "DETECTING"
	case Recording:
		return "RECORDING"
	default:
		return "UNKNOWN"
	}
}

// Clip is a finished sequence of frames handed to the analysis sink: the
// pre-event head-ring contents followed by every frame captured while
// RECORDING.
type Clip struct {
	ID            string
	TriggerReason string
	Frames        []*frame.Frame
}

// TriggerReasonMotion is the only trigger reason this detector produces;
// reserved as a field so a future detector can report why a clip opened
// without changing the Clip shape.
const TriggerReasonMotion = "motion"

// Machine drives the IDLE/DETECTING/RECORDING lifecycle. The zero value is
// not usable; construct with New.
type Machine struct {
	head *frame.RingBuffer[*frame.Frame]
	tail int

	state            State
	eventFrames      []*frame.Frame
	sinceLastTrigger int
}

// New constructs a Machine with the given head-ring capacity and
// tail-countdown length, starting in Idle.
func New(headCapacity, tail int) *Machine {
	return &Machine{
		head:  frame.NewRingBuffer[*frame.Frame](headCapacity),
		tail:  tail,
		state: Idle,
	}
}

// State returns the machine's current state.
func (m *Machine) State() State { return m.state }

// SetRun transitions to Detecting, the external "run" or "detect" control input.
func (m *Machine) SetRun() { m.state = Detecting }

// SetPause transitions to Idle, the external "pause" control input. Any
// in-progress clip accumulation is abandoned.
func (m *Machine) SetPause() {
	m.state = Idle
	m.eventFrames = nil
	m.sinceLastTrigger = 0
}

// Step folds in one (frame, event-signal) pair and returns a finished Clip
// if this tick closed one (RECORDING -> DETECTING transition), or nil
// otherwise. newClipID is called lazily, only when a clip is finalized on
// the RECORDING -> DETECTING transition, to assign it an identifier.
func (m *Machine) Step(f *frame.Frame, event bool, newClipID func() string) *Clip {
	// Every tick, regardless of state, the current frame joins the head ring
	// so immediate re-triggering after RECORDING ends has a full pre-event
	// buffer available.
	defer m.head.Push(f)

	switch m.state {
	case Idle:
		return nil

	case Detecting:
		if !event {
			return nil
		}
		m.state = Recording
		m.eventFrames = append(m.eventFrames, m.head.Unroll()...)
		m.eventFrames = append(m.eventFrames, f)
		m.sinceLastTrigger = 0
		return nil

	case Recording:
		m.eventFrames = append(m.eventFrames, f)
		if event {
			m.sinceLastTrigger = 0
			return nil
		}
		m.sinceLastTrigger++
		if m.sinceLastTrigger < m.tail {
			return nil
		}

		m.state = Detecting
		m.sinceLastTrigger = 0
		clip := &Clip{ID: newClipID(), TriggerReason: TriggerReasonMotion, Frames: m.eventFrames}
		m.eventFrames = nil
		return clip

	default:
		return nil
	}
}
