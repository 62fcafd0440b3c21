package sequencer

import (
	"context"
	"time"

	"github.com/calvinmclean/challengerwifi"
)

// Sequencer provisions the WiFi co-processor one Step at a time and then sends payloads forever.
// Commands are written without waiting for any response. Everything runs on the caller's goroutine
type Sequencer struct {
	hw      Hardware
	network challengerwifi.Network
	status  challengerwifi.Status

	gate     *Gate
	interval time.Duration

	step    challengerwifi.Step
	ordinal uint64

	observers []Observer
}

// Option configures a Sequencer
type Option func(*Sequencer)

// WithInterval sets the tick interval
func WithInterval(d time.Duration) Option {
	return func(s *Sequencer) {
		s.interval = d
	}
}

// WithGate replaces the default Gate, which starts at 0 and fires every 32 ticks
func WithGate(g *Gate) Option {
	return func(s *Sequencer) {
		s.gate = g
	}
}

// WithObserver adds an Observer
func WithObserver(o Observer) Option {
	return func(s *Sequencer) {
		s.observers = append(s.observers, o)
	}
}

// New creates a Sequencer at StepReset. The status is fixed for the Sequencer's lifetime
func New(hw Hardware, network challengerwifi.Network, status challengerwifi.Status, opts ...Option) *Sequencer {
	hw.setDefaults()

	s := &Sequencer{
		hw:       hw,
		network:  network,
		status:   status,
		interval: challengerwifi.DefaultTickInterval,
		step:     challengerwifi.StepReset,
		ordinal:  1,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.gate == nil {
		s.gate, _ = NewGate(0, challengerwifi.DefaultGateDivisor)
	}

	return s
}

// Run ticks until ctx is done. It only checks ctx between ticks
func (s *Sequencer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.Tick()
	}
}

// Tick draws an animation frame, fires the current Step if the Gate allows it, and then waits
// for one interval. It reports whether the Step fired
func (s *Sequencer) Tick() bool {
	value, fire := s.gate.Tick()
	if s.hw.Animator != nil {
		s.hw.Animator.Frame(value)
	}

	if fire {
		s.Fire()
	}

	s.hw.Ticker.Wait(s.interval)

	return fire
}

// Fire runs the action for the current Step immediately and advances to the next Step.
// Write errors are passed to observers and do not stop the sequence
func (s *Sequencer) Fire() {
	if s.step == challengerwifi.StepReset {
		s.hw.Reset.Set(false)
		s.hw.BootMode.Set(true)
		s.hw.Reset.Set(true)
		s.notify(Event{Step: s.step, Ordinal: s.ordinal})
	}

	for _, cmd := range s.network.Commands(s.step, s.status) {
		_, err := s.hw.Channel.Write(cmd)
		s.notify(Event{Step: s.step, Ordinal: s.ordinal, Data: cmd, Err: err})
	}

	s.step = s.step.Next()
	s.ordinal++
}

func (s *Sequencer) notify(e Event) {
	for _, o := range s.observers {
		o.Observe(e)
	}
}

// Step is the Step that fires on the next trigger
func (s *Sequencer) Step() challengerwifi.Step {
	return s.step
}

// Ordinal is the 1-based count of the next Step. It never decreases
func (s *Sequencer) Ordinal() uint64 {
	return s.ordinal
}

// Status is the status byte sent in every payload
func (s *Sequencer) Status() challengerwifi.Status {
	return s.status
}

// Gate returns the Sequencer's Gate
func (s *Sequencer) Gate() *Gate {
	return s.gate
}
