package sequencer

import (
	"io"
	"time"

	"github.com/calvinmclean/challengerwifi"
)

// Channel is the duplex byte stream connected to the WiFi co-processor. Read returns a
// *challengerwifi.ReadFault for UART line errors
type Channel interface {
	io.Reader
	io.Writer
}

// Pin is a digital output. machine.Pin satisfies this
type Pin interface {
	Set(bool)
}

// Ticker blocks for a fixed delay
type Ticker interface {
	Wait(time.Duration)
}

// Animator draws one animation frame for the current gate value. It is called on every tick
type Animator interface {
	Frame(value uint8)
}

// Event describes one command written by the Sequencer
type Event struct {
	Step    challengerwifi.Step
	Ordinal uint64
	Data    []byte
	Err     error
}

// Observer is notified of every Event. It runs synchronously on the Sequencer's goroutine
type Observer interface {
	Observe(Event)
}

// Hardware is everything the Sequencer drives. It is owned by the Sequencer for its lifetime
type Hardware struct {
	Channel Channel
	// Reset holds the co-processor in reset while low
	Reset Pin
	// BootMode selects normal boot when high and firmware update when low
	BootMode Pin
	// Indicator is an optional on/off light used while reading the status
	Indicator Pin
	Ticker    Ticker
	// Animator is optional
	Animator Animator
}

// SleepTicker waits with time.Sleep
type SleepTicker struct{}

func (SleepTicker) Wait(d time.Duration) {
	time.Sleep(d)
}

type noopPin struct{}

func (noopPin) Set(bool) {}

func (hw *Hardware) setDefaults() {
	if hw.Reset == nil {
		hw.Reset = noopPin{}
	}
	if hw.BootMode == nil {
		hw.BootMode = noopPin{}
	}
	if hw.Indicator == nil {
		hw.Indicator = noopPin{}
	}
	if hw.Ticker == nil {
		hw.Ticker = SleepTicker{}
	}
}
