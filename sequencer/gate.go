package sequencer

import (
	"errors"
	"fmt"
)

// ErrInvalidDivisor is returned when a Gate divisor would not keep a strict period across the
// counter wrapping from 255 to 0
var ErrInvalidDivisor = errors.New("gate divisor must be a power of two between 1 and 128")

// Gate is a free-running counter that fires on every tick where the counter is a multiple of
// its divisor
type Gate struct {
	counter uint8
	divisor uint8
}

// NewGate creates a Gate starting at start
func NewGate(start uint8, divisor int) (*Gate, error) {
	if divisor < 1 || divisor > 128 || divisor&(divisor-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDivisor, divisor)
	}
	return &Gate{counter: start, divisor: uint8(divisor)}, nil
}

// Tick returns the counter value for this tick and whether it fires, then increments the counter
func (g *Gate) Tick() (uint8, bool) {
	value := g.counter
	g.counter++
	return value, value%g.divisor == 0
}

// Value is the counter value that the next Tick will observe
func (g *Gate) Value() uint8 {
	return g.counter
}
