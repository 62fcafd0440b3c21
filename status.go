package challengerwifi

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

// ErrUnknownReadFault is returned when a read fails with something other than a UART line fault.
// There is no status code for it, so callers should treat it as fatal
var ErrUnknownReadFault = errors.New("unknown read fault")

// FaultKind is the class of UART receive error
type FaultKind int

const (
	FaultUnknown FaultKind = iota
	FaultOverrun
	FaultBreak
	FaultParity
	FaultFraming
)

func (k FaultKind) String() string {
	switch k {
	case FaultOverrun:
		return "overrun"
	case FaultBreak:
		return "break"
	case FaultParity:
		return "parity"
	case FaultFraming:
		return "framing"
	default:
		return "unknown"
	}
}

// ReadFault is returned by a Channel read that failed with a UART line error
type ReadFault struct {
	Kind FaultKind
}

func (f *ReadFault) Error() string {
	return f.Kind.String() + " error"
}

// Status is the single byte derived from the initial read of the co-processor. It is embedded
// into every payload sent afterwards
type Status uint8

// Status codes for read faults
const (
	StatusOverrun Status = 2
	StatusBreak   Status = 3
	StatusParity  Status = 4
	StatusFraming Status = 5
)

// Digit returns the ASCII character for the status. Only 0-9 produce a digit
func (s Status) Digit() byte {
	return '0' + byte(s)
}

// StatusFromRead converts the outcome of a read into a Status. A successful read yields the
// number of bytes read, saturated to a byte
func StatusFromRead(n int, err error) (Status, error) {
	if err == nil {
		return Status(clamp(n, 0, 255)), nil
	}

	var fault *ReadFault
	if !errors.As(err, &fault) {
		return 0, fmt.Errorf("%w: %w", ErrUnknownReadFault, err)
	}

	switch fault.Kind {
	case FaultOverrun:
		return StatusOverrun, nil
	case FaultBreak:
		return StatusBreak, nil
	case FaultParity:
		return StatusParity, nil
	case FaultFraming:
		return StatusFraming, nil
	default:
		return 0, fmt.Errorf("%w: %w", ErrUnknownReadFault, err)
	}
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
