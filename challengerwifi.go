package challengerwifi

import "time"

// DefaultTickInterval is the delay between animation frames and gate checks
const DefaultTickInterval = 25 * time.Millisecond

// DefaultGateDivisor is the number of ticks between sequencer actions
const DefaultGateDivisor = 32

// Step is the AT-command action that is due on the next trigger
type Step int

const (
	StepUnknown Step = iota
	StepReset
	StepIdentify
	StepJoin
	StepQueryAddress
	StepOpenSocket
	StepSendAnnounce
	StepSendPayload
)

func (s Step) String() string {
	switch s {
	case StepReset:
		return "Reset"
	case StepIdentify:
		return "Identify"
	case StepJoin:
		return "Join"
	case StepQueryAddress:
		return "QueryAddress"
	case StepOpenSocket:
		return "OpenSocket"
	case StepSendAnnounce:
		return "SendAnnounce"
	case StepSendPayload:
		return "SendPayload"
	default:
		fallthrough
	case StepUnknown:
		return "Unknown"
	}
}

// Next returns the Step that follows s. Provisioning is linear until the socket is open, then
// SendAnnounce and SendPayload alternate forever
func (s Step) Next() Step {
	switch s {
	case StepSendPayload:
		return StepSendAnnounce
	case StepUnknown:
		return StepReset
	default:
		return s + 1
	}
}

// StepForOrdinal maps a 1-based step ordinal to its Step. Ordinals from 6 on alternate by parity:
// even ordinals announce, odd ordinals send the payload
func StepForOrdinal(n uint64) Step {
	switch {
	case n == 0:
		return StepUnknown
	case n < uint64(StepSendAnnounce):
		return Step(n)
	case n%2 == 0:
		return StepSendAnnounce
	default:
		return StepSendPayload
	}
}
