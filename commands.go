package challengerwifi

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// StatusQueryCommand asks the co-processor for its WiFi connection state
const StatusQueryCommand = "AT+CWSTATE?\r\n"

// Network has the values that are written into the provisioning commands
type Network struct {
	Hostname string
	SSID     string
	Password string

	// RemoteIP is the address that UDP payloads are sent to
	RemoteIP   string
	RemotePort int
	LocalPort  int
	// UDPMode is the CIPSTART mode for the socket's remote peer handling
	UDPMode int
	// PayloadSize is announced with CIPSEND before every payload
	PayloadSize int
}

// DefaultNetwork returns the Network with the fixed parameters used by the Challenger example.
// SSID, Password, and RemoteIP are left empty
func DefaultNetwork() Network {
	return Network{
		Hostname:    "Challenger",
		RemotePort:  8080,
		LocalPort:   1112,
		UDPMode:     2,
		PayloadSize: 10,
	}
}

// Commands returns the byte strings written for a Step, in order. StepReset drives pins instead of
// writing, so it has no commands
func (n Network) Commands(step Step, status Status) [][]byte {
	switch step {
	case StepIdentify:
		return [][]byte{
			[]byte(`AT+CWHOSTNAME="` + n.Hostname + "\"\r\n"),
			[]byte("AT+CWMODE=3\r\n"),
		}
	case StepJoin:
		return [][]byte{
			[]byte(`AT+CWJAP="` + n.SSID + `","` + n.Password + "\"\r\n"),
		}
	case StepQueryAddress:
		return [][]byte{
			[]byte("AT+CIFSR\r\n"),
		}
	case StepOpenSocket:
		return [][]byte{
			[]byte(`AT+CIPSTART="UDP","` + n.RemoteIP + `",` +
				strconv.Itoa(n.RemotePort) + "," +
				strconv.Itoa(n.LocalPort) + "," +
				strconv.Itoa(n.UDPMode) + "\r\n"),
		}
	case StepSendAnnounce:
		return [][]byte{
			[]byte("AT+CIPSEND=" + strconv.Itoa(n.PayloadSize) + "\r\n"),
		}
	case StepSendPayload:
		return [][]byte{
			Payload(status),
			// the co-processor accepts CIPCLOSE here without a line terminator
			[]byte("AT+CIPCLOSE"),
		}
	default:
		return nil
	}
}

// PayloadPrefix starts every UDP payload
const PayloadPrefix = "UDPtest "

// Payload returns the UDP payload carrying the status digit
func Payload(status Status) []byte {
	b := make([]byte, 0, len(PayloadPrefix)+2)
	b = append(b, PayloadPrefix...)
	b = append(b, status.Digit(), '\n')
	return b
}

// ErrInvalidPayload is returned by ParsePayload for data that was not created by Payload
var ErrInvalidPayload = errors.New("invalid payload")

// ParsePayload returns the Status carried by a UDP payload
func ParsePayload(b []byte) (Status, error) {
	b = bytes.TrimSuffix(b, []byte("\n"))
	if len(b) != len(PayloadPrefix)+1 || !bytes.HasPrefix(b, []byte(PayloadPrefix)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPayload, b)
	}
	return Status(b[len(PayloadPrefix)] - '0'), nil
}
