package controller

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/calvinmclean/challengerwifi/sequencer"
)

// SerialPortNone runs without a serial port. Commands are only written to the transcript
const SerialPortNone = "None"

// ErrNoUSBSerial is returned when no USB serial ports are found
var ErrNoUSBSerial = errors.New("no USB serial ports found")

// GetSerialPorts lists the names of USB serial ports
func GetSerialPorts() ([]string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("error listing ports: %w", err)
	}

	var result []string
	for _, p := range ports {
		if p.IsUSB {
			result = append(result, p.Name)
		}
	}

	if len(result) == 0 {
		return nil, ErrNoUSBSerial
	}
	return result, nil
}

// serialChannel adapts a serial.Port to sequencer.Channel. Writes are serialized so responses can
// be echoed from another goroutine
type serialChannel struct {
	port serial.Port
	mtx  sync.Mutex
}

func openSerial(name string, baud int, readTimeout time.Duration) (*serialChannel, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("error opening serial port %q: %w", name, err)
	}

	// reads return 0 bytes after the timeout instead of blocking forever
	err = port.SetReadTimeout(readTimeout)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("error setting read timeout: %w", err)
	}

	return &serialChannel{port: port}, nil
}

// Read reads from the port. The host serial driver does not report UART line errors, so any
// error here is one the sequencer cannot encode into a status
func (s *serialChannel) Read(p []byte) (int, error) {
	return s.port.Read(p)
}

func (s *serialChannel) Write(p []byte) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.port.Write(p)
}

func (s *serialChannel) Close() error {
	return s.port.Close()
}

// controlLine drives a modem control line as an active-low output pin
type controlLine struct {
	name string
	set  func(bool) error
}

var _ sequencer.Pin = controlLine{}

func newControlLine(port serial.Port, line string) sequencer.Pin {
	switch line {
	case LineDTR:
		return controlLine{name: "DTR", set: port.SetDTR}
	case LineRTS:
		return controlLine{name: "RTS", set: port.SetRTS}
	default:
		return nil
	}
}

// Set drives the pin high by deasserting the line
func (c controlLine) Set(high bool) {
	err := c.set(!high)
	if err != nil {
		log.Printf("error setting %s: %v", c.name, err)
	}
}

// dryRunChannel stands in for a port when SerialPortNone is used. Reads return nothing and
// writes go nowhere; the transcript shows what would have been sent
type dryRunChannel struct{}

func (dryRunChannel) Read([]byte) (int, error) {
	return 0, nil
}

func (dryRunChannel) Write(p []byte) (int, error) {
	return len(p), nil
}

func (dryRunChannel) Close() error {
	return nil
}

type channelCloser interface {
	sequencer.Channel
	io.Closer
}
