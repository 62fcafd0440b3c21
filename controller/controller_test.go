package controller

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/calvinmclean/challengerwifi"
	"github.com/calvinmclean/challengerwifi/sequencer"
)

type countingTicker struct {
	n      int
	calls  int
	cancel func()
}

func (t *countingTicker) Wait(time.Duration) {
	t.calls++
	if t.calls == t.n {
		t.cancel()
	}
}

// sleepingTicker gives the echo goroutine time to read between ticks
type sleepingTicker struct {
	countingTicker
}

func (t *sleepingTicker) Wait(d time.Duration) {
	time.Sleep(time.Millisecond)
	t.countingTicker.Wait(d)
}

// echoChannel replies once after the status reads and fails every read once it is closed
type echoChannel struct {
	mtx    sync.Mutex
	reads  int
	closed bool
}

func (e *echoChannel) Read(p []byte) (int, error) {
	time.Sleep(time.Millisecond)

	e.mtx.Lock()
	defer e.mtx.Unlock()
	if e.closed {
		return 0, errors.New("port closed")
	}
	e.reads++
	if e.reads == 5 {
		return copy(p, "OK\r\n"), nil
	}
	return 0, nil
}

func (e *echoChannel) Write(p []byte) (int, error) {
	return len(p), nil
}

func (e *echoChannel) Close() error {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	e.closed = true
	return nil
}

type stepRecorder struct {
	steps []challengerwifi.Step
}

func (r *stepRecorder) Observe(e sequencer.Event) {
	r.steps = append(r.steps, e.Step)
}

func TestRunDryRun(t *testing.T) {
	c, err := New(Config{
		SerialPort: SerialPortNone,
		Network: NetworkConfig{
			SSID:     "home",
			Password: "secret",
			RemoteIP: "192.168.1.20",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// one wait for the status read, then 7 triggers of 32 ticks each
	c.ticker = &countingTicker{n: 1 + 6*32 + 1, cancel: cancel}

	rec := &stepRecorder{}
	c.AddObserver(rec)

	var out bytes.Buffer
	err = c.Run(ctx, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	transcript := out.String()
	for _, expected := range []string{
		"status=0",
		`1 Reset`,
		`2 Identify > "AT+CWHOSTNAME=\"Challenger\"\r\n"`,
		`2 Identify > "AT+CWMODE=3\r\n"`,
		`3 Join > "AT+CWJAP=\"home\",\"secret\"\r\n"`,
		`4 QueryAddress > "AT+CIFSR\r\n"`,
		`5 OpenSocket > "AT+CIPSTART=\"UDP\",\"192.168.1.20\",8080,1112,2\r\n"`,
		`6 SendAnnounce > "AT+CIPSEND=10\r\n"`,
		`7 SendPayload > "UDPtest 0\n"`,
		`7 SendPayload > "AT+CIPCLOSE"`,
	} {
		if !strings.Contains(transcript, expected) {
			t.Errorf("expected transcript to contain %q, got:\n%s", expected, transcript)
		}
	}

	last := rec.steps[len(rec.steps)-1]
	if last != challengerwifi.StepSendPayload {
		t.Errorf("expected last step %s, got %s", challengerwifi.StepSendPayload, last)
	}
}

func TestRunEchoStopsBeforeReturn(t *testing.T) {
	cfg := Config{
		SerialPort:    "/dev/ttyUSB0",
		EchoResponses: true,
		Network:       NetworkConfig{SSID: "home", RemoteIP: "192.168.1.20"},
	}
	cfg.Normalize()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := &echoChannel{}
	c := &Controller{
		cfg:     cfg,
		channel: ch,
		ticker:  &sleepingTicker{countingTicker{n: 64, cancel: cancel}},
	}

	var out bytes.Buffer
	err := c.Run(ctx, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	transcript := out.String()

	// closing the port after Run must not produce any more output
	err = c.Close()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if out.String() != transcript {
		t.Errorf("expected no output after Run returned, got:\n%s", strings.TrimPrefix(out.String(), transcript))
	}
	if strings.Contains(transcript, "read error") {
		t.Errorf("expected no read error, got:\n%s", transcript)
	}
	if !strings.Contains(transcript, `< "OK\r\n"`) {
		t.Errorf("expected echoed response, got:\n%s", transcript)
	}
}

func TestNewInvalidConfig(t *testing.T) {
	_, err := New(Config{})
	if err == nil {
		t.Error("expected error for missing serial port")
	}
}
