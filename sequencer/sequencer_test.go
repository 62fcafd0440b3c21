package sequencer

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/calvinmclean/challengerwifi"
)

func testNetwork() challengerwifi.Network {
	n := challengerwifi.DefaultNetwork()
	n.SSID = "ssid"
	n.Password = "pwd"
	n.RemoteIP = "10.0.0.2"
	return n
}

func TestTickFiresOnlyOnGateMultiples(t *testing.T) {
	ch := &fakeChannel{}
	frames := &frameRecorder{}
	s := New(Hardware{Channel: ch, Ticker: &fakeTicker{}, Animator: frames}, testNetwork(), 4)

	for i := 0; i < 512; i++ {
		before := s.Ordinal()
		fired := s.Tick()
		if expected := i%32 == 0; fired != expected {
			t.Fatalf("tick %d: expected fired=%t, got %t", i, expected, fired)
		}
		if fired && s.Ordinal() != before+1 {
			t.Errorf("tick %d: expected ordinal to advance from %d, got %d", i, before, s.Ordinal())
		}
		if !fired && s.Ordinal() != before {
			t.Errorf("tick %d: ordinal changed without firing", i)
		}
	}

	if len(frames.frames) != 512 {
		t.Errorf("expected 512 frames, got %d", len(frames.frames))
	}
}

func TestManualFireKeepsGateCadence(t *testing.T) {
	s := New(Hardware{Channel: &fakeChannel{}, Ticker: &fakeTicker{}}, testNetwork(), 0)

	// one gated trigger, then a manual one between gate multiples
	for range 5 {
		s.Tick()
	}
	s.Fire()
	if s.Step() != challengerwifi.StepJoin || s.Ordinal() != 3 {
		t.Fatalf("expected Join at ordinal 3, got %s at %d", s.Step(), s.Ordinal())
	}

	var fired []int
	for i := 5; i < 96; i++ {
		if s.Tick() {
			fired = append(fired, i)
		}
	}

	expected := []int{32, 64}
	if !slices.Equal(fired, expected) {
		t.Errorf("expected=%v, got=%v", expected, fired)
	}
	if s.Step() != challengerwifi.StepForOrdinal(s.Ordinal()) {
		t.Errorf("step %s does not match ordinal %d", s.Step(), s.Ordinal())
	}
}

func TestFirstTwoTriggers(t *testing.T) {
	var log []string
	ch := &fakeChannel{log: &log}
	s := New(Hardware{
		Channel:  ch,
		Reset:    fakePin{name: "rst", log: &log},
		BootMode: fakePin{name: "boot", log: &log},
		Ticker:   &fakeTicker{},
	}, testNetwork(), 0)

	for range 33 {
		s.Tick()
	}

	expected := []string{
		"rst low",
		"boot high",
		"rst high",
		"write AT+CWHOSTNAME=\"Challenger\"\r\n",
		"write AT+CWMODE=3\r\n",
	}
	if !slices.Equal(log, expected) {
		t.Errorf("expected=%q, got=%q", expected, log)
	}
	if s.Step() != challengerwifi.StepJoin {
		t.Errorf("expected=%s, got=%s", challengerwifi.StepJoin, s.Step())
	}
	if s.Ordinal() != 3 {
		t.Errorf("expected ordinal 3, got %d", s.Ordinal())
	}
}

func TestFireSequence(t *testing.T) {
	tests := []struct {
		ordinal  uint64
		step     challengerwifi.Step
		expected string
	}{
		{1, challengerwifi.StepReset, ""},
		{2, challengerwifi.StepIdentify, "AT+CWHOSTNAME=\"Challenger\"\r\nAT+CWMODE=3\r\n"},
		{3, challengerwifi.StepJoin, "AT+CWJAP=\"ssid\",\"pwd\"\r\n"},
		{4, challengerwifi.StepQueryAddress, "AT+CIFSR\r\n"},
		{5, challengerwifi.StepOpenSocket, "AT+CIPSTART=\"UDP\",\"10.0.0.2\",8080,1112,2\r\n"},
		{6, challengerwifi.StepSendAnnounce, "AT+CIPSEND=10\r\n"},
		{7, challengerwifi.StepSendPayload, "UDPtest 5\nAT+CIPCLOSE"},
		{8, challengerwifi.StepSendAnnounce, "AT+CIPSEND=10\r\n"},
		{9, challengerwifi.StepSendPayload, "UDPtest 5\nAT+CIPCLOSE"},
	}

	ch := &fakeChannel{}
	s := New(Hardware{Channel: ch, Ticker: &fakeTicker{}}, testNetwork(), 5)

	for _, tt := range tests {
		t.Run(tt.step.String(), func(t *testing.T) {
			if s.Ordinal() != tt.ordinal {
				t.Fatalf("expected ordinal %d, got %d", tt.ordinal, s.Ordinal())
			}
			if s.Step() != tt.step {
				t.Fatalf("expected=%s, got=%s", tt.step, s.Step())
			}
			if challengerwifi.StepForOrdinal(s.Ordinal()) != s.Step() {
				t.Errorf("ordinal %d does not map to %s", s.Ordinal(), s.Step())
			}

			ch.writes = nil
			s.Fire()
			if got := ch.written(); got != tt.expected {
				t.Errorf("expected=%q, got=%q", tt.expected, got)
			}
		})
	}
}

func TestPayloadCarriesStatus(t *testing.T) {
	tests := []struct {
		name  string
		last  readResult
		digit string
	}{
		{"FourBytesRead", readResult{n: 4}, "4"},
		{"FramingError", readResult{err: &challengerwifi.ReadFault{Kind: challengerwifi.FaultFraming}}, "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &fakeChannel{reads: []readResult{{}, {}, {}, tt.last}}
			hw := Hardware{Channel: ch, Ticker: &fakeTicker{}}

			status, err := AcquireStatus(hw, time.Millisecond)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			s := New(hw, testNetwork(), status)
			for range 7 {
				s.Fire()
			}

			if !strings.HasSuffix(ch.written(), "UDPtest "+tt.digit+"\nAT+CIPCLOSE") {
				t.Errorf("expected payload with digit %s, got %q", tt.digit, ch.written())
			}
		})
	}
}

func TestDeterministicReplay(t *testing.T) {
	run := func() string {
		ch := &fakeChannel{reads: []readResult{{}, {}, {}, {n: 3}}}
		hw := Hardware{Channel: ch, Ticker: &fakeTicker{}}
		status, err := AcquireStatus(hw, time.Millisecond)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		s := New(hw, testNetwork(), status)
		for range 1000 {
			s.Tick()
		}
		return ch.written()
	}

	first, second := run(), run()
	if first != second {
		t.Errorf("expected identical writes, got %q and %q", first, second)
	}
}

type failingChannel struct {
	fakeChannel
}

func (c *failingChannel) Write(p []byte) (int, error) {
	return 0, errors.New("tx fault")
}

func TestWriteErrorsDoNotStopSequence(t *testing.T) {
	obs := &recordingObserver{}
	s := New(Hardware{Channel: &failingChannel{}, Ticker: &fakeTicker{}}, testNetwork(), 0, WithObserver(obs))

	for range 3 {
		s.Fire()
	}

	if s.Step() != challengerwifi.StepQueryAddress {
		t.Errorf("expected=%s, got=%s", challengerwifi.StepQueryAddress, s.Step())
	}

	// reset event, two identify commands, one join command
	if len(obs.events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(obs.events))
	}
	for _, e := range obs.events[1:] {
		if e.Err == nil {
			t.Errorf("expected write error for %s", e.Step)
		}
	}
}

func TestRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ticker := &cancelAfterTicker{n: 100, cancel: cancel}
	s := New(Hardware{Channel: &fakeChannel{}, Ticker: ticker}, testNetwork(), 0, WithInterval(time.Millisecond))

	err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if ticker.calls != 100 {
		t.Errorf("expected 100 ticks, got %d", ticker.calls)
	}
	// ticks 0, 32, 64, and 96 fired
	if s.Ordinal() != 5 {
		t.Errorf("expected ordinal 5, got %d", s.Ordinal())
	}
}

type cancelAfterTicker struct {
	n      int
	calls  int
	cancel func()
}

func (t *cancelAfterTicker) Wait(time.Duration) {
	t.calls++
	if t.calls == t.n {
		t.cancel()
	}
}
