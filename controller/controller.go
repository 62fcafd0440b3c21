package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/calvinmclean/challengerwifi/sequencer"
)

// Controller runs the AT-command sequencer against a WiFi module connected to a serial port.
// The reset and boot pins are driven with the port's modem control lines
type Controller struct {
	cfg Config

	channel channelCloser
	reset   sequencer.Pin
	boot    sequencer.Pin
	ticker  sequencer.Ticker

	observers []sequencer.Observer
}

// New opens the serial port from cfg. The config is validated and normalized first
func New(cfg Config) (*Controller, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.Normalize()

	c := &Controller{cfg: cfg, ticker: sequencer.SleepTicker{}}

	if cfg.SerialPort == SerialPortNone {
		c.channel = dryRunChannel{}
		return c, nil
	}

	ch, err := openSerial(cfg.SerialPort, cfg.Baud(), cfg.TickInterval())
	if err != nil {
		return nil, err
	}
	c.channel = ch
	c.reset = newControlLine(ch.port, cfg.ResetLine)
	c.boot = newControlLine(ch.port, cfg.BootLine)

	return c, nil
}

// NewFromEnv creates a Controller using ConfigFromEnv
func NewFromEnv() (*Controller, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return New(*cfg)
}

// AddObserver adds an Observer that is notified of every command written. It must be called
// before Run
func (c *Controller) AddObserver(o sequencer.Observer) {
	c.observers = append(c.observers, o)
}

// Close closes the serial port
func (c *Controller) Close() error {
	return c.channel.Close()
}

// Run reads the module's status and then runs the sequencer until ctx is cancelled. A transcript
// of every command is written to w
func (c *Controller) Run(ctx context.Context, w io.Writer) error {
	t := newTranscript(w)

	hw := sequencer.Hardware{
		Channel:   c.channel,
		Reset:     c.reset,
		BootMode:  c.boot,
		Indicator: indicator{t: t},
		Ticker:    c.ticker,
	}

	status, err := sequencer.AcquireStatus(hw, c.cfg.TickInterval())
	if err != nil {
		return fmt.Errorf("error reading module status: %w", err)
	}
	t.printf("status=%d", status)

	gate, err := sequencer.NewGate(0, c.cfg.GateDivisor)
	if err != nil {
		return err
	}

	// echo must be finished before Run returns so nothing is written to w afterwards
	var wg sync.WaitGroup
	defer wg.Wait()
	if c.cfg.EchoResponses && c.cfg.SerialPort != SerialPortNone {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.echo(ctx, t)
		}()
	}

	opts := []sequencer.Option{
		sequencer.WithGate(gate),
		sequencer.WithInterval(c.cfg.TickInterval()),
		sequencer.WithObserver(t),
	}
	for _, o := range c.observers {
		opts = append(opts, sequencer.WithObserver(o))
	}

	seq := sequencer.New(hw, c.cfg.NetworkSettings(), status, opts...)

	err = seq.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// echo copies responses from the module to the transcript until ctx is done. Reads time out
// after one tick, so it returns within a tick of cancellation
func (c *Controller) echo(ctx context.Context, t *transcript) {
	buf := make([]byte, 256)
	for ctx.Err() == nil {
		n, err := c.channel.Read(buf)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			t.printf("read error: %v", err)
			return
		}
		if n > 0 {
			t.printf("< %s", strconv.Quote(string(buf[:n])))
		}
	}
}

// transcript writes timestamped lines. It is shared by the sequencer and the echo goroutine
type transcript struct {
	w     io.Writer
	start time.Time
	mtx   sync.Mutex
}

func newTranscript(w io.Writer) *transcript {
	return &transcript{w: w, start: time.Now()}
}

func (t *transcript) printf(format string, args ...any) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	ts := time.Since(t.start).Truncate(time.Millisecond)
	fmt.Fprintf(t.w, "[%s] "+format+"\n", append([]any{ts}, args...)...)
}

// Observe implements sequencer.Observer
func (t *transcript) Observe(e sequencer.Event) {
	switch {
	case e.Err != nil:
		t.printf("%d %s write error: %v", e.Ordinal, e.Step, e.Err)
	case e.Data == nil:
		t.printf("%d %s", e.Ordinal, e.Step)
	default:
		t.printf("%d %s > %s", e.Ordinal, e.Step, strconv.Quote(string(e.Data)))
	}
}

// indicator shows the status blinks in the transcript since the host has no LED
type indicator struct {
	t *transcript
}

func (i indicator) Set(on bool) {
	if on {
		i.t.printf("indicator on")
	}
}
