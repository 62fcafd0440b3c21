//go:build rp2040

package device

import (
	"device/rp"
	"errors"
	"image/color"
	"machine"
	"strconv"
	"time"

	"github.com/calvinmclean/challengerwifi"
	"github.com/calvinmclean/challengerwifi/sequencer"

	"github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/ws2812"
)

// Device is the Challenger RP2040 WiFi board. It owns the UART to the ESP module, the module's
// control pins, the NeoPixel, and the USB console
type Device struct {
	uart     *uartx.UART
	neopixel ws2812.Device
	pixel    []color.RGBA

	led       machine.Pin
	wifiReset machine.Pin
	wifiBoot  machine.Pin

	brightness uint8
	startTime  time.Time
	verbose    bool

	seq *sequencer.Sequencer
}

// New configures the pins and UART from cfg
func New(cfg Config) (*Device, error) {
	for _, p := range []machine.Pin{cfg.Pins.LED, cfg.Pins.WiFiReset, cfg.Pins.WiFiBoot, cfg.Pins.NeoPixel} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}

	u := uartx.UART1
	err := u.Configure(uartx.UARTConfig{
		BaudRate: cfg.UART.BaudRate,
		TX:       cfg.UART.TX,
		RX:       cfg.UART.RX,
	})
	if err != nil {
		return nil, errors.New("error configuring uart: " + err.Error())
	}

	return &Device{
		uart:       u,
		neopixel:   ws2812.New(cfg.Pins.NeoPixel),
		pixel:      make([]color.RGBA, 1),
		led:        cfg.Pins.LED,
		wifiReset:  cfg.Pins.WiFiReset,
		wifiBoot:   cfg.Pins.WiFiBoot,
		brightness: cfg.Brightness,
		startTime:  time.Now(),
	}, nil
}

// Hardware returns the Device's parts in the form used by the sequencer
func (d *Device) Hardware() sequencer.Hardware {
	return sequencer.Hardware{
		Channel:   d,
		Reset:     d.wifiReset,
		BootMode:  d.wifiBoot,
		Indicator: d.led,
		Ticker:    sequencer.SleepTicker{},
		Animator:  d,
	}
}

// Attach sets the Sequencer used by console commands
func (d *Device) Attach(seq *sequencer.Sequencer) {
	d.seq = seq
}

// Read copies whatever the UART has buffered into p without blocking. Line errors latched by
// the UART since the last read are returned as a *challengerwifi.ReadFault
func (d *Device) Read(p []byte) (int, error) {
	n := d.uart.TryRead(p)

	kind := lineFault()
	if kind != challengerwifi.FaultUnknown {
		return n, &challengerwifi.ReadFault{Kind: kind}
	}
	return n, nil
}

// Write blocks until all of p is queued on the UART
func (d *Device) Write(p []byte) (int, error) {
	return d.uart.Write(p)
}

// lineFault reads and clears UART1's receive status register
func lineFault() challengerwifi.FaultKind {
	rsr := rp.UART1.UARTRSR.Get()
	if rsr == 0 {
		return challengerwifi.FaultUnknown
	}
	// any write clears the latched errors
	rp.UART1.UARTRSR.Set(0)

	switch {
	case rsr&rp.UART0_UARTRSR_OE != 0:
		return challengerwifi.FaultOverrun
	case rsr&rp.UART0_UARTRSR_BE != 0:
		return challengerwifi.FaultBreak
	case rsr&rp.UART0_UARTRSR_PE != 0:
		return challengerwifi.FaultParity
	case rsr&rp.UART0_UARTRSR_FE != 0:
		return challengerwifi.FaultFraming
	default:
		return challengerwifi.FaultUnknown
	}
}

// Frame shows the colour wheel position on the NeoPixel
func (d *Device) Frame(value uint8) {
	d.pixel[0] = scale(wheel(value), d.brightness)
	err := d.neopixel.WriteColors(d.pixel)
	if err != nil {
		println(d.ts(), "error writing neopixel:", err.Error())
	}
}

// Observe prints every command in verbose mode
func (d *Device) Observe(e sequencer.Event) {
	if e.Err != nil {
		println(d.ts(), e.Step.String(), "write error:", e.Err.Error())
		return
	}
	if !d.verbose {
		return
	}
	if e.Data == nil {
		println(d.ts(), e.Step.String())
		return
	}
	println(d.ts(), e.Step.String(), strconv.Quote(string(e.Data)))
}

// Debug prints details of the sequencer's state
func (d *Device) Debug() {
	if d.seq == nil {
		println(d.ts(), "not started")
		return
	}
	s := d.ts() + " step=" + d.seq.Step().String()
	s += " ordinal=" + strconv.FormatUint(d.seq.Ordinal(), 10)
	s += " status=" + strconv.Itoa(int(d.seq.Status()))
	s += " gate=" + strconv.Itoa(int(d.seq.Gate().Value()))
	println(s)
}

// Verbose sets the Device to Verbose mode and increases logging
func (d *Device) Verbose() {
	d.verbose = true
	println(d.ts(), "Set Verbose Mode")
}

// Fire runs the sequencer's current step without waiting for the gate
func (d *Device) Fire() {
	if d.seq == nil {
		return
	}
	d.seq.Fire()
}

// SetBrightness sets the NeoPixel brightness from a 1-9 level
func (d *Device) SetBrightness(level uint) {
	if level < 1 || level > 9 {
		return
	}
	d.brightness = uint8(level)
	println(d.ts(), "B"+string(byte(level)+'0'))
}

// ReadByte reads from the USB console
func (d *Device) ReadByte() (byte, error) {
	return machine.Serial.ReadByte()
}

// Buffered is the number of bytes waiting on the USB console
func (d *Device) Buffered() int {
	return machine.Serial.Buffered()
}

// ts returns the duration timestamp for logging
func (d *Device) ts() string {
	return "[" + time.Since(d.startTime).String() + "]"
}
