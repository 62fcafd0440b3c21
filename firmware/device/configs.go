//go:build rp2040

package device

import (
	"machine"
)

// UARTConfig selects the pins and baud rate of the link to the WiFi module
type UARTConfig struct {
	TX       machine.Pin
	RX       machine.Pin
	BaudRate uint32
}

// PinConfig has the board's pin assignments
type PinConfig struct {
	NeoPixel machine.Pin
	LED      machine.Pin
	// WiFiReset holds the ESP module in reset while low
	WiFiReset machine.Pin
	// WiFiBoot selects normal boot when high
	WiFiBoot machine.Pin
}

// Config has everything needed to set up the Device
type Config struct {
	Pins PinConfig
	UART UARTConfig
	// Brightness of the NeoPixel from 0 to 255
	Brightness uint8
}

// ChallengerRP2040WiFi is the pin map of the iLabs Challenger RP2040 WiFi
var ChallengerRP2040WiFi = Config{
	Pins: PinConfig{
		NeoPixel:  machine.GPIO11,
		LED:       machine.GPIO12,
		WiFiBoot:  machine.GPIO13,
		WiFiReset: machine.GPIO19,
	},
	UART: UARTConfig{
		TX:       machine.GPIO4,
		RX:       machine.GPIO5,
		BaudRate: 115200,
	},
	Brightness: 3,
}
