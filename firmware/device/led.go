package device

import (
	"image/color"
)

// GateStart is the first gate value after boot. The board's colour loop increments before it
// checks the gate, so starting one past 128 keeps its cadence: the first reset comes 31 ticks
// after boot and the wheel starts one position past half way round
const GateStart uint8 = 129

// wheel converts a position from 0-255 to a colour. The colours go from red to green to blue and
// back to red
func wheel(pos uint8) color.RGBA {
	pos = 255 - pos
	switch {
	case pos < 85:
		return color.RGBA{R: 255 - pos*3, G: 0, B: pos * 3}
	case pos < 170:
		pos -= 85
		return color.RGBA{R: 0, G: pos * 3, B: 255 - pos*3}
	default:
		pos -= 170
		return color.RGBA{R: pos * 3, G: 255 - pos*3, B: 0}
	}
}

// scale dims each channel to brightness/256
func scale(c color.RGBA, brightness uint8) color.RGBA {
	f := func(v uint8) uint8 {
		return uint8(uint16(v) * (uint16(brightness) + 1) / 256)
	}
	return color.RGBA{R: f(c.R), G: f(c.G), B: f(c.B), A: 255}
}
