package device

import (
	"image/color"
	"slices"
	"testing"

	"github.com/calvinmclean/challengerwifi"
	"github.com/calvinmclean/challengerwifi/sequencer"
)

func TestWheel(t *testing.T) {
	tests := []struct {
		pos      uint8
		expected color.RGBA
	}{
		{255, color.RGBA{R: 255, G: 0, B: 0}},
		{170, color.RGBA{R: 0, G: 0, B: 255}},
		{85, color.RGBA{R: 0, G: 255, B: 0}},
		{0, color.RGBA{R: 255, G: 0, B: 0}},
	}

	for _, tt := range tests {
		got := wheel(tt.pos)
		if got != tt.expected {
			t.Errorf("wheel(%d): expected=%v, got=%v", tt.pos, tt.expected, got)
		}
	}
}

func TestScale(t *testing.T) {
	got := scale(color.RGBA{R: 255, G: 128, B: 0}, 3)
	expected := color.RGBA{R: 3, G: 2, B: 0, A: 255}
	if got != expected {
		t.Errorf("expected=%v, got=%v", expected, got)
	}

	got = scale(color.RGBA{R: 255}, 255)
	if got.R != 255 {
		t.Errorf("expected full brightness to keep 255, got %d", got.R)
	}
}

func TestGateStartCadence(t *testing.T) {
	g, err := sequencer.NewGate(GateStart, challengerwifi.DefaultGateDivisor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var fired []int
	for tick := range 96 {
		if _, ok := g.Tick(); ok {
			fired = append(fired, tick)
		}
	}

	expected := []int{31, 63, 95}
	if !slices.Equal(fired, expected) {
		t.Errorf("expected=%v, got=%v", expected, fired)
	}
}
