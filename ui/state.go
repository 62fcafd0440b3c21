package ui

import (
	"image/color"

	"github.com/calvinmclean/challengerwifi"
)

var (
	colorProvisioning = color.RGBA{R: 204, G: 136, B: 0, A: 255}
	colorSending      = color.RGBA{R: 0, G: 128, B: 0, A: 255}
	colorIdle         = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// stepColor is green once the module is sending payloads and amber while it is being provisioned
func stepColor(s challengerwifi.Step) color.Color {
	switch s {
	case challengerwifi.StepSendAnnounce, challengerwifi.StepSendPayload:
		return colorSending
	case challengerwifi.StepUnknown:
		return colorIdle
	default:
		return colorProvisioning
	}
}

// stepText describes the last step that fired
func stepText(s challengerwifi.Step) string {
	switch s {
	case challengerwifi.StepReset:
		return "Resetting module"
	case challengerwifi.StepIdentify:
		return "Setting hostname"
	case challengerwifi.StepJoin:
		return "Joining network"
	case challengerwifi.StepQueryAddress:
		return "Querying address"
	case challengerwifi.StepOpenSocket:
		return "Opening socket"
	case challengerwifi.StepSendAnnounce, challengerwifi.StepSendPayload:
		return "Sending"
	default:
		return "Waiting"
	}
}
