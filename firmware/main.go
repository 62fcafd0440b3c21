//go:build rp2040

package main

import (
	"github.com/calvinmclean/challengerwifi"
	"github.com/calvinmclean/challengerwifi/firmware/commands"
	"github.com/calvinmclean/challengerwifi/firmware/device"
	"github.com/calvinmclean/challengerwifi/sequencer"
)

// Set at build time with -ldflags "-X main.ssid=... -X main.password=... -X main.remoteIP=..."
var (
	hostname = "Challenger"
	ssid     = ""
	password = ""
	remoteIP = ""
)

func main() {
	d, err := device.New(device.ChallengerRP2040WiFi)
	if err != nil {
		panic(err)
	}

	hw := d.Hardware()

	status, err := sequencer.AcquireStatus(hw, challengerwifi.DefaultTickInterval)
	if err != nil {
		panic(err)
	}

	network := challengerwifi.DefaultNetwork()
	network.Hostname = hostname
	network.SSID = ssid
	network.Password = password
	network.RemoteIP = remoteIP

	gate, err := sequencer.NewGate(device.GateStart, challengerwifi.DefaultGateDivisor)
	if err != nil {
		panic(err)
	}

	seq := sequencer.New(hw, network, status,
		sequencer.WithGate(gate),
		sequencer.WithObserver(d),
	)
	d.Attach(seq)

	console := commands.NewConsole(d)
	for {
		console.Poll()
		seq.Tick()
	}
}
