package commands

import (
	"errors"
)

type Command struct {
	Flag        byte
	InputSize   uint
	Run         func(Controller, []byte) error
	Description string
}

// Controller is used to control a device
type Controller interface {
	Debug()
	Verbose()
	Fire()
	SetBrightness(uint)

	// I/O
	ReadByte() (byte, error)
	Buffered() int
}

var (
	DebugCommand = &Command{
		Flag:      'D',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.Debug()
			return nil
		},
		Description: "Print the current step, ordinal, status, and gate value.",
	}
	VerboseCommand = &Command{
		Flag:      'V',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.Verbose()
			return nil
		},
		Description: "Enable verbose output. Every command written to the WiFi module is printed.",
	}
	FireCommand = &Command{
		Flag:      'F',
		InputSize: 0,
		Run: func(c Controller, b []byte) error {
			c.Fire()
			return nil
		},
		Description: "Run the current step now, off the gate cadence. Later steps still wait for gate multiples.",
	}
	BrightnessCommand = &Command{
		Flag:      'B',
		InputSize: 1,
		Run: func(c Controller, input []byte) error {
			v := b2i(input[0])
			if v == 0 {
				return errors.New("invalid input: " + string(input))
			}
			c.SetBrightness(v)
			return nil
		},
		Description: "Set the NeoPixel brightness. Input: 1-9.",
	}
	HelpCommand = &Command{
		Flag:        'H',
		InputSize:   0,
		Description: "Show all available commands and their descriptions.",
		Run: func(c Controller, b []byte) error {
			println("Available Commands:")
			for _, cmd := range commands {
				println(string(cmd.Flag) + ": " + cmd.Description)
			}
			return nil
		},
	}
)

func b2i(b byte) uint {
	v := uint(b - '0')
	if v < 1 || v > 9 {
		return 0
	}
	return v
}

var commands = []*Command{
	DebugCommand,
	VerboseCommand,
	FireCommand,
	BrightnessCommand,
}

// Console dispatches single-byte commands read from the Controller
type Console struct {
	c      Controller
	cmdMap map[byte]*Command
}

func NewConsole(c Controller) *Console {
	cmdMap := map[byte]*Command{
		HelpCommand.Flag: HelpCommand,
	}

	for _, cmd := range commands {
		cmdMap[cmd.Flag] = cmd
	}

	return &Console{c: c, cmdMap: cmdMap}
}

// Poll runs at most one command if input is waiting. It returns immediately when nothing has been
// received so it can be called between ticks
func (con *Console) Poll() {
	if con.c.Buffered() == 0 {
		return
	}

	cmdIn, err := con.c.ReadByte()
	if err != nil {
		return
	}

	cmd, ok := con.cmdMap[cmdIn]
	if !ok {
		return
	}

	in := make([]byte, cmd.InputSize)
	for i := 0; i < int(cmd.InputSize); {
		b, err := con.c.ReadByte()
		if err != nil {
			continue
		}

		in[i] = b
		i++
	}

	err = cmd.Run(con.c, in)
	if err != nil {
		println("error:", err.Error())
	}
}
