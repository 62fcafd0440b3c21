package sequencer

import (
	"time"

	"github.com/calvinmclean/challengerwifi"
)

const (
	readBufferSize = 255
	discardReads   = 3
)

// AcquireStatus flushes stale data from the Channel, queries the co-processor, and converts the
// result of one more read into a Status. The indicator blinks once for every byte read. It is run
// once, before the Sequencer starts
func AcquireStatus(hw Hardware, interval time.Duration) (challengerwifi.Status, error) {
	hw.setDefaults()

	buf := make([]byte, readBufferSize)
	for range discardReads {
		_, _ = hw.Channel.Read(buf)
	}

	_, err := hw.Channel.Write([]byte(challengerwifi.StatusQueryCommand))
	if err != nil {
		return 0, err
	}
	hw.Indicator.Set(true)

	hw.Ticker.Wait(interval)

	n, readErr := hw.Channel.Read(buf)
	status, err := challengerwifi.StatusFromRead(n, readErr)
	if err != nil {
		return 0, err
	}

	if readErr != nil {
		hw.Indicator.Set(false)
		return status, nil
	}

	for range n {
		hw.Indicator.Set(true)
		hw.Ticker.Wait(interval)
		hw.Indicator.Set(false)
		hw.Ticker.Wait(interval)
	}

	return status, nil
}
