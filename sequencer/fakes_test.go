package sequencer

import (
	"bytes"
	"time"
)

type readResult struct {
	n   int
	err error
}

// fakeChannel records writes and returns queued read results. Reads past the queue return 0 bytes
type fakeChannel struct {
	reads  []readResult
	writes [][]byte
	log    *[]string
}

func (c *fakeChannel) Read(p []byte) (int, error) {
	if len(c.reads) == 0 {
		return 0, nil
	}
	r := c.reads[0]
	c.reads = c.reads[1:]
	if c.log != nil {
		*c.log = append(*c.log, "read")
	}
	return r.n, r.err
}

func (c *fakeChannel) Write(p []byte) (int, error) {
	c.writes = append(c.writes, bytes.Clone(p))
	if c.log != nil {
		*c.log = append(*c.log, "write "+string(p))
	}
	return len(p), nil
}

func (c *fakeChannel) written() string {
	return string(bytes.Join(c.writes, nil))
}

type fakePin struct {
	name string
	log  *[]string
}

func (p fakePin) Set(v bool) {
	state := "low"
	if v {
		state = "high"
	}
	*p.log = append(*p.log, p.name+" "+state)
}

type fakeTicker struct {
	waits []time.Duration
	log   *[]string
}

func (t *fakeTicker) Wait(d time.Duration) {
	t.waits = append(t.waits, d)
	if t.log != nil {
		*t.log = append(*t.log, "wait")
	}
}

type recordingObserver struct {
	events []Event
}

func (o *recordingObserver) Observe(e Event) {
	o.events = append(o.events, e)
}

type frameRecorder struct {
	frames []uint8
}

func (f *frameRecorder) Frame(v uint8) {
	f.frames = append(f.frames, v)
}
