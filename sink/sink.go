package sink

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/calvinmclean/challengerwifi"
)

// Sink receives the UDP payloads sent by a board and passes them to a Reporter. The status
// carried by the first payload starts a stage, and every change of status starts another
type Sink struct {
	conn     net.PacketConn
	reporter Reporter
	out      io.Writer

	received  int
	lastValid bool
	last      challengerwifi.Status
}

// Listen opens a UDP socket on addr, which is usually ":8080"
func Listen(addr string, reporter Reporter, out io.Writer) (*Sink, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("error listening on %s: %w", addr, err)
	}
	return New(conn, reporter, out), nil
}

// New creates a Sink that reads from conn
func New(conn net.PacketConn, reporter Reporter, out io.Writer) *Sink {
	if reporter == nil {
		reporter = NoopReporter{}
	}
	if out == nil {
		out = io.Discard
	}
	return &Sink{conn: conn, reporter: reporter, out: out}
}

// Addr is the local address of the socket
func (s *Sink) Addr() net.Addr {
	return s.conn.LocalAddr()
}

// Received is the number of valid payloads handled so far
func (s *Sink) Received() int {
	return s.received
}

// Run reads payloads until ctx is cancelled or the socket fails. The socket is closed when Run
// returns, and the report is ended only after a cancellation
func (s *Sink) Run(ctx context.Context) error {
	defer s.conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.conn.Close()
		case <-done:
		}
	}()

	buf := make([]byte, 64)
	for {
		n, from, err := s.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return s.reporter.Done(context.WithoutCancel(ctx))
			}
			return fmt.Errorf("error reading: %w", err)
		}

		// reporting errors are printed so a TWChart outage does not stop the sink
		err = s.handle(ctx, buf[:n], from, time.Now())
		if err != nil {
			fmt.Fprintf(s.out, "%s: %v\n", from, err)
		}
	}
}

func (s *Sink) handle(ctx context.Context, data []byte, from net.Addr, now time.Time) error {
	status, err := challengerwifi.ParsePayload(data)
	if err != nil {
		return err
	}
	s.received++

	fmt.Fprintf(s.out, "%s status=%d\n", from, status)

	if s.received == 1 {
		err = s.reporter.SetStartTime(ctx, now)
		if err != nil {
			return fmt.Errorf("error setting start time: %w", err)
		}
	}

	if !s.lastValid || status != s.last {
		err = s.reporter.AddStage(ctx, "Status "+strconv.Itoa(int(status)), now)
		if err != nil {
			return fmt.Errorf("error adding stage: %w", err)
		}
		s.last = status
		s.lastValid = true
	}

	err = s.reporter.AddEvent(ctx, "payload from "+from.String(), now)
	if err != nil {
		return fmt.Errorf("error adding event: %w", err)
	}

	return nil
}
