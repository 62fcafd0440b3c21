package sink

import (
	"context"
	"time"

	"github.com/calvinmclean/challengerwifi/twchart"
)

// Reporter records the reports received from a board
type Reporter interface {
	CreateSession(ctx context.Context, name string) (string, error)
	SetStartTime(ctx context.Context, startTime time.Time) error
	AddEvent(ctx context.Context, note string, now time.Time) error
	AddStage(ctx context.Context, name string, now time.Time) error
	Done(ctx context.Context) error
}

var (
	_ Reporter = NoopReporter{}
	_ Reporter = (*twchart.Client)(nil)
)

// NoopReporter discards everything. It is used when no TWChart server is configured
type NoopReporter struct{}

// AddEvent implements Reporter.
func (n NoopReporter) AddEvent(ctx context.Context, note string, now time.Time) error {
	return nil
}

// AddStage implements Reporter.
func (n NoopReporter) AddStage(ctx context.Context, name string, now time.Time) error {
	return nil
}

// CreateSession implements Reporter.
func (n NoopReporter) CreateSession(ctx context.Context, name string) (string, error) {
	return "", nil
}

// Done implements Reporter.
func (n NoopReporter) Done(ctx context.Context) error {
	return nil
}

// SetStartTime implements Reporter.
func (n NoopReporter) SetStartTime(ctx context.Context, startTime time.Time) error {
	return nil
}
