package twchart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/calvinmclean/babyapi"
	"github.com/calvinmclean/twchart"
)

// ErrNoSession is returned when a session is updated before CreateSession
var ErrNoSession = errors.New("no session created")

// Client records a board's UDP reports as a TWChart session. A session is a timeline of stages
// and events, so each change of the board's status becomes a stage and each packet an event
type Client struct {
	client    *babyapi.Client[*session]
	sessionID string
}

// session matches the server's resource: a top-level "id" next to the nested Session
type session struct {
	babyapi.DefaultResource
	twchart.Session `json:"Session"`
}

// NewClient creates a Client for the TWChart server at addr
func NewClient(addr string) *Client {
	return &Client{client: babyapi.NewClient[*session](addr, "/sessions")}
}

// CreateSession creates the session that the other calls update
func (c *Client) CreateSession(ctx context.Context, name string) (string, error) {
	resp, err := c.client.Post(ctx, &session{
		Session: twchart.Session{
			Name: name,
			Date: time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("error creating session: %w", err)
	}

	c.sessionID = resp.Data.GetID()
	return c.sessionID, nil
}

// SetStartTime marks when the first report arrived
func (c *Client) SetStartTime(ctx context.Context, startTime time.Time) error {
	if c.sessionID == "" {
		return ErrNoSession
	}
	_, err := c.client.Patch(ctx, c.sessionID, &session{Session: twchart.Session{
		StartTime: startTime,
	}})
	return err
}

// AddEvent adds a note at a point in time
func (c *Client) AddEvent(ctx context.Context, note string, now time.Time) error {
	return c.post(ctx, "add-event", twchart.Event{Note: note, Time: now})
}

// AddStage starts a new named stage
func (c *Client) AddStage(ctx context.Context, name string, now time.Time) error {
	return c.post(ctx, "add-stage", twchart.Stage{Name: name, Start: now})
}

// Done ends the session
func (c *Client) Done(ctx context.Context) error {
	return c.post(ctx, "done", map[string]any{"time": time.Now()})
}

// post sends body to one of the session's action endpoints, which reply with no content
func (c *Client) post(ctx context.Context, action string, body any) error {
	if c.sessionID == "" {
		return ErrNoSession
	}

	url, err := c.client.URL(c.sessionID)
	if err != nil {
		return fmt.Errorf("error building url: %w", err)
	}
	url += "/" + action

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error encoding body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.client.MakeGenericRequest(req, nil)
	if err != nil {
		return fmt.Errorf("error making %s request: %w", action, err)
	}
	if resp.Response.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected status code for %s: %d, response: %v", action, resp.Response.StatusCode, resp.Body)
	}

	return nil
}
