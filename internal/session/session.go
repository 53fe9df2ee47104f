package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// listenerIDParam is the query parameter identifying the listener to the
// ingestion endpoint.
const listenerIDParam = "listener_id"

// Streamer produces the request body. The session pulls the producer into
// the connection through a pipe; pacing is enforced by the producer between
// frames, never by the session.
type Streamer interface {
	Run(ctx context.Context, w io.Writer) error
}

// ErrPeerClosed reports that the server ended a connection that was expected
// to stay open indefinitely. It is a transient fault.
var ErrPeerClosed = errors.New("server closed the connection")

// Client opens streaming upload sessions against one ingestion endpoint.
// A single Client is shared by all listeners; each Run call owns exactly one
// connection.
type Client struct {
	endpoint   *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient validates the endpoint URL and builds a shared upload client.
// The client carries no timeouts at all: sessions are meant to run
// indefinitely, and the request body never finishes, so even a
// response-header deadline would never start counting. Faults surface as
// connection errors, not deadlines.
func NewClient(endpoint string, logger *slog.Logger) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint URL %s: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint must be an http or https URL, got %s", endpoint)
	}

	httpClient := &http.Client{
		// No Timeout: the response body is read for as long as the server
		// keeps the connection open.
		Transport: &http.Transport{
			MaxIdleConns:        0,
			MaxIdleConnsPerHost: 0,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &Client{
		endpoint:   u,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Run opens one upload connection for the listener and feeds the streamer
// into its body. onConnected fires once with the response status as soon as
// headers arrive. Run returns only when the peer closes the connection, a
// network fault occurs, or the context is cancelled; it never returns nil.
func (c *Client) Run(ctx context.Context, listenerID string, body Streamer, onConnected func(status int)) error {
	sctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pr, pw := io.Pipe()
	producerErr := make(chan error, 1)
	go func() {
		err := body.Run(sctx, pw)
		pw.CloseWithError(err)
		producerErr <- err
	}()

	target := *c.endpoint
	query := target.Query()
	query.Set(listenerIDParam, listenerID)
	target.RawQuery = query.Encode()

	// No ContentLength: the body is an unbounded frame stream delivered with
	// chunked transfer encoding.
	req, err := http.NewRequestWithContext(sctx, http.MethodPost, target.String(), pr)
	if err != nil {
		cancel()
		<-producerErr
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		<-producerErr
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("upload connection established",
		slog.String("listener_id", listenerID),
		slog.Int("status", resp.StatusCode),
	)
	if onConnected != nil {
		onConnected(resp.StatusCode)
	}

	// Consume the response until the server drops the connection. On a
	// healthy stream this blocks for the life of the session.
	_, readErr := io.Copy(io.Discard, resp.Body)

	cancel()
	prodErr := <-producerErr

	if ctx.Err() != nil {
		return ctx.Err()
	}
	// A producer write fault carries the cause of the connection loss; a dead
	// pipe alone just means the transport tore down the body after the peer
	// went away.
	if prodErr != nil && !errors.Is(prodErr, context.Canceled) && !errors.Is(prodErr, io.ErrClosedPipe) {
		return prodErr
	}
	if readErr != nil {
		return fmt.Errorf("connection lost: %w", readErr)
	}
	return ErrPeerClosed
}
