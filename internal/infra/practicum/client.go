// Package practicum talks to the homework review-status API.
package practicum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

const DefaultBaseURL = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

const maxErrorBody = 2 << 10

// FetchError is returned for any failure to obtain a decoded status response.
// StatusCode is zero when no HTTP response was received.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("homework statuses %s (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("homework statuses %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout. A client passed with WithHTTPClient
// is copied, never modified.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// Client fetches homework statuses with an OAuth token.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	timeout    time.Duration // zero keeps the http.Client's own timeout
	logger     *logrus.Entry
}

var _ homework.StatusSource = (*Client)(nil)

func NewClient(endpoint, token string, logger *logrus.Entry, opts ...ClientOption) *Client {
	if endpoint == "" {
		endpoint = DefaultBaseURL
	}
	c := &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
	for _, o := range opts {
		o(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient // shallow copy, the Transport stays shared
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// HomeworkStatuses performs exactly one request for changes since from.
func (c *Client) HomeworkStatuses(ctx context.Context, from int64) (*homework.StatusResponse, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, &FetchError{Op: "build request", Err: err}
	}
	params := u.Query()
	params.Set("from_date", strconv.FormatInt(from, 10)) // Unix seconds
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &FetchError{Op: "build request", Err: err}
	}
	req.Header.Set("Authorization", "OAuth "+c.token) // The API expects "OAuth", not "Bearer"
	req.Header.Set("Accept", "application/json")

	c.logger.WithField("from_date", from).Debug("Requesting homework statuses")

	// No retries here: the poll loop owns recovery and the cooldown.
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) // Keep only the start of error pages
		return nil, &FetchError{
			Op:         "request",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", string(b)),
		}
	}

	var out homework.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &FetchError{Op: "decode", StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.WithFields(logrus.Fields{
		"homeworks":    len(out.Homeworks),
		"current_date": out.CurrentDate,
	}).Debug("Homework statuses received")
	return &out, nil
}
