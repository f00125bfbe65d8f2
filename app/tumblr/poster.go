package tumblr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lysyi3m/blog-migrate/app/failure"
	"github.com/lysyi3m/blog-migrate/app/metrics"
)

const (
	BackoffUnit = time.Second
	MaxBackoff  = 60 * BackoffUnit
	// MaxAttempt is the last attempt index that may still be retried into.
	MaxAttempt = 20
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

type Options struct {
	Endpoint string
	Preview  bool
	Debug    bool
}

type Poster struct {
	httpClient *http.Client
	opts       Options
	sleep      Sleeper
	debugOut   func(dump string)
	recorder   metrics.Recorder
}

func NewPoster(httpClient *http.Client, opts Options, recorder metrics.Recorder) *Poster {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Poster{
		httpClient: httpClient,
		opts:       opts,
		sleep:      sleepContext,
		recorder:   recorder,
	}
}

// WithSleeper replaces the backoff wait.
func (p *Poster) WithSleeper(sleep Sleeper) *Poster {
	p.sleep = sleep
	return p
}

// WithDebugOutput sets where payload dumps go in debug mode.
func (p *Poster) WithDebugOutput(fn func(dump string)) *Poster {
	p.debugOut = fn
	return p
}

// Backoff is the wait before attempt: 2^attempt units, capped at MaxBackoff.
func Backoff(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}
	if attempt >= 6 {
		return MaxBackoff
	}
	return min(time.Duration(1<<attempt)*BackoffUnit, MaxBackoff)
}

// Run submits payload, retrying transient failures. It returns the write API
// response body on success, or an empty string in preview mode.
func (p *Poster) Run(ctx context.Context, payload Payload) (string, error) {
	for attempt := 0; ; attempt++ {
		delay := Backoff(attempt)
		if err := p.sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("post cancelled during backoff: %w", err)
		}
		p.recorder.Backoff(delay)

		if p.opts.Debug && p.debugOut != nil {
			p.debugOut(payload.Dump())
		}

		if p.opts.Preview {
			p.recorder.PostAttempt("preview")
			return "", nil
		}

		body, err := p.submit(ctx, payload)
		if err == nil {
			p.recorder.PostAttempt("created")
			return body, nil
		}

		fe, ok := failure.As(err)
		if !ok {
			return "", err
		}
		p.recorder.PostAttempt(fe.Kind.String())

		if fe.Fatal() {
			return "", fe
		}

		if attempt >= MaxAttempt {
			slog.Error("Post failed after maximum attempts",
				"title", payload.Title,
				"attempt", attempt,
				"status", fe.Status,
				"error", fe.Err)
			return "", failure.Client(fe.Status, fe.Body)
		}

		slog.Warn("Post attempt failed, retrying",
			"title", payload.Title,
			"attempt", attempt,
			"status", fe.Status,
			"next_delay", Backoff(attempt+1).String())
	}
}

func (p *Poster) submit(ctx context.Context, payload Payload) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.opts.Endpoint, strings.NewReader(payload.Form().Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("post cancelled: %w", ctx.Err())
		}
		return "", failure.Transient(0, "", fmt.Errorf("failed to send post: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", failure.Transient(resp.StatusCode, "", fmt.Errorf("failed to read response body: %w", err))
	}
	body := string(data)

	switch {
	case resp.StatusCode == http.StatusCreated:
		return body, nil
	case resp.StatusCode == http.StatusForbidden:
		return "", failure.Authentication(resp.StatusCode)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return "", failure.Client(resp.StatusCode, body)
	default:
		return "", failure.Transient(resp.StatusCode, body, nil)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
