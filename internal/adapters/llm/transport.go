// Package llm provides generative-text adapters implementing ports.TextGenerator.
// Each adapter owns its retry policy and per-call deadline; callers never retry.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
	"github.com/0xcro3dile/makanapa-go/internal/logging"
)

const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 2
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
)

// Options are shared by every generative-text adapter.
type Options struct {
	Model       string
	Timeout     time.Duration // per attempt
	MaxRetries  int           // retries after the first attempt
	MaxTokens   int
	// Temperature nil means DefaultTemperature; 0 is sent as is.
	Temperature *float64
}

func (o Options) withDefaults(model string) Options {
	if o.Model == "" {
		o.Model = model
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Temperature == nil {
		t := DefaultTemperature
		o.Temperature = &t
	}
	return o
}

// retrier runs one logical call with bounded retries on transient kinds.
type retrier struct {
	op         string
	timeout    time.Duration
	maxRetries int
	initial    time.Duration
}

func (r retrier) do(ctx context.Context, attempt func(ctx context.Context) (string, error)) (string, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.initial
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = 500 * time.Millisecond
	}
	policy.MaxInterval = 5 * time.Second
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.maxRetries)), ctx)

	tries := 0
	text, err := backoff.RetryWithData(func() (string, error) {
		tries++
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		out, err := attempt(callCtx)
		if err == nil {
			return out, nil
		}
		if !entities.KindOf(err).Retryable() {
			return "", backoff.Permanent(err)
		}
		logging.Ctx(ctx).Warn().Err(err).Str("op", r.op).Int("attempt", tries).Msg("Generative call failed")
		return "", err
	}, b)

	if err != nil {
		if _, ok := entities.AsError(err); ok {
			return "", err
		}
		// backoff surfaces the parent context error when it gives up early.
		return "", classifyTransport(r.op, err)
	}
	return text, nil
}

// classifyStatus maps a non-2xx reply to a Kind. The body is read only for error detail.
func classifyStatus(op string, resp *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	cause := errors.New(strings.TrimSpace(string(detail)))

	switch code := resp.StatusCode; {
	case code == http.StatusTooManyRequests:
		return entities.NewError(entities.UpstreamRateLimited, op, "generative service rate limit reached", cause)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return entities.NewError(entities.UpstreamAuthError, op, "generative service rejected credentials", cause)
	case code == http.StatusBadRequest || code == http.StatusNotFound || code == http.StatusUnprocessableEntity:
		return entities.NewError(entities.UpstreamBadRequest, op, fmt.Sprintf("generative service rejected the request (status %d)", code), cause)
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return entities.NewError(entities.UpstreamTimeout, op, fmt.Sprintf("generative service timed out (status %d)", code), cause)
	default:
		return entities.NewError(entities.UpstreamUnavailable, op, fmt.Sprintf("generative service returned status %d", code), cause)
	}
}

func classifyTransport(op string, err error) error {
	if isTimeout(err) {
		return entities.NewError(entities.UpstreamTimeout, op, "generative service did not respond in time", err)
	}
	return entities.NewError(entities.UpstreamUnavailable, op, "calling generative service", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
