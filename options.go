package gitden

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Option configures a Client during construction in New.
//
// Options are applied before the session transport wrapper is installed, so
// transport-related options (debug logging, rate limiting) sit underneath
// the bearer-token wrapper. Options must be deterministic and side-effect
// free.
type Option func(*Client) error

// WithHTTPTimeout sets the underlying http.Client Timeout used by the SDK.
//
// Prefer per-request context deadlines where possible; this timeout is a
// coarse safety net that bounds the total time spent on a single HTTP
// request. The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged when enabled is true.
//
// Do not enable this option in production environments as it increases
// verbosity and may include headers and method/URL metadata in logs.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			c.http.Transport = &debugTransport{base: c.http.Transport}
		}
		return nil
	}
}

// WithRateLimit caps outgoing requests at rps per second with the given
// burst, blocking (honoring the request context) once the limit is reached.
// Useful when a consumer drives many views against a shared backend.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rate limit rps and burst must be > 0")
		}
		c.http.Transport = &rateLimitTransport{
			base: c.http.Transport,
			lim:  rate.NewLimiter(rate.Limit(rps), burst),
		}
		return nil
	}
}
