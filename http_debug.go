package gitden

import (
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"golang.org/x/time/rate"
)

// debugTransport logs full HTTP request/response dumps for troubleshooting
// API communication. Bodies may contain tokens and user data, so only enable
// it in development environments.
//
// Activate with GITDEN_DEBUG=true or DEBUG=true.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := dt.base
	if base == nil {
		base = http.DefaultTransport
	}
	// Short correlation id ties the request and response lines together.
	reqID := uuid.NewString()[:8]

	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("req_id", reqID).Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("req_id", reqID).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("req_id", reqID).Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// debugLoggingRequested checks if HTTP debug logging should be enabled.
// Both env variables are honored: GITDEN_DEBUG for targeted SDK debugging,
// DEBUG for broader application debugging that includes HTTP traffic.
func debugLoggingRequested() bool {
	return os.Getenv("GITDEN_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}

// rateLimitTransport blocks each request on a token-bucket limiter before
// forwarding it. Context cancellation aborts the wait.
type rateLimitTransport struct {
	base http.RoundTripper
	lim  *rate.Limiter
}

func (rt *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := rt.base
	if base == nil {
		base = http.DefaultTransport
	}
	if err := rt.lim.Wait(req.Context()); err != nil {
		return nil, err
	}
	return base.RoundTrip(req)
}
