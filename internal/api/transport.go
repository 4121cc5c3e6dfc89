package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Middleware wraps a RoundTripper with extra behaviour.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls f(req).
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Chain wraps base with each middleware in turn; the last one listed sees
// the request first. A nil base means http.DefaultTransport.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	for _, mw := range mws {
		rt = mw(rt)
	}
	return rt
}

// APIKey sets the X-API-Key header. An empty key leaves requests untouched.
func APIKey(key string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if key == "" {
			return next
		}
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			req = req.Clone(req.Context())
			req.Header.Set("X-API-Key", key)
			return next.RoundTrip(req)
		})
	}
}

// RequestID tags each request with a fresh UUID unless the caller set one.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(RequestIDHeader) != "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set(RequestIDHeader, uuid.NewString())
			return next.RoundTrip(req)
		})
	}
}

// Logging logs each round trip with timing information.
func Logging(logger zerolog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()

			resp, err := next.RoundTrip(req)

			duration := time.Since(start)
			if err != nil {
				logger.Error().
					Err(err).
					Str("method", req.Method).
					Str("path", req.URL.Path).
					Str("request_id", req.Header.Get(RequestIDHeader)).
					Dur("duration", duration).
					Msg("http request failed")
				return nil, err
			}

			logger.Debug().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", resp.StatusCode).
				Str("request_id", req.Header.Get(RequestIDHeader)).
				Dur("duration", duration).
				Msg("http request")

			return resp, nil
		})
	}
}
