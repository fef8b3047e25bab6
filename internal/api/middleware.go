package api

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"mechshop/internal/auth"
	"mechshop/internal/metrics"

	"github.com/google/uuid"
)

type middleware func(http.Handler) http.Handler

// chain applies middlewares so the first listed runs outermost.
func chain(h http.Handler, mws ...middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type contextKey string

const customerIDKey contextKey = "customer_id"

// customerIDFrom returns the authenticated customer id placed in the
// context by requireAuth.
func customerIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(customerIDKey).(int64)
	return id, ok
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	body   *bytes.Buffer
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.body != nil {
		r.body.Write(p)
	}
	return r.ResponseWriter.Write(p)
}

// accessLog logs each request with a request id and feeds the metrics
// counter. Endpoint label is the first path segment to keep cardinality
// bounded.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		dur := time.Since(start)

		metrics.IncHTTP(endpointLabel(r.URL.Path), recorder.status)
		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", clientIP(r)).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("http request")
	})
}

func endpointLabel(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i > 0 {
		return trimmed[:i]
	}
	if trimmed == "" {
		return "root"
	}
	return trimmed
}

// rateLimit rejects excess requests before the handler runs, so no
// persisted state is touched. Buckets are keyed by the matched route
// pattern plus the client address: exhausting one route's budget does
// not block the client on any other route.
func (s *Server) rateLimit(limiter *rateLimiter) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.allow(r.Pattern + "|" + clientIP(r)) {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth validates the bearer token and stores the customer id in
// the request context. Failures are reported before any handler runs.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			writeError(w, http.StatusUnauthorized, "token is missing")
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, http.StatusUnauthorized, "invalid token format")
			return
		}

		customerID, err := auth.ParseToken(s.cfg.Auth.JWTSecret, strings.TrimSpace(token))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), customerIDKey, customerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// cached serves GET responses from the lookaside cache keyed by path
// and query, populating it on miss.
func (s *Server) cached(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.Cache.Enabled || s.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := cacheKey(r)
		if payload, ok, err := s.cache.Get(r.Context(), key); err == nil && ok {
			metrics.IncCacheHit()
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(payload)
			return
		}
		metrics.IncCacheMiss()

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK, body: &bytes.Buffer{}}
		next.ServeHTTP(recorder, r)

		if recorder.status == http.StatusOK {
			ttl := time.Duration(s.cfg.Cache.TTLSeconds) * time.Second
			if err := s.cache.Set(r.Context(), key, recorder.body.Bytes(), ttl); err != nil {
				s.logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
			}
		}
	})
}

// invalidating drops the named cache prefixes after a successful
// mutation so reads never trail the last write through this service.
func (s *Server) invalidating(prefixes ...string) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			if s.cache == nil || recorder.status >= 300 {
				return
			}
			for _, prefix := range prefixes {
				if err := s.cache.Invalidate(r.Context(), prefix); err != nil {
					s.logger.Warn().Err(err).Str("prefix", prefix).Msg("cache invalidation failed")
				}
			}
		})
	}
}

func cacheKey(r *http.Request) string {
	key := strings.TrimPrefix(r.URL.Path, "/")
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}
	return key
}
