package server

import (
	"bufio"
	"compress/gzip"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"springworks/internal/audit"
	"springworks/internal/auth"
)

// gzipWriter compresses the body unless, by the time headers are written,
// the handler has removed or replaced the Content-Encoding it was handed.
// ServeFile does this on its error paths.
type gzipWriter struct {
	http.ResponseWriter
	gz          *gzip.Writer
	wroteHeader bool
	compress    bool
}

func (w *gzipWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	h := w.Header()
	w.compress = h.Get("Content-Encoding") == "gzip" &&
		code >= 200 && code != http.StatusNoContent && code != http.StatusNotModified
	if w.compress {
		h.Del("Content-Length")
	} else if h.Get("Content-Encoding") == "gzip" {
		h.Del("Content-Encoding")
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *gzipWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", http.DetectContentType(b))
		}
		w.WriteHeader(http.StatusOK)
	}
	if !w.compress {
		return w.ResponseWriter.Write(b)
	}
	if w.gz == nil {
		w.gz = gzip.NewWriter(w.ResponseWriter)
	}
	return w.gz.Write(b)
}

func (w *gzipWriter) Flush() {
	if w.gz != nil {
		w.gz.Flush()
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *gzipWriter) finish() {
	if !w.wroteHeader {
		// Nothing was written; send no body and no encoding.
		w.Header().Del("Content-Encoding")
		return
	}
	if !w.compress {
		return
	}
	if w.gz == nil {
		w.gz = gzip.NewWriter(w.ResponseWriter)
	}
	w.gz.Close()
}

// GzipMiddleware compresses responses when client supports gzip.
// WebSocket upgrades and range requests are passed through untouched.
func GzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") ||
			r.Header.Get("Range") != "" ||
			strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		gzw := &gzipWriter{ResponseWriter: w}
		defer gzw.finish()
		next.ServeHTTP(gzw, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack passes WebSocket upgrades through to the underlying connection.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response does not support hijacking")
	}
	s.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// LoggingMiddleware tags each request with an id, logs method, path, status
// and duration, and sets CORS headers.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}

		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), CtxRequestID, id)))

		zap.S().Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", id,
		)
	})
}

// SecurityHeaders adds security headers to all responses.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")

		csp := "default-src 'self'; " +
			"script-src 'self' 'unsafe-inline'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"img-src 'self' data: blob: https:; " +
			"font-src 'self' data:; " +
			"connect-src 'self'"
		w.Header().Set("Content-Security-Policy", csp)
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		if r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, code int, msg, errCode string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": errCode})
}

// protected reports whether path needs a session: the API and the printable
// reports.
func protected(path string) bool {
	return strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/reports/")
}

// RequireAuth resolves the session cookie on protected paths and stores the
// user in the request context. Everything else passes through.
func RequireAuth(dbConn *sql.DB, secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !protected(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(audit.SessionCookie)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
				return
			}
			user, err := auth.LookupSession(r.Context(), dbConn, cookie.Value)
			if errors.Is(err, auth.ErrSessionExpired) {
				writeJSONError(w, http.StatusUnauthorized, "Session expired due to inactivity", "SESSION_TIMEOUT")
				return
			}
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     audit.SessionCookie,
				Value:    cookie.Value,
				Path:     "/",
				HttpOnly: true,
				Secure:   secureCookies,
				SameSite: http.SameSiteLaxMode,
				Expires:  time.Now().Add(auth.SessionDuration),
			})

			ctx := context.WithValue(r.Context(), CtxUserID, user.ID)
			ctx = context.WithValue(ctx, CtxUsername, user.Username)
			ctx = context.WithValue(ctx, CtxRole, user.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects /api/v1/ requests the authenticated role may not make.
func RequireRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if !strings.HasPrefix(path, "/api/v1/") {
			next.ServeHTTP(w, r)
			return
		}
		role := RoleFrom(r.Context())
		if role == "" {
			next.ServeHTTP(w, r)
			return
		}

		apiPath := strings.TrimSuffix(strings.TrimPrefix(path, "/api/v1/"), "/")
		module, action := auth.MapAPIPathToPermission(apiPath, r.Method)
		if module == "" || action == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Method == "DELETE" && r.URL.Query().Get("purge") == "true" {
			action = auth.PermActionPurge
		}
		if !auth.Allowed(role, module, action) {
			writeJSONError(w, http.StatusForbidden, "Permission denied", "FORBIDDEN")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimiter tracks request rates per key.
type RateLimiter struct {
	requests map[string][]time.Time
	mu       sync.RWMutex
}

// NewRateLimiter creates a new RateLimiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
	}
}

// Reset clears all rate limit state (for testing).
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	rl.requests = make(map[string][]time.Time)
	rl.mu.Unlock()
}

func (rl *RateLimiter) cleanupOldRequests(key string, window time.Duration) {
	cutoff := time.Now().Add(-window)

	validRequests := make([]time.Time, 0)
	for _, reqTime := range rl.requests[key] {
		if reqTime.After(cutoff) {
			validRequests = append(validRequests, reqTime)
		}
	}

	if len(validRequests) > 0 {
		rl.requests[key] = validRequests
	} else {
		delete(rl.requests, key)
	}
}

// CheckRateLimit records a request for key and reports whether it exceeds
// limit within window, the remaining budget and when the window resets.
func (rl *RateLimiter) CheckRateLimit(key string, limit int, window time.Duration) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.cleanupOldRequests(key, window)

	requests := rl.requests[key]
	resetTime := now.Add(window)
	if len(requests) > 0 {
		resetTime = requests[0].Add(window)
	}

	if len(requests) >= limit {
		return true, 0, resetTime
	}

	rl.requests[key] = append(requests, now)
	return false, limit - len(requests) - 1, resetTime
}

// Allow records a login attempt from ip and reports whether it is within 5
// per minute.
func (rl *RateLimiter) Allow(ip string) bool {
	exceeded, _, _ := rl.CheckRateLimit("login:"+ip, 5, time.Minute)
	return !exceeded
}

// RateLimitMiddleware limits API calls to 100 per minute per client IP.
func RateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}
			const limit = 100
			exceeded, remaining, resetTime := rl.CheckRateLimit("api:"+audit.GetClientIP(r), limit, time.Minute)

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetTime.Unix()))

			if exceeded {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(time.Until(resetTime).Seconds())))
				writeJSONError(w, http.StatusTooManyRequests, "Rate limit exceeded", "RATE_LIMIT_EXCEEDED")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
