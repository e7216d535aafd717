package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/casevault/backend/internal/logger"
)

// ipActivity is the per-IP tally inside the current tracking window.
type ipActivity struct {
	failedAuth int
	requests   int
}

// SuspiciousActivityDetector tracks failed auth and request volume per
// client IP over a fixed window.
type SuspiciousActivityDetector struct {
	mu          sync.Mutex
	byIP        map[string]*ipActivity
	windowStart time.Time
	window      time.Duration
}

func NewSuspiciousActivityDetector() *SuspiciousActivityDetector {
	return &SuspiciousActivityDetector{
		byIP:        make(map[string]*ipActivity),
		windowStart: time.Now(),
		window:      TrackingWindow,
	}
}

// activity rolls the window when it has lapsed and returns the tally
// for ip. Caller must hold the mutex.
func (d *SuspiciousActivityDetector) activity(ip string) *ipActivity {
	if time.Since(d.windowStart) > d.window {
		d.byIP = make(map[string]*ipActivity)
		d.windowStart = time.Now()
	}

	a, ok := d.byIP[ip]
	if !ok {
		a = &ipActivity{}
		d.byIP[ip] = a
	}
	return a
}

// RecordFailedAuth counts a rejected API key and alerts once an IP
// crosses the threshold.
func (d *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	a := d.activity(ip)
	a.failedAuth++

	if a.failedAuth >= FailedAuthAlertThreshold {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", a.failedAuth)
	}
}

// RecordRequest counts a request and reports whether the IP is still
// under the window cap.
func (d *SuspiciousActivityDetector) RecordRequest(ip string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	a := d.activity(ip)
	a.requests++

	if a.requests > RateLimitMaxRequests {
		if a.requests%100 == 0 { // avoid log spam
			slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", a.requests)
		}
		return false
	}
	return true
}

// requestCount exposes an IP's tally to tests.
func (d *SuspiciousActivityDetector) requestCount(ip string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if a, ok := d.byIP[ip]; ok {
		return a.requests
	}
	return 0
}

func isPublicPath(path string) bool {
	for _, p := range PublicPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// AuthMiddleware validates the API key on every non-public route using
// a constant-time comparison.
func AuthMiddleware(apiKey string, trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				ip := extractIP(r, trustedProxies)
				detector.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"has_key", provided != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SecurityLoggingMiddleware enforces the per-IP request cap.
func SecurityLoggingMiddleware(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !detector.RecordRequest(extractIP(r, trustedProxies)) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimitMiddleware caps request body size.
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware sets baseline hardening headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderContentType, HeaderValueNoSniff)
			w.Header().Set(HeaderFrameOptions, HeaderValueSameOrigin)
			w.Header().Set(HeaderXSSProtection, HeaderValueXSSBlock)
			w.Header().Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
			next.ServeHTTP(w, r)
		})
	}
}

// extractIP resolves the client IP. X-Forwarded-For is honored only
// when the direct peer is a trusted proxy, and then only its rightmost
// entry, the hop the proxy actually saw.
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if slices.Contains(trustedProxies, remoteIP) {
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			hops := strings.Split(forwarded, ",")
			return strings.TrimSpace(hops[len(hops)-1])
		}
	}
	return remoteIP
}
