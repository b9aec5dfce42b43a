package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"go-membership-api/pkg/apierror"
)

// Paths that mint tokens or credentials share the stricter auth budget.
var authPathPrefixes = []string{"/api/v1/auth", "/api/v1/organization/add"}

type clientLimiter struct {
	general  *rate.Limiter
	auth     *rate.Limiter
	lastSeen time.Time
}

type RateLimitMiddleware struct {
	generalRPM  int
	authRPM     int
	behindProxy bool
	mu          sync.Mutex
	clients     map[string]*clientLimiter
	now         func() time.Time
}

func NewRateLimitMiddleware(generalRPM int, authRPM int, behindProxy bool) *RateLimitMiddleware {
	if generalRPM <= 0 {
		generalRPM = 100
	}
	if authRPM <= 0 {
		authRPM = 10
	}

	return &RateLimitMiddleware{
		generalRPM:  generalRPM,
		authRPM:     authRPM,
		behindProxy: behindProxy,
		clients:     map[string]*clientLimiter{},
		now:         time.Now,
	}
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := m.getLimiter(ClientIP(r, m.behindProxy))

		target := limiter.general
		if isAuthPath(r.URL.Path) {
			target = limiter.auth
		}

		if !target.Allow() {
			w.Header().Set("Retry-After", "60")
			writeEnvelope(w, http.StatusTooManyRequests, apierror.CodeRateLimited, "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isAuthPath(path string) bool {
	path = strings.ToLower(path)
	for _, prefix := range authPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (m *RateLimitMiddleware) getLimiter(clientIP string) *clientLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if limiter, exists := m.clients[clientIP]; exists {
		limiter.lastSeen = now
		m.gcLocked(now)
		return limiter
	}

	general := rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.generalRPM)), m.generalRPM)
	auth := rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.authRPM)), m.authRPM)
	created := &clientLimiter{general: general, auth: auth, lastSeen: now}
	m.clients[clientIP] = created
	m.gcLocked(now)

	return created
}

func (m *RateLimitMiddleware) gcLocked(now time.Time) {
	if len(m.clients) < 1000 {
		return
	}

	cutoff := now.Add(-10 * time.Minute)
	for ip, limiter := range m.clients {
		if limiter.lastSeen.Before(cutoff) {
			delete(m.clients, ip)
		}
	}
}

// ClientIP returns the caller address. Forwarding headers are only trusted
// when the server runs behind a proxy.
func ClientIP(r *http.Request, behindProxy bool) string {
	if behindProxy {
		if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}

		if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
			return realIP
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}

	if strings.TrimSpace(r.RemoteAddr) == "" {
		return "unknown"
	}

	return r.RemoteAddr
}
