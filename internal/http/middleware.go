package http

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/stockly/internal/auth"
	"github.com/rogerio-castellano/stockly/internal/errx"
	"github.com/rogerio-castellano/stockly/internal/http/ban"
	"github.com/rogerio-castellano/stockly/internal/http/handlers"
	rl "github.com/rogerio-castellano/stockly/internal/http/rate_limiter"
	"github.com/rogerio-castellano/stockly/internal/logx"
)

const tooManyRequestsMessage = "Too many requests"

// AuthMiddleware verifies the bearer token and stores the session in the context.
func AuthMiddleware(a *auth.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				handlers.WriteError(w, http.StatusUnauthorized, handlers.UnauthorizedMessage)
				return
			}

			session, err := a.Authenticate(r.Context(), strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				status, message := errx.StatusOf(err)
				if status == http.StatusUnauthorized {
					message = handlers.UnauthorizedMessage
				} else {
					logx.Error().Err(err).Msg("session lookup failed")
				}
				handlers.WriteError(w, status, message)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
		})
	}
}

// RequestLogger logs one line per request once it has been served.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		ev := logx.Info()
		if status >= http.StatusInternalServerError {
			ev = logx.Warn()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("remote_ip", clientIP(r)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// ParseTrustedProxies parses CIDRs or bare addresses of reverse proxies.
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// TrustedRealIP applies chi's RealIP only when the connection comes from a
// trusted proxy. Forwarding headers sent by anyone else are ignored.
func TrustedRealIP(trusted []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		withRealIP := middleware.RealIP(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fromTrustedProxy(r.RemoteAddr, trusted) {
				withRealIP.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func fromTrustedProxy(remoteAddr string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(clientIPFromAddr(remoteAddr))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func clientIP(r *http.Request) string {
	return clientIPFromAddr(r.RemoteAddr)
}

func clientIPFromAddr(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// RateLimitMiddleware rejects banned clients and clients over their rate.
// Every rejection counts as a strike; enough strikes ban the client.
func RateLimitMiddleware(limiter *rl.Limiter, guard *ban.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			banned, err := guard.IsBanned(r.Context(), ip)
			if err != nil {
				logx.Warn().Err(err).Str("ip", ip).Msg("ban lookup failed")
			}
			if banned {
				handlers.WriteError(w, http.StatusTooManyRequests, tooManyRequestsMessage)
				return
			}

			if !limiter.Allow(ip) {
				if _, err := guard.Strike(r.Context(), ip, r.URL.Path); err != nil {
					logx.Warn().Err(err).Str("ip", ip).Msg("failed to record strike")
				}
				handlers.WriteError(w, http.StatusTooManyRequests, tooManyRequestsMessage)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
