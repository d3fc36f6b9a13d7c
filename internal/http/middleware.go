package http

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/PrLayt0n/FiLeaked/internal/errors"
	"github.com/PrLayt0n/FiLeaked/internal/httputil"
)

// CustomLoggerMiddleware logs one structured line per request.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("http request",
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Int("bytes", c.Writer.Size()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// BearerTokenMiddleware guards the /v1 routes with a static API token sent as
// "Authorization: Bearer <token>". The scheme match ignores case and the token
// comparison runs in constant time. With no token configured nothing gets in.
func BearerTokenMiddleware(apiToken string, logger *slog.Logger) gin.HandlerFunc {
	want := []byte(apiToken)

	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "bearer") {
			logger.Debug("rejected request without bearer token")
			abortUnauthorized(c, logger)
			return
		}

		got := []byte(strings.TrimSpace(token))
		if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			logger.Debug("rejected request with wrong api token")
			abortUnauthorized(c, logger)
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, logger *slog.Logger) {
	httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
	c.Abort()
}

// rateLimiterStore keeps one token bucket per client IP.
type rateLimiterStore struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rps     float64
	burst   int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware gives every client IP a bucket of burst requests that
// refills at rps. An empty bucket answers 429 with Retry-After in whole
// seconds. Idle buckets are dropped in the background until ctx is done.
func RateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &rateLimiterStore{rps: rps, burst: burst}
	go store.sweep(ctx, 5*time.Minute, time.Hour)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := store.getLimiter(ip)
		if limiter.Allow() {
			c.Next()
			return
		}

		r := limiter.Reserve()
		wait := int(r.Delay().Seconds())
		r.Cancel()
		wait = max(wait, 1)

		logger.Debug("client throttled", slog.String("client_ip", ip), slog.Int("retry_after", wait))
		c.Header("Retry-After", strconv.Itoa(wait))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":   "rate_limit_exceeded",
			"message": "Request rate for this client is over the limit, retry later",
		})
	}
}

func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clients == nil {
		s.clients = make(map[string]*clientLimiter)
	}
	cl, ok := s.clients[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
		s.clients[ip] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

func (s *rateLimiterStore) sweep(ctx context.Context, every, maxIdle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.evictIdle(now.Add(-maxIdle))
		}
	}
}

// evictIdle drops buckets last used before cutoff.
func (s *rateLimiterStore) evictIdle(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ip, cl := range s.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(s.clients, ip)
		}
	}
}

func (s *rateLimiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
