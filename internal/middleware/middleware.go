package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"ecobank/internal/config"
	"ecobank/internal/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

type rateLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet hands out one token bucket per client IP.
type limiterSet struct {
	mu      sync.Mutex
	clients map[string]*rateLimiter
	every   time.Duration
	burst   int
	idle    time.Duration
}

func newLimiterSet(every time.Duration, burst int, idle time.Duration) *limiterSet {
	return &limiterSet{
		clients: make(map[string]*rateLimiter),
		every:   every,
		burst:   burst,
		idle:    idle,
	}
}

func (s *limiterSet) allow(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	client, exists := s.clients[ip]
	if !exists {
		client = &rateLimiter{limiter: rate.NewLimiter(rate.Every(s.every), s.burst)}
		s.clients[ip] = client
	}
	client.lastSeen = now

	for clientIP, c := range s.clients {
		if now.Sub(c.lastSeen) > s.idle {
			delete(s.clients, clientIP)
		}
	}

	return client.limiter.Allow()
}

func limit(cfg *config.Config, set *limiterSet, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip rate limiting in development mode
		if cfg.IsDevelopment() {
			c.Next()
			return
		}

		if !set.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": message})
			c.Abort()
			return
		}

		c.Next()
	}
}

func RateLimit(cfg *config.Config) gin.HandlerFunc {
	return limit(cfg, newLimiterSet(time.Second/20, 20, 10*time.Minute), "Rate limit exceeded")
}

// ScanRateLimit guards receipt scanning, which inserts several items per call.
func ScanRateLimit(cfg *config.Config) gin.HandlerFunc {
	return limit(cfg, newLimiterSet(time.Second*2, 10, 30*time.Minute), "Scan rate limit exceeded")
}

func AdminRateLimit(cfg *config.Config) gin.HandlerFunc {
	return limit(cfg, newLimiterSet(time.Minute/6, 5, 30*time.Minute), "Admin rate limit exceeded")
}

type clientTracker struct {
	errors404    []time.Time
	blockedUntil time.Time
	lastSeen     time.Time
}

// IPBlocker blocks clients that produce too many 404s in a short window.
type IPBlocker struct {
	cfg      *config.Config
	mu       sync.Mutex
	trackers map[string]*clientTracker
}

func NewIPBlocker(cfg *config.Config) *IPBlocker {
	return &IPBlocker{cfg: cfg, trackers: make(map[string]*clientTracker)}
}

func (b *IPBlocker) Block() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip IP blocking in development mode
		if b.cfg.IsDevelopment() {
			c.Next()
			return
		}

		b.mu.Lock()
		tracker, exists := b.trackers[c.ClientIP()]
		blocked := exists && time.Now().Before(tracker.blockedUntil)
		b.mu.Unlock()

		if blocked {
			c.JSON(http.StatusForbidden, gin.H{"error": "Your IP has been temporarily blocked due to excessive invalid requests"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (b *IPBlocker) Track404() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if b.cfg.IsDevelopment() || c.Writer.Status() != http.StatusNotFound {
			return
		}

		ip := c.ClientIP()
		now := time.Now()

		b.mu.Lock()
		defer b.mu.Unlock()

		tracker, exists := b.trackers[ip]
		if !exists {
			tracker = &clientTracker{}
			b.trackers[ip] = tracker
		}
		tracker.lastSeen = now

		// Keep only the last 5 minutes
		cutoff := now.Add(-5 * time.Minute)
		recent := tracker.errors404[:0]
		for _, at := range tracker.errors404 {
			if at.After(cutoff) {
				recent = append(recent, at)
			}
		}
		tracker.errors404 = append(recent, now)

		if len(tracker.errors404) >= 10 {
			tracker.blockedUntil = now.Add(15 * time.Minute)
			logger.Warn("Blocked IP after repeated 404s", "ip", ip, "count", len(tracker.errors404))
			tracker.errors404 = nil
		}

		for trackerIP, t := range b.trackers {
			if now.Sub(t.lastSeen) > 30*time.Minute && now.After(t.blockedUntil) {
				delete(b.trackers, trackerIP)
			}
		}
	}
}

func CORS(allowedOrigins string) gin.HandlerFunc {
	origins := strings.Split(allowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := false
		for _, allowedOrigin := range origins {
			if origin != "" && (origin == allowedOrigin || allowedOrigin == "*") {
				allowed = true
				break
			}
		}

		if allowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SecurityHeaders(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.IsDevelopment() {
			c.Next()
			return
		}

		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Next()
	}
}

func LogRequests() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("[%s] %s %s %d %s %s\n",
			param.TimeStamp.Format("2006/01/02 15:04:05"),
			param.Method,
			param.Path,
			param.StatusCode,
			param.Latency,
			param.ClientIP,
		)
	})
}

// AdminRequired checks HTTP basic credentials against the configured admin
// username and bcrypt hash. Development mode without a hash lets every
// request through.
func AdminRequired(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.AdminPasswordHash == "" {
			if cfg.IsDevelopment() {
				c.Next()
				return
			}
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access is not configured"})
			c.Abort()
			return
		}

		username, password, ok := c.Request.BasicAuth()
		if !ok || username != cfg.AdminUsername ||
			bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(password)) != nil {
			c.Header("WWW-Authenticate", `Basic realm="ecobank admin"`)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Set("admin", username)
		c.Next()
	}
}
