package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/booking_api/pkg/errors"
)

// RateLimiter implements a fixed-window in-memory rate limiter keyed by user ID and client IP
type RateLimiter struct {
	userLimits map[string]*window
	ipLimits   map[string]*window
	mu         sync.Mutex

	userMaxRequests int
	ipMaxRequests   int
	window          time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

type window struct {
	requests  int
	resetTime time.Time
}

type keyKind int

const (
	userKeys keyKind = iota
	ipKeys
)

// limitsFor must be called with mu held.
func (rl *RateLimiter) limitsFor(kind keyKind) (map[string]*window, int) {
	if kind == userKeys {
		return rl.userLimits, rl.userMaxRequests
	}
	return rl.ipLimits, rl.ipMaxRequests
}

// NewRateLimiter creates a new rate limiter and starts its cleanup loop
func NewRateLimiter(userMaxRequests, ipMaxRequests int, windowSize time.Duration) *RateLimiter {
	rl := &RateLimiter{
		userLimits:      make(map[string]*window),
		ipLimits:        make(map[string]*window),
		userMaxRequests: userMaxRequests,
		ipMaxRequests:   ipMaxRequests,
		window:          windowSize,
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// CheckUserLimit records a request for userID and reports whether it is allowed
func (rl *RateLimiter) CheckUserLimit(userID string) bool {
	return rl.check(userKeys, userID)
}

// CheckIPLimit records a request for ip and reports whether it is allowed
func (rl *RateLimiter) CheckIPLimit(ip string) bool {
	return rl.check(ipKeys, ip)
}

func (rl *RateLimiter) check(kind keyKind, key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limits, max := rl.limitsFor(kind)

	now := time.Now()

	limit, exists := limits[key]
	if !exists || now.After(limit.resetTime) {
		limits[key] = &window{
			requests:  1,
			resetTime: now.Add(rl.window),
		}
		return true
	}

	if limit.requests >= max {
		return false
	}

	limit.requests++
	return true
}

// GetUserRemaining returns remaining requests for user
func (rl *RateLimiter) GetUserRemaining(userID string) int {
	return rl.remaining(userKeys, userID)
}

// GetIPRemaining returns remaining requests for IP
func (rl *RateLimiter) GetIPRemaining(ip string) int {
	return rl.remaining(ipKeys, ip)
}

func (rl *RateLimiter) remaining(kind keyKind, key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limits, max := rl.limitsFor(kind)

	limit, exists := limits[key]
	if !exists || time.Now().After(limit.resetTime) {
		return max
	}

	remaining := max - limit.requests
	if remaining < 0 {
		return 0
	}
	return remaining
}

// cleanup removes expired entries
func (rl *RateLimiter) cleanup() {
	defer close(rl.done)

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
		}

		rl.mu.Lock()
		now := time.Now()
		for key, limit := range rl.userLimits {
			if now.After(limit.resetTime) {
				delete(rl.userLimits, key)
			}
		}
		for key, limit := range rl.ipLimits {
			if now.After(limit.resetTime) {
				delete(rl.ipLimits, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Close stops the cleanup loop and waits for it to exit. It is safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
	<-rl.done
}

// Reset clears all rate limits (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.userLimits = make(map[string]*window)
	rl.ipLimits = make(map[string]*window)
}

// IPRateLimit rejects a client IP that exceeded its window with 429.
func IPRateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.CheckIPLimit(ip) {
			abortRateLimited(c)
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.GetIPRemaining(ip)))
		c.Next()
	}
}

// UserRateLimit must run after AuthRequired.
func UserRateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == "" {
			c.Next()
			return
		}
		if !rl.CheckUserLimit(userID) {
			abortRateLimited(c)
			return
		}
		c.Next()
	}
}

func abortRateLimited(c *gin.Context) {
	AbortWithError(c, errors.New(errors.ErrCodeRateLimitExceeded, "too many requests, please slow down"))
}
