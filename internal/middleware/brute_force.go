package middleware

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jstyp/storefront-backend/internal/cache"
	"github.com/jstyp/storefront-backend/internal/dto"
)

// AttemptWindow is how long failures are remembered. It must outlast the
// one hour lock so the 24 hour tier stays reachable.
const AttemptWindow = 24 * time.Hour

// BruteForceProtection locks an IP out of a login scope after repeated
// failures. Cache errors fail open.
type BruteForceProtection struct {
	cache cache.Cache
	scope string
}

func NewBruteForceProtection(c cache.Cache, scope string) *BruteForceProtection {
	return &BruteForceProtection{cache: c, scope: scope}
}

func (b *BruteForceProtection) attemptKey(ip string) string {
	return fmt.Sprintf("brute_force:%s:attempts:%s", b.scope, ip)
}

func (b *BruteForceProtection) lockKey(ip string) string {
	return fmt.Sprintf("brute_force:%s:lock:%s", b.scope, ip)
}

// Check rejects locked-out IPs with 429 and a Retry-After header.
func (b *BruteForceProtection) Check() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lockKey := b.lockKey(c.IP())

		locked, err := b.cache.Exists(c.UserContext(), lockKey)
		if err != nil {
			slog.Warn("brute force check failed", "scope", b.scope, "error", err)
			return c.Next()
		}
		if !locked {
			return c.Next()
		}

		ttl, _ := b.cache.TTL(c.UserContext(), lockKey)
		retryAfter := int(ttl.Seconds())
		if retryAfter <= 0 {
			retryAfter = 60
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
			Error:   true,
			Message: fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter),
		})
	}
}

// RecordFailure counts a failed attempt and applies progressive lockouts.
func (b *BruteForceProtection) RecordFailure(c *fiber.Ctx) {
	ctx := c.UserContext()
	ip := c.IP()

	attempts, err := b.cache.Increment(ctx, b.attemptKey(ip))
	if err != nil {
		return
	}
	if attempts == 1 {
		_ = b.cache.Expire(ctx, b.attemptKey(ip), AttemptWindow)
	}

	lock := LockoutFor(attempts)
	if lock == 0 {
		return
	}
	if err := b.cache.Set(ctx, b.lockKey(ip), "locked", lock); err != nil {
		slog.Warn("brute force lock failed", "scope", b.scope, "error", err)
		return
	}
	slog.Warn("login locked out", "scope", b.scope, "ip", ip, "attempts", attempts, "lock", lock.String())
}

// RecordSuccess clears the IP's counters.
func (b *BruteForceProtection) RecordSuccess(c *fiber.Ctx) {
	_ = b.cache.Delete(c.UserContext(), b.attemptKey(c.IP()), b.lockKey(c.IP()))
}

// LockoutFor maps a failure count to a lockout duration.
func LockoutFor(attempts int64) time.Duration {
	switch {
	case attempts >= 25:
		return 24 * time.Hour
	case attempts >= 10:
		return time.Hour
	case attempts >= 5:
		return 2 * time.Minute
	default:
		return 0
	}
}
