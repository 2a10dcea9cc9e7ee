package services

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/codyseavey/cardledger/backend/internal/config"
	"github.com/codyseavey/cardledger/backend/internal/metrics"
)

// ErrQuotaExceeded is returned once a provider's daily budget is spent.
var ErrQuotaExceeded = errors.New("daily request quota exceeded")

// Limiter paces requests to one provider with a token bucket and an optional
// daily request budget that resets at local midnight.
type Limiter struct {
	name       string
	bucket     *rate.Limiter
	dailyLimit int

	mu             sync.Mutex
	requestsToday  int
	lastRequestDay time.Time
	now            func() time.Time
}

// NewLimiter creates a limiter. perSecond <= 0 disables pacing and
// dailyLimit <= 0 disables the daily budget.
func NewLimiter(name string, perSecond float64, burst, dailyLimit int) *Limiter {
	l := &Limiter{
		name:       name,
		dailyLimit: dailyLimit,
		now:        time.Now,
	}
	if perSecond > 0 {
		if burst <= 0 {
			burst = 1
		}
		l.bucket = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
	return l
}

// NewLimiterFromConfig builds the limiter for a configured source.
func NewLimiterFromConfig(name string, cfg config.SourceConfig) *Limiter {
	return NewLimiter(name, cfg.RatePerSecond, cfg.Burst, cfg.DailyLimit)
}

// Acquire blocks until the token bucket admits a request or ctx ends, then
// charges the daily budget.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if l.bucket != nil {
		if err := l.bucket.Wait(ctx); err != nil {
			return errors.Wrapf(err, "rate limit wait for %s", l.name)
		}
	}
	if !l.checkDailyLimit() {
		return errors.Wrapf(ErrQuotaExceeded, "%s allows %d requests per day", l.name, l.dailyLimit)
	}
	return nil
}

// checkDailyLimit reports whether another request may be made today and
// counts it when it may.
func (l *Limiter) checkDailyLimit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.dailyLimit <= 0 {
		return true
	}

	l.resetIfNewDayLocked()
	if l.requestsToday >= l.dailyLimit {
		metrics.SourceQuotaRemaining.WithLabelValues(l.name).Set(0)
		return false
	}

	l.requestsToday++
	metrics.SourceQuotaRemaining.WithLabelValues(l.name).Set(float64(l.dailyLimit - l.requestsToday))
	return true
}

func (l *Limiter) resetIfNewDayLocked() {
	now := l.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if l.lastRequestDay.Before(today) {
		l.requestsToday = 0
		l.lastRequestDay = today
	}
}

// Remaining returns the requests left today, or -1 when unlimited.
func (l *Limiter) Remaining() int {
	if l == nil || l.dailyLimit <= 0 {
		return -1
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.resetIfNewDayLocked()
	remaining := l.dailyLimit - l.requestsToday
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DailyLimit returns the configured budget, 0 when unlimited.
func (l *Limiter) DailyLimit() int {
	if l == nil {
		return 0
	}
	return l.dailyLimit
}

// Name returns the provider this limiter paces.
func (l *Limiter) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}
