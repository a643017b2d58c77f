package core

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type LimitConfig struct {
	Limit int
	Every time.Duration
}

type LimitOption func(l *LimitConfig)

func WithLimit(limit int) LimitOption {
	return func(l *LimitConfig) {
		l.Limit = limit
	}
}

func WithRange(r time.Duration) LimitOption {
	return func(l *LimitConfig) {
		l.Every = r
	}
}

type Limiter interface {
	Allow() bool
}

type nopLimiter struct{}

func (nopLimiter) Allow() bool { return true }

var (
	limiterMux sync.Mutex
	limiters   = make(map[string]*rate.Limiter)
)

// UseLimiter 按 key 限流，limit 代表每分钟允许的数量。
// 配置 rate_limit 为 0 时不限流。
func (s *Core) UseLimiter(key string, opts ...LimitOption) Limiter {
	cfg := &LimitConfig{
		Limit: s.cfg.RateLimit,
		Every: time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Limit <= 0 {
		return nopLimiter{}
	}

	limiterMux.Lock()
	defer limiterMux.Unlock()

	l, exist := limiters[key]
	if !exist {
		limit := rate.Every(cfg.Every / time.Duration(cfg.Limit))
		l = rate.NewLimiter(limit, cfg.Limit*2)
		limiters[key] = l
	}

	return l
}
