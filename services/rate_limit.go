package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/vidgate-io/vidgate_api/model"
	"github.com/vidgate-io/vidgate_api/shared"
)

type RateLimitService struct {
	appContext.DefaultService

	configs map[string]*RateLimitConfig
	mutex   sync.RWMutex

	sqlSvc   *PostgresService
	redisSvc *RedisService
}

// RateLimitConfig represents rate limiting configuration
type RateLimitConfig struct {
	EndpointType string
	MaxRequests  int
	WindowSize   time.Duration
	BlockTime    time.Duration
	IsActive     bool
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.configs = make(map[string]*RateLimitConfig)
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.initDefaultConfigs()

	go svc.startCleanupJob()

	return nil
}

func (svc *RateLimitService) initDefaultConfigs() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.configs = map[string]*RateLimitConfig{
		"login": {
			EndpointType: "login",
			MaxRequests:  10,
			WindowSize:   15 * time.Minute,
			BlockTime:    30 * time.Minute,
			IsActive:     true,
		},
		"register": {
			EndpointType: "register",
			MaxRequests:  5,
			WindowSize:   15 * time.Minute,
			BlockTime:    60 * time.Minute,
			IsActive:     true,
		},
		"answer": {
			EndpointType: "answer",
			MaxRequests:  60,
			WindowSize:   time.Minute,
			BlockTime:    5 * time.Minute,
			IsActive:     true,
		},
		"heartbeat": {
			EndpointType: "heartbeat",
			MaxRequests:  120,
			WindowSize:   time.Minute,
			BlockTime:    time.Minute,
			IsActive:     true,
		},
	}
}

// Middleware enforces the named endpoint limit keyed by client IP (or user
// ID once authenticated).
func (svc *RateLimitService) Middleware(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := c.IP()
		if userID, ok := c.Locals(shared.UserID).(string); ok && userID != "" {
			identifier = userID
		}

		allowed, retryAfter, err := svc.Allow(c.Context(), identifier, endpointType)
		if err != nil {
			// Limiter failures never block traffic.
			log.WithError(err).Warn("Rate limit check failed")
			return c.Next()
		}
		if !allowed {
			c.Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			return shared.NewAppError(fiber.StatusTooManyRequests, nil, "Too many requests, slow down")
		}
		return c.Next()
	}
}

// Allow counts one request against the window. Counters live in redis;
// blocks are also persisted so they survive a cache flush.
func (svc *RateLimitService) Allow(ctx context.Context, identifier, endpointType string) (bool, time.Duration, error) {
	svc.mutex.RLock()
	cfg, ok := svc.configs[endpointType]
	svc.mutex.RUnlock()
	if !ok || !cfg.IsActive {
		return true, 0, nil
	}

	blockKey := fmt.Sprintf("ratelimit:block:%s:%s", endpointType, identifier)
	if blocked, err := svc.redisSvc.Exists(ctx, blockKey); err == nil && blocked {
		ttl, _ := svc.redisSvc.TTL(ctx, blockKey)
		return false, ttl, nil
	}

	countKey := fmt.Sprintf("ratelimit:count:%s:%s", endpointType, identifier)
	count, err := svc.redisSvc.Increment(ctx, countKey)
	if err != nil {
		return svc.allowFromDB(identifier, cfg)
	}
	if count == 1 {
		_ = svc.redisSvc.Expire(ctx, countKey, cfg.WindowSize)
	}

	if int(count) > cfg.MaxRequests {
		_ = svc.redisSvc.Set(ctx, blockKey, "1", cfg.BlockTime)
		svc.persistBlock(identifier, cfg)
		return false, cfg.BlockTime, nil
	}
	return true, 0, nil
}

// allowFromDB is the fallback path when redis is unavailable.
func (svc *RateLimitService) allowFromDB(identifier string, cfg *RateLimitConfig) (bool, time.Duration, error) {
	if svc.sqlSvc == nil {
		return true, 0, nil
	}
	now := time.Now()

	rl, err := svc.sqlSvc.GetRateLimit(identifier, cfg.EndpointType)
	if err != nil {
		rl = &model.RateLimit{
			Identifier:   identifier,
			EndpointType: cfg.EndpointType,
			WindowStart:  now,
		}
	}

	if rl.BlockedUntil != nil && rl.BlockedUntil.After(now) {
		return false, rl.BlockedUntil.Sub(now), nil
	}

	if now.Sub(rl.WindowStart) > cfg.WindowSize {
		rl.WindowStart = now
		rl.RequestCount = 0
		rl.BlockedUntil = nil
	}

	rl.RequestCount++
	if rl.RequestCount > cfg.MaxRequests {
		until := now.Add(cfg.BlockTime)
		rl.BlockedUntil = &until
		if err := svc.sqlSvc.SaveRateLimit(rl); err != nil {
			return true, 0, err
		}
		return false, cfg.BlockTime, nil
	}

	return true, 0, svc.sqlSvc.SaveRateLimit(rl)
}

func (svc *RateLimitService) persistBlock(identifier string, cfg *RateLimitConfig) {
	if svc.sqlSvc == nil {
		return
	}
	now := time.Now()
	until := now.Add(cfg.BlockTime)

	rl, err := svc.sqlSvc.GetRateLimit(identifier, cfg.EndpointType)
	if err != nil {
		rl = &model.RateLimit{
			Identifier:   identifier,
			EndpointType: cfg.EndpointType,
			WindowStart:  now,
		}
	}
	rl.RequestCount = cfg.MaxRequests
	rl.BlockedUntil = &until
	if err := svc.sqlSvc.SaveRateLimit(rl); err != nil {
		log.WithError(err).Warn("Failed to persist rate limit block")
	}
}

func (svc *RateLimitService) startCleanupJob() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := svc.sqlSvc.CleanupExpiredRateLimits(time.Now().Add(-24 * time.Hour)); err != nil {
			log.WithError(err).Warn("Rate limit cleanup failed")
		}
	}
}
