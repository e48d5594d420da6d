package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/vidgate-io/vidgate_api/dto"
)

func newTestRedis(t *testing.T) (*RedisService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	svc := &RedisService{}
	svc.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	return svc, mr
}

func TestRedisSetGet(t *testing.T) {
	svc, _ := newTestRedis(t)
	ctx := context.Background()

	if err := svc.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := svc.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("get returned %q, %v", got, err)
	}

	// Missing keys read as empty without an error.
	got, err = svc.Get(ctx, "missing")
	if err != nil || got != "" {
		t.Fatalf("missing key returned %q, %v", got, err)
	}
}

func TestRedisJSONRoundTrip(t *testing.T) {
	svc, _ := newTestRedis(t)
	ctx := context.Background()

	in := dto.PlaybackPositionResponse{VideoID: "v1", CurrentTime: 42.5, IsPlaying: true, UpdatedAt: 100}
	if err := svc.Set(ctx, "pos", in, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var out dto.PlaybackPositionResponse
	if err := svc.GetJSON(ctx, "pos", &out); err != nil {
		t.Fatalf("getjson failed: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}

	// A missing key leaves the destination untouched.
	var untouched dto.PlaybackPositionResponse
	if err := svc.GetJSON(ctx, "missing", &untouched); err != nil {
		t.Fatalf("getjson on missing key failed: %v", err)
	}
	if untouched.VideoID != "" {
		t.Fatalf("missing key must not populate dest: %+v", untouched)
	}
}

func TestRedisIncrementAndExpire(t *testing.T) {
	svc, mr := newTestRedis(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, err := svc.Increment(ctx, "counter")
		if err != nil || n != int64(i) {
			t.Fatalf("increment %d returned %d, %v", i, n, err)
		}
	}

	if err := svc.Expire(ctx, "counter", time.Minute); err != nil {
		t.Fatalf("expire failed: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if ok, _ := svc.Exists(ctx, "counter"); ok {
		t.Fatal("counter must expire")
	}
}

func TestProgressHeartbeatRoundTrip(t *testing.T) {
	redisSvc, _ := newTestRedis(t)
	svc := &ProgressService{redisSvc: redisSvc}
	ctx := context.Background()

	err := svc.RecordHeartbeat(ctx, "u1", "v1", dto.PlaybackHeartbeatRequest{CurrentTime: 12.3, IsPlaying: true})
	if err != nil {
		t.Fatalf("heartbeat failed: %v", err)
	}

	pos, err := svc.LastPosition(ctx, "u1", "v1")
	if err != nil {
		t.Fatalf("last position failed: %v", err)
	}
	if pos == nil || pos.CurrentTime != 12.3 || !pos.IsPlaying || pos.VideoID != "v1" {
		t.Fatalf("unexpected position: %+v", pos)
	}

	// Another user's position is isolated.
	other, err := svc.LastPosition(ctx, "u2", "v1")
	if err != nil {
		t.Fatalf("last position failed: %v", err)
	}
	if other != nil {
		t.Fatalf("expected no position for another user, got %+v", other)
	}
}

func TestRateLimitAllowAndBlock(t *testing.T) {
	redisSvc, mr := newTestRedis(t)
	svc := &RateLimitService{redisSvc: redisSvc}
	svc.initDefaultConfigs()
	ctx := context.Background()

	// The answer endpoint allows 60 per minute.
	for i := 0; i < 60; i++ {
		allowed, _, err := svc.Allow(ctx, "1.2.3.4", "answer")
		if err != nil || !allowed {
			t.Fatalf("request %d: allowed=%v err=%v", i, allowed, err)
		}
	}

	allowed, retryAfter, err := svc.Allow(ctx, "1.2.3.4", "answer")
	if err != nil {
		t.Fatalf("allow failed: %v", err)
	}
	if allowed {
		t.Fatal("request over the limit must be blocked")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected a retry-after hint, got %v", retryAfter)
	}

	// Another identifier is unaffected.
	if allowed, _, _ := svc.Allow(ctx, "5.6.7.8", "answer"); !allowed {
		t.Fatal("limits must be per identifier")
	}

	// The block expires.
	mr.FastForward(6 * time.Minute)
	if allowed, _, _ := svc.Allow(ctx, "1.2.3.4", "answer"); !allowed {
		t.Fatal("expired block must clear")
	}

	// Unknown endpoint types pass through.
	if allowed, _, _ := svc.Allow(ctx, "1.2.3.4", "nonexistent"); !allowed {
		t.Fatal("unknown endpoint types must not limit")
	}
}
