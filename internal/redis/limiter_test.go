package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCmdable implements only the commands the limiter uses.
type fakeCmdable struct {
	redis.Cmdable
	counts  map[string]int64
	expires map[string]time.Duration
	err     error

	// expireFailures makes the next n EXPIRE calls fail
	expireFailures int
}

func newFake() *fakeCmdable {
	return &fakeCmdable{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "incr", key)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.counts[key]++
	cmd.SetVal(f.counts[key])
	return cmd
}

func (f *fakeCmdable) Expire(ctx context.Context, key string, d time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx, "expire", key, d)
	if f.expireFailures > 0 {
		f.expireFailures--
		cmd.SetErr(errors.New("i/o timeout"))
		return cmd
	}
	f.expires[key] = d
	cmd.SetVal(true)
	return cmd
}

func (f *fakeCmdable) TTL(ctx context.Context, key string) *redis.DurationCmd {
	cmd := redis.NewDurationCmd(ctx, time.Second, "ttl", key)
	d, ok := f.expires[key]
	switch {
	case !ok && f.counts[key] == 0:
		cmd.SetVal(-2)
	case !ok:
		cmd.SetVal(-1)
	default:
		cmd.SetVal(d)
	}
	return cmd
}

func (f *fakeCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "del")
	for _, k := range keys {
		delete(f.counts, k)
		delete(f.expires, k)
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func TestAttemptLimiter_AllowsUpToMax(t *testing.T) {
	f := newFake()
	l := NewAttemptLimiter(f, "verify", 3, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i+1)
	}
	ok, err := l.Allow(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 15*time.Minute, f.expires["verify:alice"])

	ok, err = l.Allow(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, ok, "keys are independent")
}

func TestAttemptLimiter_Reset(t *testing.T) {
	f := newFake()
	l := NewAttemptLimiter(f, "verify", 1, time.Minute)
	ctx := context.Background()

	_, _ = l.Allow(ctx, "alice")
	ok, _ := l.Allow(ctx, "alice")
	assert.False(t, ok)

	require.NoError(t, l.Reset(ctx, "alice"))
	ok, err := l.Allow(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAttemptLimiter_Error(t *testing.T) {
	f := newFake()
	f.err = errors.New("connection refused")
	l := NewAttemptLimiter(f, "verify", 3, time.Minute)

	_, err := l.Allow(context.Background(), "alice")
	assert.ErrorContains(t, err, "connection refused")
}

func TestAttemptLimiter_RepairsMissingTTL(t *testing.T) {
	f := newFake()
	f.expireFailures = 1
	l := NewAttemptLimiter(f, "verify", 3, 15*time.Minute)
	ctx := context.Background()

	_, err := l.Allow(ctx, "alice")
	assert.ErrorContains(t, err, "i/o timeout")
	_, ok := f.expires["verify:alice"]
	require.False(t, ok)

	ok2, err := l.Allow(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok2)
	assert.Equal(t, 15*time.Minute, f.expires["verify:alice"], "window is set on the next attempt")

	// once the window is set the counter is left alone
	f.expires["verify:alice"] = time.Minute
	_, err = l.Allow(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, f.expires["verify:alice"])
}
