package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T) *RedisSessionRepository {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionRepository(client, "")
}

func TestSessionServiceRoundTrip(t *testing.T) {
	svc := NewSessionService(newRedisRepo(t))
	ctx := context.Background()

	token, err := svc.CreateSession(ctx, "u1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sess, err := svc.ValidateRefresh(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "u1", sess.Sub)

	require.NoError(t, svc.DeleteRefresh(ctx, token))
	sess, err = svc.ValidateRefresh(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSessionServiceUnknownToken(t *testing.T) {
	svc := NewSessionService(newRedisRepo(t))
	sess, err := svc.ValidateRefresh(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSessionServiceExpiry(t *testing.T) {
	repo := newRedisRepo(t)
	svc := NewSessionService(repo)
	ctx := context.Background()

	// Store a session that is already past its expiry; the TTL floor keeps
	// it in Redis briefly, but validation must treat it as gone.
	sess := &RefreshSession{
		RefreshToken: "stale",
		Sub:          "u1",
		ExpiresAt:    time.Now().UTC().Add(-time.Minute),
	}
	require.NoError(t, repo.Create(ctx, sess))

	got, err := svc.ValidateRefresh(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisRepositoryTTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := NewRedisSessionRepository(client, "rs:")

	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &RefreshSession{
		RefreshToken: "tok",
		Sub:          "u1",
		ExpiresAt:    time.Now().UTC().Add(time.Hour),
	}))

	mr.FastForward(2 * time.Hour)
	got, err := repo.GetByRefresh(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, got)
}
