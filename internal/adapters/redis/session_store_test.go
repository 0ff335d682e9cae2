package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	"github.com/digieduhack/aula-api/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func newTestStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStore(client, SessionStoreOptions{Prefix: "test:session:" + uuid.NewString() + ":"})
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)

	store := newTestStore(client)
	ctx := context.Background()

	sess := domainauth.Session{
		ID:        "sid-1",
		UserID:    "user-123",
		Email:     "user@alumno.buap.mx",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Email, got.Email)
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)

	ttl := client.TTL(ctx, store.prefix+"sid-1").Val()
	assert.True(t, ttl > 29*time.Minute && ttl <= 30*time.Minute, "ttl=%s", ttl)
}

func TestSessionStore_GetDoesNotExtendTTL(t *testing.T) {
	client := setupTestRedis(t)

	store := newTestStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "sid-ttl", ExpiresAt: time.Now().Add(time.Minute)}))
	require.NoError(t, client.Expire(ctx, store.prefix+"sid-ttl", 20*time.Second).Err())

	_, err := store.Get(ctx, "sid-ttl")
	require.NoError(t, err)
	assert.LessOrEqual(t, client.TTL(ctx, store.prefix+"sid-ttl").Val(), 20*time.Second)
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	client := setupTestRedis(t)

	store := newTestStore(client)
	_, err := store.Get(context.Background(), "missing")
	assert.Equal(t, ErrNotFound, err)

	_, err = store.Get(context.Background(), "")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_Delete(t *testing.T) {
	client := setupTestRedis(t)

	store := newTestStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "sid-del", ExpiresAt: time.Now().Add(time.Minute)}))
	require.NoError(t, store.Delete(ctx, "sid-del"))

	_, err := store.Get(ctx, "sid-del")
	assert.Equal(t, ErrNotFound, err)

	assert.NoError(t, store.Delete(ctx, "sid-del"))
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestSessionStore_ExpiredByClock(t *testing.T) {
	client := setupTestRedis(t)

	now := time.Now()
	store := NewSessionStore(client, SessionStoreOptions{
		Prefix: "test:session:" + uuid.NewString() + ":",
		Now:    func() time.Time { return now },
	})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "sid-clock", ExpiresAt: now.Add(time.Hour)}))

	now = now.Add(2 * time.Hour)
	_, err := store.Get(ctx, "sid-clock")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_SaveRejectsInvalid(t *testing.T) {
	// No Redis round trip happens for these inputs.
	store := NewSessionStore(nil)
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, domainauth.Session{ExpiresAt: time.Now().Add(time.Hour)}))
	assert.Error(t, store.Save(ctx, domainauth.Session{ID: "x", ExpiresAt: time.Now().Add(-time.Second)}))
}
