// Package redis provides Redis-backed adapters.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	"github.com/digieduhack/aula-api/internal/ports"
)

// DefaultSessionPrefix namespaces session records in a shared Redis.
const DefaultSessionPrefix = "aula:session:"

// SessionStore keeps issued-session records in Redis.
// Each record expires with its session, so a missing key means expired or revoked.
// Reads never touch the key's TTL.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// SessionStoreOptions groups optional settings for NewSessionStore.
type SessionStoreOptions struct {
	Prefix string
	Now    func() time.Time
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient, opts ...SessionStoreOptions) *SessionStore {
	s := &SessionStore{
		client: client,
		prefix: DefaultSessionPrefix,
		now:    time.Now,
	}
	if len(opts) > 0 {
		if opts[0].Prefix != "" {
			s.prefix = opts[0].Prefix
		}
		if opts[0].Now != nil {
			s.now = opts[0].Now
		}
	}
	return s
}

// Save stores sess until its ExpiresAt.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get returns the record for id or ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal(data, &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// Redis expiry has second granularity; honor the exact instant.
	if sess.Expired(s.now()) {
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

// Delete removes the record for id. Deleting a missing record is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Health pings Redis.
func (s *SessionStore) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// ErrNotFound is returned when a session record does not exist.
var ErrNotFound = ports.ErrSessionNotFound
