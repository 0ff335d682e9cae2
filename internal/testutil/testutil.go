// Package testutil provides database, Redis and fixture helpers shared by tests.
package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/redis/go-redis/v9"

	"github.com/digieduhack/aula-api/internal/migrate"
)

const pingTimeout = 2 * time.Second

// TestingTB is the subset of testing.TB the helpers need.
type TestingTB interface {
	Helper()
	Skip(args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
	Cleanup(func())
}

// TestDBConfig locates the integration database.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig reads TEST_DB_* with defaults matching the compose test profile
// (Postgres published on 55432).
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     envOr("TEST_DB_HOST", "localhost"),
		Port:     envOr("TEST_DB_PORT", "55432"),
		User:     envOr("TEST_DB_USER", "aula"),
		Password: envOr("TEST_DB_PASSWORD", "aula"),
		DBName:   envOr("TEST_DB_NAME", "aula"),
	}
}

func (c TestDBConfig) dsn() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + envOr("DB_SSL_MODE", "disable"),
	}
	return u.String()
}

// SkipIfNoTestDB skips unless the integration database answers a ping.
// TEST_REQUIRE_DB or TEST_REQUIRE_INFRA turn the skip into a failure.
func SkipIfNoTestDB(t TestingTB) {
	t.Helper()

	db, err := sql.Open("pgx", DefaultTestDBConfig().dsn())
	if err == nil {
		defer closeQuietly(t, db)
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		err = db.PingContext(ctx)
	}
	if err != nil {
		skipOrFail(t, requireDB(), "test database not available:", err)
	}
}

// WithAutoDB runs fn against a freshly migrated schema private to the test.
// The schema is dropped on cleanup, so tests never see each other's rows.
func WithAutoDB(t TestingTB, fn func(*sql.DB)) {
	t.Helper()
	SkipIfNoTestDB(t)

	base := DefaultTestDBConfig().dsn()
	admin, err := sql.Open("pgx", base)
	if err != nil {
		t.Fatal("open admin connection:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	schema := schemaName()
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		closeQuietly(t, admin)
		t.Fatalf("create schema %s: %v", schema, err)
	}

	u, _ := url.Parse(base)
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()

	db, err := sql.Open("pgx", u.String())
	if err != nil {
		closeQuietly(t, admin)
		t.Fatal("open schema connection:", err)
	}
	t.Cleanup(func() {
		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dcancel()
		closeQuietly(t, db)
		if _, err := admin.ExecContext(dctx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
		closeQuietly(t, admin)
	})

	if err := migrate.Run(ctx, db); err != nil {
		t.Fatal("migrate schema:", err)
	}
	fn(db)
}

// SetupTestRedis returns a client on TEST_REDIS_DB (default 1) at REDIS_ADDR or
// localhost:6379, skipping when neither answers. Keys are not flushed; tests use
// their own prefixes.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr := envOr("REDIS_ADDR", "localhost:6379")
	dbIndex, err := strconv.Atoi(envOr("TEST_REDIS_DB", "1"))
	if err != nil || dbIndex < 0 {
		dbIndex = 1
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: dbIndex})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		closeQuietly(t, client)
		skipOrFail(t, requireRedis(), "redis not available at "+addr+":", err)
		return nil
	}
	t.Cleanup(func() { closeQuietly(t, client) })
	return client
}

// TestTime is the fixed instant tests build fixtures around.
func TestTime() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

// Clock is a settable time source for tests.
type Clock struct {
	now time.Time
}

// NewClock returns a Clock starting at start.
func NewClock(start time.Time) *Clock { return &Clock{now: start} }

// Now returns the current fake time.
func (c *Clock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

func skipOrFail(t TestingTB, fail bool, args ...any) {
	if fail {
		t.Fatal(args...)
	}
	t.Skip(args...)
}

func schemaName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "t_" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return "t_" + hex.EncodeToString(b)
}

func closeQuietly(t TestingTB, c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		t.Logf("close: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }
