package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/redis/go-redis/v9"

	"github.com/digieduhack/aula-api/config"
	"github.com/digieduhack/aula-api/internal/migrate"
)

const (
	connectTimeout     = 5 * time.Second
	connMaxLifetime    = 5 * time.Minute
	defaultMaxOpenConn = 20
)

// DatabaseConfig contains configuration for database connections.
type DatabaseConfig struct {
	DBConfig    config.DBConfig
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// ConnectDB opens the PostgreSQL pool backing every repository and the account store.
func ConnectDB(cfg DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", postgresDSN(cfg.DBConfig))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	maxOpen := cfg.DBConfig.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConn
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(max(1, maxOpen/2))
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close database connection: %w", closeErr))
		}
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("database connected",
			"host", cfg.DBConfig.Host,
			"port", cfg.DBConfig.Port,
			"database", cfg.DBConfig.Name,
			"max_open_conns", maxOpen,
		)
	}

	return db, nil
}

// postgresDSN builds the DSN with url.URL so special characters in credentials survive.
func postgresDSN(cfg config.DBConfig) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}
	q := u.Query()
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// redisTopology selects which go-redis client backs the session store.
type redisTopology string

const (
	topologyDirect   redisTopology = "direct"
	topologyCluster  redisTopology = "cluster"
	topologySentinel redisTopology = "sentinel"
)

// ConnectRedis connects the session record store and pings it once.
//
//nolint:ireturn // the topology decides between single, sentinel and cluster clients.
func ConnectRedis(cfg DatabaseConfig) (redis.UniversalClient, error) {
	topology, opts, err := redisOptions(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}
	client := newRedisClient(topology, opts)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis (%s): %w", topology, pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("redis connected",
			"topology", string(topology),
			"addrs", strings.Join(opts.Addrs, ","),
			"master", opts.MasterName,
		)
	}
	return client, nil
}

//nolint:ireturn // see ConnectRedis.
func newRedisClient(topology redisTopology, opts *redis.UniversalOptions) redis.UniversalClient {
	switch topology {
	case topologyCluster:
		return redis.NewClusterClient(opts.Cluster())
	case topologySentinel:
		return redis.NewFailoverClient(opts.Failover())
	default:
		return redis.NewClient(opts.Simple())
	}
}

// redisOptions resolves REDIS_* settings into client options. Cluster mode takes
// CLUSTER_NODES, falling back to URI as a single seed; sentinel mode needs SENTINEL_NODES;
// direct mode accepts a redis:// URL or a bare host:port.
func redisOptions(cfg config.RedisConfig) (redisTopology, *redis.UniversalOptions, error) {
	switch {
	case cfg.UseCluster:
		opts, err := optionsFromURI(cfg.URI, cfg.Password)
		if err != nil {
			return "", nil, err
		}
		if nodes := normalizeAddrs(cfg.ClusterNodes); len(nodes) > 0 {
			opts.Addrs = nodes
		}
		if len(opts.Addrs) == 0 {
			return "", nil, errors.New("redis cluster configuration requires at least one address")
		}
		return topologyCluster, opts, nil

	case cfg.UseSentinel:
		nodes := normalizeAddrs(cfg.SentinelNodes)
		if len(nodes) == 0 {
			return "", nil, errors.New("redis sentinel configuration requires at least one sentinel node")
		}
		return topologySentinel, &redis.UniversalOptions{
			Addrs:            nodes,
			MasterName:       cfg.SentinelMasterName,
			Password:         cfg.Password,
			SentinelPassword: cfg.SentinelPassword,
		}, nil

	default:
		if strings.TrimSpace(cfg.URI) == "" {
			return "", nil, errors.New("redis direct configuration requires a URI")
		}
		opts, err := optionsFromURI(cfg.URI, cfg.Password)
		if err != nil {
			return "", nil, err
		}
		return topologyDirect, opts, nil
	}
}

// optionsFromURI accepts "", "host:port" or a redis(s):// URL. Credentials in
// the URL win over password.
func optionsFromURI(uri, password string) (*redis.UniversalOptions, error) {
	uri = strings.TrimSpace(uri)
	opts := &redis.UniversalOptions{Password: password}
	if uri == "" {
		return opts, nil
	}
	if !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://") {
		opts.Addrs = []string{uri}
		return opts, nil
	}

	parsed, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.Addrs = []string{parsed.Addr}
	opts.Username = parsed.Username
	opts.DB = parsed.DB
	opts.TLSConfig = parsed.TLSConfig
	if parsed.Password != "" {
		opts.Password = parsed.Password
	}
	return opts, nil
}

func normalizeAddrs(raw []string) []string {
	result := make([]string, 0, len(raw))
	for _, addr := range raw {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if err := migrate.Run(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if logger != nil {
		logger.InfoContext(ctx, "database migrations completed")
	}

	return nil
}

// PendingMigrations lists migration versions not yet applied.
func PendingMigrations(ctx context.Context, db *sql.DB) ([]string, error) {
	pending, err := migrate.Pending(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("list pending migrations: %w", err)
	}
	return pending, nil
}
