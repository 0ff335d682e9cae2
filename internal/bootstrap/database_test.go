package bootstrap

import (
	"net/url"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digieduhack/aula-api/config"
)

func TestPostgresDSN(t *testing.T) {
	dsn := postgresDSN(config.DBConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "aula",
		Password: "p@ss:w/rd",
		Name:     "aula",
		SSLMode:  "require",
	})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db.internal:5433", u.Host)
	assert.Equal(t, "/aula", u.Path)
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss:w/rd", pw)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name         string
		cfg          config.RedisConfig
		wantTopology redisTopology
		wantAddrs    []string
		wantPassword string
		wantMaster   string
		wantErr      bool
	}{
		{
			name:         "direct host and port",
			cfg:          config.RedisConfig{URI: "localhost:6379", Password: "pw"},
			wantTopology: topologyDirect,
			wantAddrs:    []string{"localhost:6379"},
			wantPassword: "pw",
		},
		{
			name:         "direct url credentials win",
			cfg:          config.RedisConfig{URI: "redis://:secret@cache.internal:6380/0", Password: "pw"},
			wantTopology: topologyDirect,
			wantAddrs:    []string{"cache.internal:6380"},
			wantPassword: "secret",
		},
		{
			name:    "direct without uri",
			cfg:     config.RedisConfig{URI: "  "},
			wantErr: true,
		},
		{
			name:    "direct bad url",
			cfg:     config.RedisConfig{URI: "redis://cache.internal:notaport"},
			wantErr: true,
		},
		{
			name:         "cluster nodes",
			cfg:          config.RedisConfig{UseCluster: true, ClusterNodes: []string{" a:7000 ", "", "b:7001"}},
			wantTopology: topologyCluster,
			wantAddrs:    []string{"a:7000", "b:7001"},
		},
		{
			name:         "cluster seeded from uri",
			cfg:          config.RedisConfig{UseCluster: true, URI: "rediss://user:pw@c:7002"},
			wantTopology: topologyCluster,
			wantAddrs:    []string{"c:7002"},
			wantPassword: "pw",
		},
		{
			name:    "cluster without addresses",
			cfg:     config.RedisConfig{UseCluster: true},
			wantErr: true,
		},
		{
			name: "sentinel",
			cfg: config.RedisConfig{
				UseSentinel:        true,
				SentinelNodes:      []string{"s1:26379", " "},
				SentinelMasterName: "aula",
			},
			wantTopology: topologySentinel,
			wantAddrs:    []string{"s1:26379"},
			wantMaster:   "aula",
		},
		{
			name:    "sentinel without nodes",
			cfg:     config.RedisConfig{UseSentinel: true},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topology, opts, err := redisOptions(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTopology, topology)
			assert.Equal(t, tt.wantAddrs, opts.Addrs)
			assert.Equal(t, tt.wantPassword, opts.Password)
			assert.Equal(t, tt.wantMaster, opts.MasterName)
		})
	}
}

func TestNewRedisClient(t *testing.T) {
	tests := []struct {
		topology redisTopology
		opts     *redis.UniversalOptions
		want     any
	}{
		{topologyDirect, &redis.UniversalOptions{Addrs: []string{"localhost:6379"}}, &redis.Client{}},
		{topologyCluster, &redis.UniversalOptions{Addrs: []string{"a:7000"}}, &redis.ClusterClient{}},
		{topologySentinel, &redis.UniversalOptions{Addrs: []string{"s1:26379"}, MasterName: "aula"}, &redis.Client{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.topology), func(t *testing.T) {
			client := newRedisClient(tt.topology, tt.opts)
			t.Cleanup(func() { _ = client.Close() })
			assert.IsType(t, tt.want, client)
		})
	}
}
