package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Mongo         MongoConfig
	Redis         RedisConfig
	Leader        ReplicaLeaderConfig
	PrivacyConfig PrivacyConfigConfig
	Cohort        CohortConfig
	Server        ServerConfig
	Logging       LogConfig
}

type MongoConfig struct {
	URI    string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	DBName string `envconfig:"MONGO_DB" default:"browser"`
}

type RedisConfig struct {
	Addr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	DB   int    `envconfig:"REDIS_DB" default:"0"`
}

type ReplicaLeaderConfig struct {
	// Backend is "etcd" or "redis".
	Backend       string        `envconfig:"LEADER_BACKEND" default:"etcd"`
	EtcdEndpoints []string      `envconfig:"ETCD_ENDPOINTS" default:"etcd:2379"`
	LeaderKey     string        `envconfig:"LEADER_KEY" default:"privacy_config_leader"`
	ReplicaID     string        `envconfig:"REPLICA_ID" default:"localhost:1234"`
	LeaderLease   time.Duration `envconfig:"LEADER_LEASE" default:"10s"`
}

type PrivacyConfigConfig struct {
	URL             string        `envconfig:"PRIVACY_CONFIG_URL" default:"https://staticcdn.duckduckgo.com/trackerblocking/config/v4/android-config.json"`
	RefreshInterval time.Duration `envconfig:"PRIVACY_CONFIG_REFRESH" default:"1h"`
	DownloadTimeout time.Duration `envconfig:"PRIVACY_CONFIG_TIMEOUT" default:"1m"`
	AppVersion      int           `envconfig:"APP_VERSION" default:"0"`
}

type CohortConfig struct {
	// TimeZone is the IANA zone whose calendar day becomes the cohort date.
	TimeZone string `envconfig:"COHORT_TZ" default:"UTC"`
}

type ServerConfig struct {
	GRPCAddr    string `envconfig:"GRPC_ADDR" default:":1234"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":2112"`
}

type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
