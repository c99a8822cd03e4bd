// internal/common/config/config.go
package config

import "fmt"

type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Server        ServerConfig            `mapstructure:"server"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Scoring       ScoringConfig           `mapstructure:"scoring"`
	ReferenceData ReferenceDataConfig     `mapstructure:"reference_data"`
	Search        SearchConfig            `mapstructure:"search"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ScoringConfig overrides the built-in scoring tables. Zero values keep the
// defaults compiled into internal/scoring.
type ScoringConfig struct {
	Weights     map[string]float64 `mapstructure:"weights"`
	LogisticK   float64            `mapstructure:"logistic_k"`
	Midpoint    float64            `mapstructure:"midpoint"`
	Thresholds  TierThresholds     `mapstructure:"thresholds"`
	TopK        int                `mapstructure:"top_k"`
	Parallelism int                `mapstructure:"parallelism"`
}

// TierThresholds are probability percentages where each tier begins.
type TierThresholds struct {
	Reach  float64 `mapstructure:"reach"`
	Match  float64 `mapstructure:"match"`
	Safety float64 `mapstructure:"safety"`
}

const (
	ReferenceSourceFiles    = "files"
	ReferenceSourcePostgres = "postgres"
)

type ReferenceDataConfig struct {
	Source string `mapstructure:"source"`
	Dir    string `mapstructure:"dir"`
}

type SearchConfig struct {
	Index         string `mapstructure:"index"`
	MaxCandidates int    `mapstructure:"max_candidates"`
	CacheTTL      int    `mapstructure:"cache_ttl"` // seconds
}
