// internal/common/config/config.go
package config

import "fmt"

type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Model    ModelConfig             `mapstructure:"model"`
	Records  RecordsConfig           `mapstructure:"records"`
	Export   ExportConfig            `mapstructure:"export"`
	Server   ServerConfig            `mapstructure:"server"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	UsePlaintext   bool   `mapstructure:"use_plaintext"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
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

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig is keyed by worker name (e.g. "predict-uptake"), not task
// type, because viper splits keys on dots.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	// MaxRetries caps the retries a failed job is handed back with. Nil keeps
	// the per-error-code counts.
	MaxRetries *int `mapstructure:"max_retries"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ModelConfig selects the coefficient table. An empty CoefficientsPath
// uses the built-in table.
type ModelConfig struct {
	CoefficientsPath string  `mapstructure:"coefficients_path"`
	ConfidenceLevel  float64 `mapstructure:"confidence_level"`
}

const (
	RecordsBackendPostgres = "postgres"
	RecordsBackendRedis    = "redis"
	RecordsBackendMemory   = "memory"
	RecordsBackendNone     = "none"
)

type RecordsConfig struct {
	Backend    string `mapstructure:"backend"`
	RedisKey   string `mapstructure:"redis_key"`
	MaxRecords int    `mapstructure:"max_records"`
}

type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	Title     string `mapstructure:"title"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}
