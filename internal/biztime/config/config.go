// Package config loads the BizTime service configuration from a YAML file,
// an optional .env file and the process environment, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gartstein/biztime/internal/biztime/db"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ModeNormal = "normal"
	ModeTest   = "test"

	DefaultPath = "internal/biztime/config/config.yaml"
)

// Config struct for YAML configuration
type Config struct {
	Mode              string        `yaml:"MODE" validate:"oneof=normal test"`
	GRPCPort          int           `yaml:"GRPC_PORT" validate:"min=1,max=65535"`
	HTTPPort          int           `yaml:"HTTP_PORT" validate:"min=1,max=65535"`
	DBDriver          string        `yaml:"DB_DRIVER" validate:"oneof=postgres sqlite"`
	DBHost            string        `yaml:"DB_HOST" validate:"required_if=DBDriver postgres"`
	DBPort            int           `yaml:"DB_PORT"`
	DBUser            string        `yaml:"DB_USER"`
	DBPassword        string        `yaml:"DB_PASSWORD"`
	DBName            string        `yaml:"DB_NAME" validate:"required"`
	DBTestName        string        `yaml:"DB_TEST_NAME" validate:"required"`
	DBSSLMode         string        `yaml:"DB_SSLMODE"`
	DBMaxOpenConns    int           `yaml:"DB_MAX_OPEN_CONNS" validate:"min=0"`
	DBMaxIdleConns    int           `yaml:"DB_MAX_IDLE_CONNS" validate:"min=0"`
	DBConnMaxLifetime time.Duration `yaml:"DB_CONN_MAX_LIFETIME"`
	DBConnectRetries  uint64        `yaml:"DB_CONNECT_RETRIES"`
	AutoMigrate       bool          `yaml:"AUTO_MIGRATE"`
	KafkaBrokers      []string      `yaml:"KAFKA_BROKERS"`
	Topic             string        `yaml:"TOPIC" validate:"required_with=KafkaBrokers"`
	ShutdownTimeout   time.Duration `yaml:"SHUTDOWN_TIMEOUT"`
}

func defaults() *Config {
	return &Config{
		Mode:             ModeNormal,
		GRPCPort:         50051,
		HTTPPort:         3000,
		DBDriver:         db.DriverPostgres,
		DBHost:           "localhost",
		DBPort:           5432,
		DBName:           "biztime",
		DBTestName:       "biztime_test",
		DBSSLMode:        "disable",
		DBConnectRetries: 5,
		Topic:            "biztime.events",
		ShutdownTimeout:  5 * time.Second,
	}
}

// Load reads the YAML file at path (BIZTIME_CONFIG or DefaultPath when
// empty), applies .env and environment overrides and validates the result.
// A missing YAML file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("BIZTIME_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := defaults()
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Mode, "BIZTIME_MODE")
	setString(&c.DBDriver, "DB_DRIVER")
	setString(&c.DBHost, "DB_HOST")
	setString(&c.DBUser, "DB_USER")
	setString(&c.DBPassword, "DB_PASSWORD")
	setString(&c.DBName, "DB_NAME")
	setString(&c.DBTestName, "DB_TEST_NAME")
	setString(&c.DBSSLMode, "DB_SSLMODE")
	setString(&c.Topic, "KAFKA_TOPIC")
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.KafkaBrokers = strings.Split(v, ",")
	}

	for env, dst := range map[string]*int{
		"HTTP_PORT": &c.HTTPPort,
		"GRPC_PORT": &c.GRPCPort,
		"DB_PORT":   &c.DBPort,
	} {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
		*dst = n
	}

	if v := os.Getenv("AUTO_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AUTO_MIGRATE: %w", err)
		}
		c.AutoMigrate = b
	}
	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// DatabaseName selects the database for the deployment mode.
func (c *Config) DatabaseName() string {
	if c.Mode == ModeTest {
		return c.DBTestName
	}
	return c.DBName
}

// Database builds the repository configuration. For SQLite the database
// name is used as the file name.
func (c *Config) Database() *db.Config {
	return &db.Config{
		Driver:          c.DBDriver,
		Host:            c.DBHost,
		Port:            c.DBPort,
		User:            c.DBUser,
		Password:        c.DBPassword,
		DBName:          c.DatabaseName(),
		SSLMode:         c.DBSSLMode,
		SQLitePath:      c.DatabaseName() + ".db",
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
		ConnectRetries:  c.DBConnectRetries,
		AutoMigrate:     c.AutoMigrate,
	}
}
