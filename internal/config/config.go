package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	BackendFS    = "fs"
	BackendMinio = "minio"
)

type Config struct {
	// LogDirectory is the flat spelling of query_log.directory and wins over it when set.
	LogDirectory string `yaml:"log_directory"`

	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port" validate:"min=1,max=65535"`
	} `yaml:"server"`

	Analyzer struct {
		Program        string `yaml:"program" validate:"required"`
		TimeoutSeconds int    `yaml:"timeout_seconds" validate:"min=1,max=3600"`
		ScratchDir     string `yaml:"scratch_dir"`
		MaxQueryBytes  int    `yaml:"max_query_bytes" validate:"min=0"`
	} `yaml:"analyzer"`

	QueryLog struct {
		Enabled   bool   `yaml:"enabled"`
		Directory string `yaml:"directory" validate:"required_if=Enabled true Backend fs"`
		Backend   string `yaml:"backend" validate:"oneof=fs minio"`
		Minio     struct {
			Endpoint   string `yaml:"endpoint"`
			AccessKey  string `yaml:"accessKey"`
			SecretKey  string `yaml:"secretKey"`
			BucketName string `yaml:"bucketName"`
			Region     string `yaml:"region"`
			Prefix     string `yaml:"prefix"`
			UseSSL     bool   `yaml:"useSSL"`
		} `yaml:"minio"`
	} `yaml:"query_log"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	Logging struct {
		Level       string `yaml:"level" validate:"oneof=debug info warn error"`
		Development bool   `yaml:"development"`
	} `yaml:"logging"`
}

// Default config, dipakai juga kalau file tidak ada
func Default() *Config {
	var cfg Config
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Analyzer.Program = "FPTaylor/fptaylor"
	cfg.Analyzer.TimeoutSeconds = 60
	cfg.Analyzer.MaxQueryBytes = 64 * 1024
	cfg.QueryLog.Enabled = true
	cfg.QueryLog.Directory = "queries"
	cfg.QueryLog.Backend = BackendFS
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.Logging.Level = "info"
	return &cfg
}

// Load baca file config.yaml di atas nilai default. File yang tidak ada bukan error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if cfg.LogDirectory != "" {
		cfg.QueryLog.Directory = cfg.LogDirectory
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints after defaults and overrides are applied.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.QueryLog.Enabled && c.QueryLog.Backend == BackendMinio {
		if c.QueryLog.Minio.Endpoint == "" || c.QueryLog.Minio.BucketName == "" {
			return errors.New("invalid config: query_log.minio needs endpoint and bucketName")
		}
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// AnalyzerTimeout is the wall-clock limit for one analyzer run.
func (c *Config) AnalyzerTimeout() time.Duration {
	return time.Duration(c.Analyzer.TimeoutSeconds) * time.Second
}
