package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
	Auth   AuthConfig   `yaml:"auth"`
	Blob   BlobConfig   `yaml:"blob"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// AuthConfig points at the OIDC provider. When Issuer is empty the
// server refuses to start unless dev mode is enabled explicitly.
type AuthConfig struct {
	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`
	DevMode  bool   `yaml:"dev_mode"`
}

// BlobConfig selects the attachment store backend: "fs" or "s3".
type BlobConfig struct {
	Backend string   `yaml:"backend"`
	FS      FSConfig `yaml:"fs"`
	S3      S3Config `yaml:"s3"`
}

type FSConfig struct {
	Dir string `yaml:"dir"`
}

type S3Config struct {
	Bucket       string `yaml:"bucket"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "bugpen.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Blob: BlobConfig{
			Backend: "fs",
			FS:      FSConfig{Dir: "attachments"},
		},
	}

	if path := os.Getenv("BUGPEN_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("BUGPEN_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("BUGPEN_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BUGPEN_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("BUGPEN_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("BUGPEN_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if issuer := os.Getenv("BUGPEN_AUTH_ISSUER"); issuer != "" {
		cfg.Auth.Issuer = issuer
	}
	if audience := os.Getenv("BUGPEN_AUTH_AUDIENCE"); audience != "" {
		cfg.Auth.Audience = audience
	}
	if dev := os.Getenv("BUGPEN_AUTH_DEV_MODE"); dev != "" {
		enabled, err := strconv.ParseBool(dev)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BUGPEN_AUTH_DEV_MODE: %w", err)
		}
		cfg.Auth.DevMode = enabled
	}
	if backend := os.Getenv("BUGPEN_BLOB_BACKEND"); backend != "" {
		cfg.Blob.Backend = backend
	}
	if dir := os.Getenv("BUGPEN_BLOB_FS_DIR"); dir != "" {
		cfg.Blob.FS.Dir = dir
	}
	if bucket := os.Getenv("BUGPEN_BLOB_S3_BUCKET"); bucket != "" {
		cfg.Blob.S3.Bucket = bucket
	}
	if region := os.Getenv("BUGPEN_BLOB_S3_REGION"); region != "" {
		cfg.Blob.S3.Region = region
	}
	if endpoint := os.Getenv("BUGPEN_BLOB_S3_ENDPOINT"); endpoint != "" {
		cfg.Blob.S3.Endpoint = endpoint
	}
	if key := os.Getenv("BUGPEN_BLOB_S3_ACCESS_KEY"); key != "" {
		cfg.Blob.S3.AccessKey = key
	}
	if secret := os.Getenv("BUGPEN_BLOB_S3_SECRET_KEY"); secret != "" {
		cfg.Blob.S3.SecretKey = secret
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
