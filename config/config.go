package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	Inbox    InboxConfig    `yaml:"inbox"`
	Template TemplateConfig `yaml:"template"`
	Store    StoreConfig    `yaml:"store"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AuthConfig struct {
	Passcode         string `yaml:"passcode"`
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

// InboxConfig points at the exported inbox sheet (CSV download URL).
type InboxConfig struct {
	CSVURL string `yaml:"csv_url"`
}

// TemplateConfig controls where the report template (.xlsm) comes from and
// whether generated reports are archived to object storage.
type TemplateConfig struct {
	Path    string      `yaml:"path"`
	Minio   MinioConfig `yaml:"minio"`
	Archive bool        `yaml:"archive"`
}

type MinioConfig struct {
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	Bucket        string `yaml:"bucket"`
	UseSSL        bool   `yaml:"use_ssl"`
	TemplateKey   string `yaml:"template_key"`
	ArchivePrefix string `yaml:"archive_prefix"`
}

type StoreConfig struct {
	MaxSessions int `yaml:"max_sessions"`
}

var GlobalConfig *Config

func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		// No config file: run entirely on defaults and environment.
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
	if cfg.Template.Path == "" {
		cfg.Template.Path = "template.xlsm"
	}
	if cfg.Template.Minio.TemplateKey == "" {
		cfg.Template.Minio.TemplateKey = "template.xlsm"
	}
	if cfg.Template.Minio.ArchivePrefix == "" {
		cfg.Template.Minio.ArchivePrefix = "reports"
	}
	if cfg.Store.MaxSessions == 0 {
		cfg.Store.MaxSessions = 100
	}

	// Environment overrides, matching the secrets the hosted app used.
	if v := os.Getenv("APP_PASSCODE"); v != "" {
		cfg.Auth.Passcode = v
	}
	if v := os.Getenv("SHEET_CSV_URL"); v != "" {
		cfg.Inbox.CSVURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}

	GlobalConfig = &cfg
	return &cfg, nil
}
