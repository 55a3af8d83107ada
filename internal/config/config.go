// Package config loads and validates the service configuration.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Idioms   IdiomsConfig   `mapstructure:"idioms"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"gte=1,lte=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"dive,http_origin"`
}

// IdiomsConfig points at the idiom mapping resource: a JSON object of
// English phrases to Sinhala translations.
type IdiomsConfig struct {
	MappingFile string `mapstructure:"mapping_file" validate:"required,readable_file"`
}

// BackendConfig describes the NLLB model server.
type BackendConfig struct {
	URL              string `mapstructure:"url" validate:"required,url"`
	MaxRetryAttempts uint   `mapstructure:"max_retry_attempts"`
	CircuitBreaker   bool   `mapstructure:"circuit_breaker"`
}

// DatabaseConfig describes the optional MySQL translation memory. When
// Enabled is false the service runs without a translation memory.
type DatabaseConfig struct {
	Enabled         bool              `mapstructure:"enabled"`
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/sinhalate")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("idioms.mapping_file", filepath.Join("data", "idiom_mapping.json"))
	v.SetDefault("backend.url", "http://localhost:8000")
	v.SetDefault("backend.max_retry_attempts", 2)
	v.SetDefault("backend.circuit_breaker", true)
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "sinhalate")
	v.SetDefault("database.username", "user")

	// Bind service locations to environment variables so deployments can
	// override them without editing the config file
	if err := v.BindEnv("backend.url", "SINHALATE_BACKEND_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind SINHALATE_BACKEND_URL environment variable: %w", err)
	}
	if err := v.BindEnv("idioms.mapping_file", "IDIOM_MAPPING_PATH"); err != nil {
		return nil, fmt.Errorf("failed to bind IDIOM_MAPPING_PATH environment variable: %w", err)
	}

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		messages := make([]string, 0, len(validationErrors))
		for _, validationError := range validationErrors {
			messages = append(messages, validationError.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
	}

	return &cfg, nil
}
