// Package config loads server settings from an optional .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is the placeholder secret; the server warns when it is used.
const DefaultJWTSecret = "change-this-secret-in-production"

type Config struct {
	App    AppConfig
	JWT    JWTConfig
	Log    LogConfig
	PDF    PDFConfig
	School SchoolConfig
}

type AppConfig struct {
	Port       string
	DBPath     string
	StaticPath string
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type PDFConfig struct {
	Dir      string
	Compress bool
}

// SchoolConfig is the letterhead printed on every receipt.
type SchoolConfig struct {
	Name    string
	Address string
	Phone   string
	Contact string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DB_PATH", "./data/receipts.db")
	v.SetDefault("PDF_DIR", "./data/pdfs")
	v.SetDefault("STATIC_PATH", "")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("PDF_COMPRESS", true)
	v.SetDefault("SCHOOL_NAME", "")
	v.SetDefault("SCHOOL_ADDRESS", "")
	v.SetDefault("SCHOOL_PHONE", "")
	v.SetDefault("SCHOOL_CONTACT", "")
}

// Load reads .env from the working directory, if present.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile reads settings from envFile, which may be missing, with
// environment variables taking precedence.
func LoadFile(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
		slog.Debug("No config file, using environment variables", "file", envFile)
	}

	cfg := &Config{
		App: AppConfig{
			Port:       v.GetString("APP_PORT"),
			DBPath:     v.GetString("DB_PATH"),
			StaticPath: v.GetString("STATIC_PATH"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Expiry: time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		PDF: PDFConfig{
			Dir:      v.GetString("PDF_DIR"),
			Compress: v.GetBool("PDF_COMPRESS"),
		},
		School: SchoolConfig{
			Name:    v.GetString("SCHOOL_NAME"),
			Address: v.GetString("SCHOOL_ADDRESS"),
			Phone:   v.GetString("SCHOOL_PHONE"),
			Contact: v.GetString("SCHOOL_CONTACT"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.App.Port == "":
		return errors.New("APP_PORT must be set")
	case c.App.DBPath == "":
		return errors.New("DB_PATH must be set")
	case c.PDF.Dir == "":
		return errors.New("PDF_DIR must be set")
	case c.JWT.Secret == "":
		return errors.New("JWT_SECRET must be set")
	case c.JWT.Expiry <= 0:
		return errors.New("JWT_EXPIRY_HOURS must be positive")
	}
	return nil
}
