package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingDatabaseURL is returned by Load when no connection string is configured.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	Upload   UploadConfig
	S3       S3Config
	Mail     MailConfig
	Reset    ResetConfig
	RabbitMQ RabbitMQConfig
	Admin    AdminConfig
	CORS     CORSConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string // silent, error, warn, info
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// UploadConfig holds upload limits and the storage backend selection
type UploadConfig struct {
	Backend     string // local or s3
	Dir         string
	MaxFileSize int64
	MaxFiles    int
}

// S3Config holds settings for the S3-compatible upload backend
type S3Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	UsePathStyle  bool
	PublicBaseURL string
}

// MailConfig holds SMTP settings. An empty Host disables real delivery.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// ResetConfig holds password-reset link settings
type ResetConfig struct {
	URL    string
	Secret string
	TTL    time.Duration
}

// RabbitMQConfig holds broker settings. An empty URL disables order events.
type RabbitMQConfig struct {
	URL   string
	Queue string
}

// AdminConfig holds the administrator account seeded at startup
type AdminConfig struct {
	Name     string
	Password string
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowOrigins string
}

// Load reads configuration from an optional .env file, an optional config.yaml
// and the environment. Environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("database.driver")),
			URL:             v.GetString("database.url"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			LogLevel:        v.GetString("database.log_level"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Upload: UploadConfig{
			Backend:     strings.ToLower(v.GetString("upload.backend")),
			Dir:         v.GetString("upload.dir"),
			MaxFileSize: v.GetInt64("upload.max_file_size"),
			MaxFiles:    v.GetInt("upload.max_files"),
		},
		S3: S3Config{
			Endpoint:      v.GetString("s3.endpoint"),
			Region:        v.GetString("s3.region"),
			Bucket:        v.GetString("s3.bucket"),
			AccessKey:     v.GetString("s3.access_key"),
			SecretKey:     v.GetString("s3.secret_key"),
			UsePathStyle:  v.GetBool("s3.use_path_style"),
			PublicBaseURL: v.GetString("s3.public_base_url"),
		},
		Mail: MailConfig{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetInt("smtp.port"),
			Username: v.GetString("smtp.username"),
			Password: v.GetString("smtp.password"),
			From:     v.GetString("mail.from"),
		},
		Reset: ResetConfig{
			URL:    v.GetString("reset.url"),
			Secret: v.GetString("reset.secret"),
			TTL:    v.GetDuration("reset.ttl"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   v.GetString("rabbitmq.url"),
			Queue: v.GetString("rabbitmq.queue"),
		},
		Admin: AdminConfig{
			Name:     v.GetString("admin.name"),
			Password: v.GetString("admin.password"),
		},
		CORS: CORSConfig{
			AllowOrigins: v.GetString("cors.allow_origins"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "shoestore")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", ":5002")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("upload.backend", "local")
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_file_size", 5*1024*1024)
	v.SetDefault("upload.max_files", 5)

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.use_path_style", true)
	v.SetDefault("s3.public_base_url", "")

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("mail.from", "no-reply@shoestore.local")

	v.SetDefault("reset.url", "http://localhost:3000/reset-password")
	v.SetDefault("reset.secret", "change-me")
	v.SetDefault("reset.ttl", time.Hour)

	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.queue", "order_queue")

	v.SetDefault("admin.name", "")
	v.SetDefault("admin.password", "")

	v.SetDefault("cors.allow_origins", "*")
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return ErrMissingDatabaseURL
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	switch c.Upload.Backend {
	case "local", "s3":
	default:
		return fmt.Errorf("unsupported UPLOAD_BACKEND %q", c.Upload.Backend)
	}
	if c.Upload.Backend == "s3" && c.S3.Bucket == "" {
		return errors.New("S3_BUCKET is required when UPLOAD_BACKEND is s3")
	}
	return nil
}

// IsProduction reports whether the app runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
