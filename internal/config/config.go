package config

import (
	"time"

	"pos-backoffice/pkg/database"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Port string

	Database struct {
		URL      string
		Host     string
		User     string
		Password string
		Name     string
		Port     string
		TimeZone string
	}

	Session struct {
		Secret       string
		TTL          time.Duration
		CookieSecure bool
	}

	Storage struct {
		Provider  string // "local" or "s3"
		LocalRoot string
		Bucket    string
		Endpoint  string
		Region    string
		KeyID     string
		AppKey    string
	}

	Logger struct {
		Mode     string
		Filename string
	}

	Admin struct {
		Username string
		Email    string
		Password string
	}
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		zap.S().Debug("no .env file found, relying on system environment")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "pos")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("STORAGE_PROVIDER", "local")
	v.SetDefault("STORAGE_LOCAL_ROOT", "./media")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_EMAIL", "admin@pos.com")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
	return v
}

// FromViper maps flat environment keys onto Config
func FromViper(v *viper.Viper) *Config {
	cfg := &Config{}
	cfg.Port = v.GetString("PORT")

	cfg.Database.URL = v.GetString("DATABASE_URL")
	cfg.Database.Host = v.GetString("DB_HOST")
	cfg.Database.User = v.GetString("DB_USER")
	cfg.Database.Password = v.GetString("DB_PASSWORD")
	cfg.Database.Name = v.GetString("DB_NAME")
	cfg.Database.Port = v.GetString("DB_PORT")
	cfg.Database.TimeZone = v.GetString("DB_TIMEZONE")

	cfg.Session.Secret = v.GetString("JWT_SECRET")
	cfg.Session.TTL = v.GetDuration("SESSION_TTL")
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = 24 * time.Hour
	}
	cfg.Session.CookieSecure = v.GetBool("COOKIE_SECURE")

	cfg.Storage.Provider = v.GetString("STORAGE_PROVIDER")
	cfg.Storage.LocalRoot = v.GetString("STORAGE_LOCAL_ROOT")
	cfg.Storage.Bucket = v.GetString("S3_BUCKET")
	cfg.Storage.Endpoint = v.GetString("S3_ENDPOINT")
	cfg.Storage.Region = v.GetString("S3_REGION")
	cfg.Storage.KeyID = v.GetString("S3_KEY_ID")
	cfg.Storage.AppKey = v.GetString("S3_APP_KEY")

	cfg.Logger.Mode = v.GetString("LOG_MODE")
	cfg.Logger.Filename = v.GetString("LOG_FILE")

	cfg.Admin.Username = v.GetString("ADMIN_USERNAME")
	cfg.Admin.Email = v.GetString("ADMIN_EMAIL")
	cfg.Admin.Password = v.GetString("ADMIN_PASSWORD")
	return cfg
}

// DatabaseOptions converts the database section for database.ConnectDB
func (c *Config) DatabaseOptions() database.Options {
	return database.Options{
		URL:      c.Database.URL,
		Host:     c.Database.Host,
		User:     c.Database.User,
		Password: c.Database.Password,
		Name:     c.Database.Name,
		Port:     c.Database.Port,
		TimeZone: c.Database.TimeZone,
	}
}
