package utils

import (
	"os"

	"github.com/spf13/viper"
)

const (
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
)

type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Supabase SupabaseConfig
	Database DatabaseConfig
	Session  SessionConfig
	Storage  StorageConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

// BackendConfig selects which implementation of the backend contract the
// console talks to.
type BackendConfig struct {
	Driver string
}

type SupabaseConfig struct {
	URL            string
	AnonKey        string
	TimeoutSeconds int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type SessionConfig struct {
	Secret      string
	ExpiryHours int
	CookieName  string
	Secure      bool
}

type StorageConfig struct {
	Bucket        string
	Dir           string
	PublicBaseURL string
	UploadMaxMB   int64
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "catalog-console")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("BACKEND_DRIVER", DriverSupabase)
	viper.SetDefault("SUPABASE_TIMEOUT_SECONDS", 30)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("SESSION_COOKIE", "console_session")
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("STORAGE_BUCKET", "media")
	viper.SetDefault("STORAGE_DIR", "data/media")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("UPLOAD_MAX_MB", 512)

	// .env is optional when everything comes from the environment
	if _, err := os.Stat(".env"); err == nil {
		if err := viper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Backend: BackendConfig{
			Driver: viper.GetString("BACKEND_DRIVER"),
		},
		Supabase: SupabaseConfig{
			URL:            viper.GetString("SUPABASE_URL"),
			AnonKey:        viper.GetString("SUPABASE_ANON_KEY"),
			TimeoutSeconds: viper.GetInt("SUPABASE_TIMEOUT_SECONDS"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Session: SessionConfig{
			Secret:      viper.GetString("SESSION_SECRET"),
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
			CookieName:  viper.GetString("SESSION_COOKIE"),
			Secure:      viper.GetBool("COOKIE_SECURE"),
		},
		Storage: StorageConfig{
			Bucket:        viper.GetString("STORAGE_BUCKET"),
			Dir:           viper.GetString("STORAGE_DIR"),
			PublicBaseURL: viper.GetString("PUBLIC_BASE_URL"),
			UploadMaxMB:   viper.GetInt64("UPLOAD_MAX_MB"),
		},
	}

	return config, nil
}
