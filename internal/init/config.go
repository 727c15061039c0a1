package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// App mode: "client" runs the terminal app, "stub" runs the local
	// development backend.
	Mode string

	// Backend
	BaseURL   string
	FeedLimit int

	// Credential storage directory (token + profile files)
	CredDir string

	// Stub backend
	StubAddr  string
	JWTSecret string
}

var cfg *Config

// Init loads the config using Viper and returns it
func Init() *Config {
	// .env values become plain env vars before viper reads them
	_ = godotenv.Load()

	viper.SetDefault("MODE", "client")
	viper.SetDefault("API_BASE_URL", "http://localhost:8000")
	viper.SetDefault("FEED_LIMIT", 10)
	viper.SetDefault("CRED_DIR", defaultCredDir())

	viper.SetDefault("STUB_ADDR", ":8000")
	// Optional: JWT secret only matters in stub mode

	// Load env variables
	viper.AutomaticEnv()

	// Optional config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	_ = viper.ReadInConfig() // ignore error if no file

	cfg = &Config{
		Mode:      viper.GetString("MODE"),
		BaseURL:   viper.GetString("API_BASE_URL"),
		FeedLimit: viper.GetInt("FEED_LIMIT"),
		CredDir:   viper.GetString("CRED_DIR"),
		StubAddr:  viper.GetString("STUB_ADDR"),
		JWTSecret: viper.GetString("JWT_SECRET"),
	}

	return cfg
}

func defaultCredDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".tinysocial"
	}
	return filepath.Join(base, "tinysocial")
}

// Get returns the loaded config instance
func Get() *Config {
	return cfg
}
