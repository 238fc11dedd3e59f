package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Backend API the wizard talks to.
	APIBaseURL string `mapstructure:"API_BASE_URL"`

	// Secret used to open redirect-carried token payloads.
	PayloadSecret string `mapstructure:"PAYLOAD_SECRET"`

	// Redis configuration. Leave REDIS_ADDR empty to run on the in-memory store.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`

	// Cloudinary credentials for listing photo uploads.
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	// Identity verification timings.
	VerificationPollInterval time.Duration `mapstructure:"VERIFICATION_POLL_INTERVAL"`
	VerificationPollCeiling  time.Duration `mapstructure:"VERIFICATION_POLL_CEILING"`
	VerificationSuccessDelay time.Duration `mapstructure:"VERIFICATION_SUCCESS_DELAY"`

	// Draft persistence.
	DraftFreshness time.Duration `mapstructure:"DRAFT_FRESHNESS"`

	// Minimum photos required to reach the preview step. Zero keeps the
	// historical behaviour of allowing a photo-less listing through.
	MinListingPhotos int `mapstructure:"MIN_LISTING_PHOTOS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8787")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("API_BASE_URL", "https://api.poolandchill.mx")
	viper.SetDefault("PAYLOAD_SECRET", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	viper.SetDefault("CLOUDINARY_API_KEY", "")
	viper.SetDefault("CLOUDINARY_API_SECRET", "")
	viper.SetDefault("VERIFICATION_POLL_INTERVAL", "3s")
	viper.SetDefault("VERIFICATION_POLL_CEILING", "10m")
	viper.SetDefault("VERIFICATION_SUCCESS_DELAY", "2s")
	viper.SetDefault("DRAFT_FRESHNESS", "2h")
	viper.SetDefault("MIN_LISTING_PHOTOS", 0)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
