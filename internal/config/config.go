package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Data      DataConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DataConfig struct {
	// Dir is the directory holding items.json and its sibling staging and
	// backup files.
	Dir string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	// RequestsPerMinute of 0 disables rate limiting entirely; Redis is only
	// dialed when it is positive.
	RequestsPerMinute int
	RedisHost         string
	RedisPort         string
	RedisPassword     string
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("RATE_LIMIT_RPM", 0)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Data: DataConfig{
			Dir: viper.GetString("DATA_DIR"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: viper.GetInt("RATE_LIMIT_RPM"),
			RedisHost:         viper.GetString("REDIS_HOST"),
			RedisPort:         viper.GetString("REDIS_PORT"),
			RedisPassword:     viper.GetString("REDIS_PASSWORD"),
		},
	}
}
