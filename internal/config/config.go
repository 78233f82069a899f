package config

import "os"

// Config holds server configuration, read from the environment with
// local-development defaults.
type Config struct {
	Port      string
	MongoURI  string
	Database  string
	RedisAddr string
}

// Load reads configuration from the environment.
func Load() *Config {
	redisAddr := getEnvOrDefault("REDIS_URI", "redis:6379")
	// Remove redis:// prefix if present
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}

	return &Config{
		Port:      getEnvOrDefault("PORT", "8080"),
		MongoURI:  getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		Database:  getEnvOrDefault("MONGO_DATABASE", "ascentra"),
		RedisAddr: redisAddr,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
