package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Snapshot SnapshotConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SnapshotConfig struct {
	ImagesPath      string // archive base directory on disk
	FFmpegPath      string
	CaptureTimeout  int // seconds, hard wall-clock limit per ffmpeg run
	ThumbnailWidth  int
	ThumbnailHeight int
	RetentionDays   int
	DaemonInterval  int // seconds between daemon iterations
	CleanupEvery    int // daemon iterations between retention sweeps
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "site_cctv"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Snapshot: SnapshotConfig{
			ImagesPath:      getEnv("IMAGES_PATH", "./public/images"),
			FFmpegPath:      getEnv("FFMPEG_PATH", "ffmpeg"),
			CaptureTimeout:  getEnvAsInt("CAPTURE_TIMEOUT", 60),
			ThumbnailWidth:  getEnvAsInt("THUMBNAIL_WIDTH", 192),
			ThumbnailHeight: getEnvAsInt("THUMBNAIL_HEIGHT", 108),
			RetentionDays:   getEnvAsInt("RETENTION_DAYS", 30),
			DaemonInterval:  getEnvAsInt("DAEMON_INTERVAL", 60),
			CleanupEvery:    getEnvAsInt("CLEANUP_EVERY", 100),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
