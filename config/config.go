// Package config exposes the runtime configuration of the image repository.
// Values come from environment variables, optionally loaded from a .env file.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func init() {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("IMGREPO_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("IMGREPO_DEBUG") == "true"
}

func GetListen() string {
	listen := os.Getenv("IMGREPO_LISTEN")
	if listen == "" {
		listen = "0.0.0.0"
	}
	return listen
}

func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("IMGREPO_PORT"))
	if err != nil || port <= 0 || port > 65535 {
		return 8080
	}
	return port
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("IMGREPO_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "db"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("IMGREPO_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "log"
	}
	return logFolderPath
}

// GetStoragePath is the folder holding content-addressed image blobs.
func GetStoragePath() string {
	storagePath := os.Getenv("IMGREPO_STORAGE_PATH")
	if storagePath == "" {
		storagePath = "storage"
	}
	return storagePath
}

// GetJWTSecret returns the HMAC signing key for tokens. Empty means the caller
// must generate an ephemeral one.
func GetJWTSecret() string {
	return os.Getenv("IMGREPO_JWT_SECRET")
}

func GetAccessTokenTTL() time.Duration {
	return getDuration("IMGREPO_ACCESS_TOKEN_MINUTES", 15*time.Minute)
}

func GetRefreshTokenTTL() time.Duration {
	return getDuration("IMGREPO_REFRESH_TOKEN_MINUTES", 30*24*time.Hour)
}

func getDuration(key string, def time.Duration) time.Duration {
	minutes, err := strconv.Atoi(os.Getenv(key))
	if err != nil || minutes <= 0 {
		return def
	}
	return time.Duration(minutes) * time.Minute
}

// GetMaxUploadSize caps the accepted image file size in bytes.
func GetMaxUploadSize() int64 {
	size, err := strconv.ParseInt(os.Getenv("IMGREPO_MAX_UPLOAD_SIZE"), 10, 64)
	if err != nil || size <= 0 {
		return 32 << 20
	}
	return size
}

func GetAdminUsername() string {
	username := os.Getenv("IMGREPO_ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	return username
}

func GetAdminPassword() string {
	password := os.Getenv("IMGREPO_ADMIN_PASSWORD")
	if password == "" {
		password = "admin"
	}
	return password
}
