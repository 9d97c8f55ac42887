// Package config provides application configuration read from environment
// variables, with defaults suitable for local development.
package config

import (
	"fmt"
	"os"
	"strings"
)

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

const name = "audiovault"

func GetName() string {
	return name
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("AV_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("AV_DEBUG") == "true"
}

func GetListen() string {
	listen := os.Getenv("AV_LISTEN")
	if listen == "" {
		listen = "0.0.0.0"
	}
	return listen
}

func GetPort() string {
	port := os.Getenv("AV_PORT")
	if port == "" {
		port = "8000"
	}
	return port
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("AV_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "data"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

// GetStorageFolder returns the root directory for uploaded audio bytes.
// Files live under <root>/<owner id>/<title>.
func GetStorageFolder() string {
	storageFolder := os.Getenv("AV_STORAGE_FOLDER")
	if storageFolder == "" {
		storageFolder = "storage"
	}
	return storageFolder
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("AV_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "log"
	}
	return logFolderPath
}

// GetTokenSecret returns the HMAC secret used to sign internally issued
// bearer tokens.
func GetTokenSecret() string {
	secret := os.Getenv("AV_TOKEN_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}
	return secret
}

func GetOrphanCleanupCron() string {
	runtime := os.Getenv("AV_ORPHAN_CLEANUP_CRON")
	if runtime == "" {
		runtime = "@hourly"
	}
	return runtime
}

// Yandex OAuth application credentials. All of client id, secret and
// redirect URI must be set for the OAuth login flow to work.
func GetYandexClientID() string {
	return strings.TrimSpace(os.Getenv("AV_YANDEX_CLIENT_ID"))
}

func GetYandexClientSecret() string {
	return strings.TrimSpace(os.Getenv("AV_YANDEX_CLIENT_SECRET"))
}

func GetYandexRedirectURI() string {
	return strings.TrimSpace(os.Getenv("AV_YANDEX_REDIRECT_URI"))
}
