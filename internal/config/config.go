// Package config loads application settings, the extraction keyword file,
// and the logger.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Config holds all configuration values.
type Config struct {
	// ElevenLabs transcription
	APIKey            string
	ModelID           string
	TranscribeTimeout time.Duration

	// Storage
	DBPath   string
	AudioDir string

	// Keyword extraction
	KeywordsFile string // empty means built-in defaults

	// Audio capture (ffmpeg)
	CaptureFormat string
	CaptureDevice string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".lunalog")

	return Config{
		APIKey:            os.Getenv("ELEVEN_LABS_API_KEY"),
		ModelID:           getEnv("LUNALOG_MODEL_ID", "eleven_monolingual_v1"),
		TranscribeTimeout: getDuration("LUNALOG_TRANSCRIBE_TIMEOUT", 30*time.Second),

		DBPath:   getEnv("LUNALOG_DB", filepath.Join(dataDir, "logs.sqlite")),
		AudioDir: getEnv("LUNALOG_AUDIO_DIR", filepath.Join(dataDir, "audio")),

		KeywordsFile: os.Getenv("LUNALOG_KEYWORDS"),

		CaptureFormat: getEnv("LUNALOG_CAPTURE_FORMAT", defaultCaptureFormat()),
		CaptureDevice: getEnv("LUNALOG_CAPTURE_DEVICE", "default"),

		LogFile:  getEnv("LUNALOG_LOG_FILE", filepath.Join(dataDir, "lunalog.log")),
		LogLevel: parseLogLevel(getEnv("LUNALOG_LOG_LEVEL", "INFO")),
	}
}

func defaultCaptureFormat() string {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation"
	case "windows":
		return "dshow"
	default:
		return "alsa"
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
