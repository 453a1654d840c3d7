// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything the service needs to start.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// LogLevel is the logrus level name.
	LogLevel string
	// LogDir is where rotated log files go. Empty disables file logging.
	LogDir string
	// DBPath is the SQLite database file.
	DBPath string

	// GeminiAPIKey enables AI analysis when set.
	GeminiAPIKey string
	// GeminiModel overrides the default Gemini model.
	GeminiModel string

	// RedisAddr enables the analysis cache when set.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// CanvasWidth and CanvasHeight size each session's drawing surface.
	CanvasWidth  int
	CanvasHeight int
	// MotionThreshold is the percent of changed pixels that counts as motion.
	MotionThreshold float64
	// SessionTTL evicts sessions idle for longer than this.
	SessionTTL time.Duration
	// DetectorScript overrides the bundled MediaPipe helper script path.
	DetectorScript string
}

// Load reads configuration from a .env file (when present) and the
// environment, applying defaults for anything unset.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment")
	}

	return &Config{
		Addr:            getEnv("AIRSKETCH_ADDR", ":8080"),
		LogLevel:        getEnv("AIRSKETCH_LOG_LEVEL", "info"),
		LogDir:          getEnv("AIRSKETCH_LOG_DIR", "./storage/logs"),
		DBPath:          getEnv("AIRSKETCH_DB_PATH", "airsketch.db"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     os.Getenv("GEMINI_MODEL"),
		RedisAddr:       os.Getenv("REDIS_ADDRESS"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		CanvasWidth:     getEnvInt("AIRSKETCH_CANVAS_WIDTH", 0),
		CanvasHeight:    getEnvInt("AIRSKETCH_CANVAS_HEIGHT", 0),
		MotionThreshold: getEnvFloat("AIRSKETCH_MOTION_THRESHOLD", 0),
		SessionTTL:      getEnvDuration("AIRSKETCH_SESSION_TTL", 0),
		DetectorScript:  os.Getenv("AIRSKETCH_DETECTOR_SCRIPT"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid integer %q, using %d", v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid number %q, using %g", v, fallback)
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid duration %q, using %s", v, fallback)
		return fallback
	}
	return d
}
