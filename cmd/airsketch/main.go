package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/edulabs/airsketch/internal/analysis"
	"github.com/edulabs/airsketch/internal/config"
	"github.com/edulabs/airsketch/internal/detector"
	"github.com/edulabs/airsketch/internal/logging"
	"github.com/edulabs/airsketch/internal/server"
	"github.com/edulabs/airsketch/internal/session"
	"github.com/edulabs/airsketch/internal/store"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogDir)

	st, err := store.New(cfg.DBPath)
	if err != nil {
		logger.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	det := newDetector(cfg)
	defer det.Close()

	manager := session.NewManager(session.Config{
		Detector:        det,
		CanvasWidth:     cfg.CanvasWidth,
		CanvasHeight:    cfg.CanvasHeight,
		MotionThreshold: cfg.MotionThreshold,
		SessionTTL:      cfg.SessionTTL,
	})
	defer manager.Close()

	analyzer := newAnalyzer(cfg)

	srv := server.New(server.Config{
		Manager:  manager,
		Store:    st,
		Analyzer: analyzer,
	})

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Infof("Starting server on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	<-sigChan
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("Shutdown failed: %v", err)
	}
}

// newDetector tries MediaPipe first and falls back to the mock detector
// when the helper process is unavailable.
func newDetector(cfg *config.Config) detector.Detector {
	dcfg := detector.DefaultConfig()
	if cfg.DetectorScript != "" {
		dcfg.ScriptPath = cfg.DetectorScript
	}

	if mp, err := detector.NewMediaPipeDetector(dcfg); err == nil {
		logrus.Info("Using MediaPipe hand detection")
		return mp
	} else {
		logrus.Warnf("MediaPipe not available (%v), using mock detector", err)
		return detector.NewMockDetector()
	}
}

// newAnalyzer builds the Gemini analyzer with an optional Redis cache.
// Analysis stays disabled when no API key is configured.
func newAnalyzer(cfg *config.Config) analysis.Analyzer {
	if cfg.GeminiAPIKey == "" {
		logrus.Warn("GEMINI_API_KEY not set, analysis disabled")
		return nil
	}

	gemini, err := analysis.NewGeminiAnalyzer(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logrus.Errorf("Failed to initialize Gemini: %v", err)
		return nil
	}

	if cfg.RedisAddr == "" {
		return gemini
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logrus.Warnf("Redis unavailable (%v), analysis cache disabled", err)
		return gemini
	}

	logrus.Info("Analysis cache enabled")
	return analysis.NewCachedAnalyzer(gemini, rdb, 0)
}
