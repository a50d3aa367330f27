package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/SidneyBovet/online-chibre/internal/config"
	"github.com/SidneyBovet/online-chibre/internal/database"
	"github.com/SidneyBovet/online-chibre/internal/game"
	"github.com/SidneyBovet/online-chibre/internal/server"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var configPath = flag.String("config", "config/config.yaml", "path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting Chibre server", zap.String("config", *configPath))

	db, err := database.New(cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to open results database", zap.Error(err))
	}
	defer db.Close()

	gameCfg := game.DefaultConfig()
	gameCfg.TargetScore = cfg.Game.TargetScore
	gameCfg.SettleDelay = cfg.Game.SettleDelay
	if err := gameCfg.Validate(); err != nil {
		logger.Fatal("invalid game configuration", zap.Error(err))
	}

	hub := server.NewHub(db, gameCfg, logger)
	go hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		server.ServeWs(hub, w, r)
	})
	mux.Handle("/", http.FileServer(http.Dir(cfg.Server.StaticDir)))
	server.HandleRoutes(mux, db, logger)

	logger.Info("listening", zap.String("address", cfg.Server.Address))
	if err := http.ListenAndServe(cfg.Server.Address, mux); err != nil {
		logger.Fatal("http server error", zap.Error(err))
	}
}

// initLogger initializes the zap logger based on configuration.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
