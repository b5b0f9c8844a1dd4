package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"battery-budget/internal/api"
	"battery-budget/internal/config"
	"battery-budget/internal/logger"
	"battery-budget/internal/snapshot"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := flag.String("config", "", "Optional server config YAML (env vars take precedence)")
	flag.Parse()

	cfg, err := config.LoadServer(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	if err := logger.InitLogger("api", logger.Options{
		Level:       cfg.LogLevel,
		Development: !cfg.Production(),
		File:        cfg.LogFile,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	if wd, err := os.Getwd(); err == nil {
		logger.Logger.Infof("[API] working directory: %s", wd)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Logger.Errorf("[Store] %v", err)
		os.Exit(1)
	}
	defer closeStore()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Options{
		Store:       store,
		PresetDir:   cfg.PresetDir,
		StaticDir:   cfg.StaticDir,
		CORSOrigins: cfg.CORSOrigins,
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Logger.Infof("[API] starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		logger.Logger.Errorf("[API] failed to start server: %v", err)
		os.Exit(1)
	}
}

// openStore uses Postgres when DATABASE_URL is set and a plan directory
// otherwise.
func openStore(cfg *config.Server) (snapshot.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		pg, err := snapshot.NewPGStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		logger.Logger.Infof("[Store] using postgres plan store")
		return pg, pg.Close, nil
	}

	fs, err := snapshot.NewFileStore(cfg.StoreDir)
	if err != nil {
		return nil, nil, err
	}
	logger.Logger.Infof("[Store] using plan directory %s", fs.Dir())
	return fs, func() {}, nil
}
