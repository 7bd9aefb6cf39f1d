package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/soocke/timelapse-go/app"
	"github.com/soocke/timelapse-go/config"
	"github.com/soocke/timelapse-go/debug"
	"github.com/soocke/timelapse-go/logging"
)

func main() {
	cfgPath := flag.String("config", config.DefaultPath, "path to the JSON config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", *cfgPath, "error", err)
	}

	if cfg.Debug {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		debug.StartGoroutineLogger(ctx, 5*time.Second, logger)
		debug.StartMemLogger(ctx, 5*time.Second, logger)
	}

	application := app.NewApp("Timelapse Recorder", cfg, *cfgPath, logger)
	application.Start()
}
