package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"laptimer-ng/internal/config"
	"laptimer-ng/internal/web"
)

func main() {
	var configPath string
	var summarizePath string
	flag.StringVar(&configPath, "config", "./laptimer.yaml", "Path to YAML config")
	flag.StringVar(&summarizePath, "summarize", "", "Print a summary of a recorded session log and exit")
	flag.Parse()

	if summarizePath != "" {
		if err := printLogSummary(summarizePath); err != nil {
			log.Fatalf("summarize failed: %v", err)
		}
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := newTimerRuntime(cfg)
	if err != nil {
		log.Fatalf("runtime init failed: %v", err)
	}
	defer rt.Close()

	log.Printf("laptimer-ng starting")
	log.Printf("input source=%s origin=(%.7f,%.7f) radius_m=%.1f",
		cfg.Input.Source, cfg.Timer.OriginLatDeg, cfg.Timer.OriginLonDeg, cfg.Timer.RadiusM)

	if cfg.Web.Enable {
		go func() {
			if err := web.Serve(ctx, cfg.Web.Listen, rt.status, rt.bcast); err != nil && ctx.Err() == nil {
				log.Printf("web server stopped: %v", err)
				cancel()
			}
		}()
		log.Printf("web listening on %s", cfg.Web.Listen)
	}

	if err := rt.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("runtime failed: %v", err)
	}
	log.Printf("laptimer-ng stopping")
}
