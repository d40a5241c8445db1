package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bubblelevel/internal/config"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./dev.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := newRuntime(cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	log.Printf("bubblelevel starting")
	log.Printf("mode=%s sense=%s sensor=%s display=%s buttons=%s hold=%s",
		cfg.Level.Mode, cfg.Level.Sense, cfg.Sensor.Backend, cfg.Display.Backend, cfg.Buttons.Backend, cfg.Level.Hold)

	runErr := rt.run(ctx)
	rt.Close()
	if runErr != nil {
		// A sensor failure after startup is an unrecoverable hardware fault.
		log.Fatalf("%v", runErr)
	}
	log.Printf("bubblelevel stopping")
}
