package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashfall-games/ecscore/internal/core/ecs"
	"github.com/ashfall-games/ecscore/internal/core/observability/log"
	"github.com/ashfall-games/ecscore/internal/injector"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadHostConfig("ecsdemo.yaml")
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := injector.ProvideLogger()
	worldOpts := []ecs.WorldOption{ecs.WithLogger(logger)}
	if cfg.EnableMetrics {
		worldOpts = append(worldOpts, ecs.WithMetrics(newLogMetricsCollector(logger)))
	}
	world := ecs.NewWorld(worldOpts...)
	wireDemoSystems(world, cfg)

	if err := world.Startup(); err != nil {
		fmt.Println("Error starting world:", err)
	}

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(float64(time.Second) / cfg.TickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := world.Update(1.0 / cfg.TickRate); err != nil {
				fmt.Println("Error updating world:", err)
			}
		case <-stopCh:
			cancel()
			if err := world.Shutdown(); err != nil {
				fmt.Println("Error shutting down world:", err)
			}
			return
		case <-ctx.Done():
			return
		}
	}
}

func wireDemoSystems(world *ecs.World, cfg hostConfig) {
	logger := log.New(parseLevel(cfg.LogLevel))

	world.AddStartup(spawnSystems(cfg.SpawnCount), ecs.Default)
	world.AddUpdate(boundsSystem(logger), ecs.EarlyMainThread)
	world.AddUpdate(movementSystem, ecs.Default)
	world.AddUpdate(reportSystem(logger), ecs.LateMainThread)
}

func parseLevel(name string) log.Level {
	switch name {
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
