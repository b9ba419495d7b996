//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/ashfall-games/ecscore/internal/core/ecs"
	"github.com/ashfall-games/ecscore/internal/core/observability/log"
)

// ProvideLogger builds the process-wide logger.
func ProvideLogger() *log.Logger {
	wire.Build(log.Provide)
	return log.New(log.LevelInfo)
}

// ProvideWorld assembles a *ecs.World with its default collaborators:
// zap-backed logging, the errgroup thread pool, and no asset hub or
// metrics collector. It takes no extra options; a caller that needs
// either builds the world with ecs.NewWorld and the matching
// ecs.WorldOption.
func ProvideWorld() *ecs.World {
	wire.Build(
		ProvideLogger,
		wire.Bind(new(log.Log), new(*log.Logger)),
		provideDefaultOptions,
		newWorldFromOptions,
	)
	return nil
}

func provideDefaultOptions(l log.Log) []ecs.WorldOption {
	return []ecs.WorldOption{ecs.WithLogger(l)}
}

func newWorldFromOptions(opts []ecs.WorldOption) *ecs.World {
	return ecs.NewWorld(opts...)
}
