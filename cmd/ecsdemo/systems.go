package main

import (
	"math/rand"

	"github.com/ashfall-games/ecscore/internal/core/ecs"
	"github.com/ashfall-games/ecscore/internal/core/observability/log"
)

// Position and Velocity are the demo's only components: just enough to
// exercise Spawn, Get, AllOf, Kill, and the GC resource flag end to
// end without pulling in a real simulation domain.
type Position struct{ X, Y float64 }
type Velocity struct{ X, Y float64 }

const boundary = 512.0

func spawnSystems(count int) func(ecs.Command, ecs.Queryer) {
	return func(cmd ecs.Command, _ ecs.Queryer) {
		for i := 0; i < count; i++ {
			cmd.Spawn(
				ecs.With(Position{X: rand.Float64() * boundary, Y: rand.Float64() * boundary}),
				ecs.With(Velocity{X: rand.Float64()*20 - 10, Y: rand.Float64()*20 - 10}),
			)
		}
	}
}

// movementSystem advances every entity with both Position and Velocity.
// Registered at the default priority so it fans out through the world's
// ThreadPool alongside any other concurrent update system.
func movementSystem(cmd ecs.Command, qry ecs.Queryer, dt float64) {
	positionID := ecs.TypeOf[Position]()
	velocityID := ecs.TypeOf[Velocity]()

	for h := range qry.AllOf(positionID, velocityID).Seq() {
		pos := ecs.MustGet[Position](qry, h)
		vel := ecs.MustGet[Velocity](qry, h)
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt
	}
}

// boundsSystem runs on the main thread before the concurrent buckets so
// it can request a GC drain this tick without racing movementSystem's
// reads. Any entity that has drifted outside the arena is killed and
// flags the world for garbage collection.
func boundsSystem(l log.Log) func(ecs.Command, ecs.Queryer, float64) {
	return func(cmd ecs.Command, qry ecs.Queryer, _ float64) {
		positionID := ecs.TypeOf[Position]()
		var killed int
		for h := range qry.AllOf(positionID).Seq() {
			pos := ecs.MustGet[Position](qry, h)
			if pos.X < 0 || pos.X > boundary || pos.Y < 0 || pos.Y > boundary {
				cmd.Kill(h)
				killed++
			}
		}
		if killed > 0 {
			ecs.SetResource(cmd, ecs.GCEnabled{Enabled: true})
			l.Debug("killed out-of-bounds entities", log.Int("count", killed))
		}
	}
}

// reportSystem runs last, on the main thread, and logs the current
// living population.
func reportSystem(l log.Log) func(ecs.Command, ecs.Queryer, float64) {
	return func(_ ecs.Command, qry ecs.Queryer, _ float64) {
		positionID := ecs.TypeOf[Position]()
		count := qry.AllOf(positionID).Count()
		l.Info("tick report", log.Int("alive", count))
	}
}
