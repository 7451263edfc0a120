package game

import "log/slog"

// spawnScene creates a grid of drifting boxes around the origin plus a few
// entities with no transform, then configures the camera.
func (g *Game) spawnScene() {
	sc := g.cfg.Scene
	offX := float32(sc.Columns-1) * sc.Spacing / 2
	offZ := float32(sc.Rows-1) * sc.Spacing / 2

	for row := 0; row < sc.Rows; row++ {
		for col := 0; col < sc.Columns; col++ {
			id := g.eng.CreateEntity()
			x := float32(col)*sc.Spacing - offX
			z := float32(row)*sc.Spacing - offZ
			if err := g.eng.SetTransform(id, x, 0, z); err != nil {
				slog.Error("spawn transform", "entity", id, "error", err)
				continue
			}
			vx := (g.rng.Float32()*2 - 1) * sc.MaxDrift
			vz := (g.rng.Float32()*2 - 1) * sc.MaxDrift
			if err := g.eng.SetVelocity(id, vx, 0, vz); err != nil {
				slog.Error("spawn velocity", "entity", id, "error", err)
			}
		}
	}

	// Invisible entities exercise the skip paths
	for i := 0; i < sc.Bare; i++ {
		g.eng.CreateEntity()
	}

	c := g.cfg.Camera
	g.eng.SetCamera(c.Eye[0], c.Eye[1], c.Eye[2], c.FOV, g.cfg.Derived.Aspect, c.Near, c.Far)

	slog.Info("scene spawned",
		"entities", g.eng.EntityCount(),
		"columns", sc.Columns,
		"rows", sc.Rows,
	)
}
