package game

import "log/slog"

// flushTelemetry closes the current stats window, logs it and appends it to
// the CSV output.
func (g *Game) flushTelemetry() {
	stats := g.collector.Flush(g.tick, g.simTime, g.eng.Stats())
	perfStats := g.perf.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteStats(stats); err != nil {
			slog.Error("failed to write stats", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
