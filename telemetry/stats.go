package telemetry

import "log/slog"

// FrameStats is a snapshot of engine state counts.
type FrameStats struct {
	Entities     int
	Transforms   int
	Selected     int
	Dragging     int
	BufferFloats int
	HasCamera    bool
}

// WindowStats holds aggregated interaction statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Counts at window end
	Entities     int `csv:"entities"`
	Transforms   int `csv:"transforms"`
	Selected     int `csv:"selected"`
	Dragging     int `csv:"dragging"`
	BufferFloats int `csv:"buffer_floats"`

	// Events during window
	Picks      int     `csv:"picks"`
	PickHits   int     `csv:"pick_hits"`
	HitRate    float64 `csv:"hit_rate"`
	DragsBegun int     `csv:"drags_begun"`
	Created    int     `csv:"created"`
}

// Collector accumulates interaction events within windows and produces WindowStats.
type Collector struct {
	windowDurationSec float64
	windowStartTick   int32

	picks      int
	pickHits   int
	dragsBegun int
	created    int
}

// NewCollector creates a new stats collector.
func NewCollector(windowDurationSec float64) *Collector {
	return &Collector{windowDurationSec: windowDurationSec}
}

// WindowDuration returns the configured window length in seconds.
func (c *Collector) WindowDuration() float64 {
	return c.windowDurationSec
}

// RecordPick records a pick and whether it hit.
func (c *Collector) RecordPick(hit bool) {
	c.picks++
	if hit {
		c.pickHits++
	}
}

// RecordDragBegin records a drag that captured at least one entity.
func (c *Collector) RecordDragBegin() {
	c.dragsBegun++
}

// RecordCreate records entity creation.
func (c *Collector) RecordCreate() {
	c.created++
}

// Flush closes the current window and resets event counters.
func (c *Collector) Flush(tick int32, simTime float64, frame FrameStats) WindowStats {
	s := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		SimTimeSec:      simTime,
		Entities:        frame.Entities,
		Transforms:      frame.Transforms,
		Selected:        frame.Selected,
		Dragging:        frame.Dragging,
		BufferFloats:    frame.BufferFloats,
		Picks:           c.picks,
		PickHits:        c.pickHits,
		DragsBegun:      c.dragsBegun,
		Created:         c.created,
	}
	if c.picks > 0 {
		s.HitRate = float64(c.pickHits) / float64(c.picks)
	}

	c.windowStartTick = tick
	c.picks = 0
	c.pickHits = 0
	c.dragsBegun = 0
	c.created = 0
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("entities", s.Entities),
		slog.Int("transforms", s.Transforms),
		slog.Int("selected", s.Selected),
		slog.Int("dragging", s.Dragging),
		slog.Int("buffer_floats", s.BufferFloats),
		slog.Int("picks", s.Picks),
		slog.Float64("hit_rate", s.HitRate),
		slog.Int("drags_begun", s.DragsBegun),
	)
}

// LogStats logs the window stats via slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
