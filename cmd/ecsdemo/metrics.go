package main

import (
	"time"

	"github.com/ashfall-games/ecscore/internal/core/observability/interfaces"
	"github.com/ashfall-games/ecscore/internal/core/observability/log"
)

// logMetricsCollector is a minimal MetricsCollector that reports through
// the demo's own logger rather than a real metrics backend. It exists so
// enable_metrics: true in ecsdemo.yaml exercises ecs.WithMetrics end to
// end without pulling in a metrics dependency this module never carried.
type logMetricsCollector struct {
	log log.Log
}

func newLogMetricsCollector(l log.Log) *logMetricsCollector {
	return &logMetricsCollector{log: l}
}

func (c *logMetricsCollector) Counter(name string, tags map[string]string) interfaces.Counter {
	return &logCounter{log: c.log, name: name}
}

func (c *logMetricsCollector) Gauge(name string, tags map[string]string) interfaces.Gauge {
	return &logGauge{log: c.log, name: name}
}

func (c *logMetricsCollector) Histogram(string, map[string]string) interfaces.Histogram {
	return logHistogram{}
}

func (c *logMetricsCollector) Timer(name string, tags map[string]string) interfaces.Timer {
	return &logTimer{log: c.log, name: name}
}

func (c *logMetricsCollector) RegisterCallback(string, interfaces.MetricsCallback) {}
func (c *logMetricsCollector) Export() ([]interfaces.MetricsFamily, error)         { return nil, nil }

type logCounter struct {
	log   log.Log
	name  string
	count float64
}

func (c *logCounter) Inc() { c.Add(1) }
func (c *logCounter) Add(v float64) {
	c.count += v
	c.log.Debug("metric counter", log.String("name", c.name), log.Float64("value", c.count))
}

type logGauge struct {
	log   log.Log
	name  string
	value float64
}

func (g *logGauge) Set(v float64) { g.value = v; g.report() }
func (g *logGauge) Inc()          { g.value++; g.report() }
func (g *logGauge) Dec()          { g.value--; g.report() }
func (g *logGauge) Add(v float64) { g.value += v; g.report() }
func (g *logGauge) Sub(v float64) { g.value -= v; g.report() }
func (g *logGauge) report() {
	g.log.Debug("metric gauge", log.String("name", g.name), log.Float64("value", g.value))
}

type logTimer struct {
	log   log.Log
	name  string
	start time.Time
}

func (t *logTimer) Start() { t.start = time.Now() }
func (t *logTimer) Stop() {
	if t.start.IsZero() {
		return
	}
	t.log.Debug("metric timer", log.String("name", t.name), log.Duration("elapsed", time.Since(t.start)))
	t.start = time.Time{}
}
func (t *logTimer) Reset() { t.start = time.Time{} }

// logHistogram is a no-op: nothing in this demo emits histogram samples,
// but the interface still needs a value to hand back from Histogram().
type logHistogram struct{}

func (logHistogram) Start()        {}
func (logHistogram) Stop()         {}
func (logHistogram) Reset()        {}
func (logHistogram) Count()        {}
func (logHistogram) Sum()          {}
func (logHistogram) Mean() float64 { return 0 }
func (logHistogram) Min() float64  { return 0 }
func (logHistogram) Max() float64  { return 0 }
