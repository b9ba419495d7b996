package ecs

import (
	"strconv"

	"github.com/ashfall-games/ecscore/internal/core/observability/interfaces"
)

// schedulerMetrics adapts the observability package's MetricsCollector
// into the handful of counters and timers the scheduler can usefully
// report: one timer per system execution, one fault counter per
// priority bucket. A World that never installs a collector gets the
// nilMetricsCollector below, so instrumentation is always optional and
// never on the hot path when unused.
type schedulerMetrics struct {
	collector interfaces.MetricsCollector
}

func newSchedulerMetrics(collector interfaces.MetricsCollector) schedulerMetrics {
	if collector == nil {
		collector = nilMetricsCollector{}
	}
	return schedulerMetrics{collector: collector}
}

// startTimer starts a per-system timer and returns a stop function; the
// caller passes whether the system faulted once it knows, so the fault
// counter only increments for the bucket that actually failed.
func (m schedulerMetrics) startTimer(priority Priority) func(faulted bool) {
	tags := map[string]string{"priority": strconv.Itoa(int(priority))}
	timer := m.collector.Timer("ecs_system_duration", tags)
	timer.Start()
	return func(faulted bool) {
		timer.Stop()
		if faulted {
			m.collector.Counter("ecs_system_faults", tags).Inc()
		}
	}
}

type nilMetricsCollector struct{}

func (nilMetricsCollector) Counter(string, map[string]string) interfaces.Counter { return nilCounter{} }
func (nilMetricsCollector) Gauge(string, map[string]string) interfaces.Gauge     { return nilGauge{} }
func (nilMetricsCollector) Histogram(string, map[string]string) interfaces.Histogram {
	return nilHistogram{}
}
func (nilMetricsCollector) Timer(string, map[string]string) interfaces.Timer { return nilTimer{} }
func (nilMetricsCollector) RegisterCallback(string, interfaces.MetricsCallback) {}
func (nilMetricsCollector) Export() ([]interfaces.MetricsFamily, error)         { return nil, nil }

type nilCounter struct{}

func (nilCounter) Inc()        {}
func (nilCounter) Add(float64) {}

type nilGauge struct{}

func (nilGauge) Set(float64) {}
func (nilGauge) Inc()        {}
func (nilGauge) Dec()        {}
func (nilGauge) Add(float64) {}
func (nilGauge) Sub(float64) {}

type nilTimer struct{}

func (nilTimer) Start() {}
func (nilTimer) Stop()  {}
func (nilTimer) Reset() {}

type nilHistogram struct{}

func (nilHistogram) Start()          {}
func (nilHistogram) Stop()           {}
func (nilHistogram) Reset()          {}
func (nilHistogram) Count()          {}
func (nilHistogram) Sum()            {}
func (nilHistogram) Mean() float64   { return 0 }
func (nilHistogram) Min() float64    { return 0 }
func (nilHistogram) Max() float64    { return 0 }
