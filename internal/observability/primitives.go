package observability

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Label-keyed counters, gauges and fixed-bucket histograms rendered in the
// Prometheus text format. Only what Metrics exposes.

type metricKind string

const (
	kindCounter   metricKind = "counter"
	kindGauge     metricKind = "gauge"
	kindHistogram metricKind = "histogram"
)

type series struct {
	value float64
	// histogram only: per-bucket hits, last slot is +Inf. Made cumulative on write.
	hits  []uint64
	total uint64
}

type vec struct {
	name   string
	help   string
	kind   metricKind
	labels []string
	bounds []float64

	mu   sync.Mutex
	rows map[string]*series
}

func newVec(name, help string, kind metricKind, labels []string, bounds []float64) *vec {
	return &vec{name: name, help: help, kind: kind, labels: labels, bounds: bounds, rows: map[string]*series{}}
}

func (v *vec) update(values []string, fn func(*series)) {
	key := labelString(v.labels, values)
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.rows[key]
	if !ok {
		s = &series{}
		if v.kind == kindHistogram {
			s.hits = make([]uint64, len(v.bounds)+1)
		}
		v.rows[key] = s
	}
	fn(s)
}

func (v *vec) snapshot(values []string) series {
	key := labelString(v.labels, values)
	v.mu.Lock()
	defer v.mu.Unlock()
	if s, ok := v.rows[key]; ok {
		return *s
	}
	return series{}
}

func (v *vec) WritePrometheus(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", v.name, v.help, v.name, v.kind); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	keys := make([]string, 0, len(v.rows))
	for k := range v.rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s := v.rows[k]
		if v.kind != kindHistogram {
			if _, err := fmt.Fprintf(w, "%s%s %s\n", v.name, k, formatFloat(s.value)); err != nil {
				return err
			}
			continue
		}
		var running uint64
		for i, hits := range s.hits {
			running += hits
			le := "+Inf"
			if i < len(v.bounds) {
				le = formatFloat(v.bounds[i])
			}
			if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n", v.name, withLe(k, le), running); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s_sum%s %s\n%s_count%s %d\n", v.name, k, formatFloat(s.value), v.name, k, s.total); err != nil {
			return err
		}
	}
	return nil
}

type CounterVec struct{ v *vec }

func NewCounterVec(name, help string, labels []string) *CounterVec {
	return &CounterVec{v: newVec(name, help, kindCounter, labels, nil)}
}

func (c *CounterVec) Inc(values ...string) { c.Add(1, values...) }

// Add ignores negative deltas; counters only go up.
func (c *CounterVec) Add(delta float64, values ...string) {
	if c == nil || delta < 0 {
		return
	}
	c.v.update(values, func(s *series) { s.value += delta })
}

func (c *CounterVec) Value(values ...string) float64 {
	if c == nil {
		return 0
	}
	return c.v.snapshot(values).value
}

func (c *CounterVec) WritePrometheus(w io.Writer) error {
	if c == nil {
		return nil
	}
	return c.v.WritePrometheus(w)
}

type Counter struct{ CounterVec }

func NewCounter(name, help string) *Counter {
	return &Counter{CounterVec{v: newVec(name, help, kindCounter, nil, nil)}}
}

type GaugeVec struct{ v *vec }

func NewGaugeVec(name, help string, labels []string) *GaugeVec {
	return &GaugeVec{v: newVec(name, help, kindGauge, labels, nil)}
}

func (g *GaugeVec) Set(val float64, values ...string) {
	if g == nil {
		return
	}
	g.v.update(values, func(s *series) { s.value = val })
}

func (g *GaugeVec) Add(delta float64, values ...string) {
	if g == nil {
		return
	}
	g.v.update(values, func(s *series) { s.value += delta })
}

func (g *GaugeVec) Value(values ...string) float64 {
	if g == nil {
		return 0
	}
	return g.v.snapshot(values).value
}

func (g *GaugeVec) WritePrometheus(w io.Writer) error {
	if g == nil {
		return nil
	}
	return g.v.WritePrometheus(w)
}

type Gauge struct{ GaugeVec }

func NewGauge(name, help string) *Gauge {
	return &Gauge{GaugeVec{v: newVec(name, help, kindGauge, nil, nil)}}
}

func (g *Gauge) Inc() { g.Add(1) }
func (g *Gauge) Dec() { g.Add(-1) }

type HistogramVec struct{ v *vec }

var defaultBounds = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// NewHistogramVec sorts a copy of bounds; nil or empty selects defaultBounds.
func NewHistogramVec(name, help string, labels []string, bounds []float64) *HistogramVec {
	if len(bounds) == 0 {
		bounds = defaultBounds
	}
	sorted := append([]float64(nil), bounds...)
	sort.Float64s(sorted)
	return &HistogramVec{v: newVec(name, help, kindHistogram, labels, sorted)}
}

func (h *HistogramVec) Observe(val float64, values ...string) {
	if h == nil {
		return
	}
	slot := sort.SearchFloat64s(h.v.bounds, val)
	h.v.update(values, func(s *series) {
		s.hits[slot]++
		s.value += val
		s.total++
	})
}

func (h *HistogramVec) Count(values ...string) uint64 {
	if h == nil {
		return 0
	}
	return h.v.snapshot(values).total
}

func (h *HistogramVec) WritePrometheus(w io.Writer) error {
	if h == nil {
		return nil
	}
	return h.v.WritePrometheus(w)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// labelString renders {name="value",...}; missing values become "unknown".
func labelString(names []string, values []string) string {
	if len(names) == 0 {
		return ""
	}
	pairs := make([]string, len(names))
	for i, name := range names {
		val := "unknown"
		if i < len(values) {
			val = values[i]
		}
		pairs[i] = name + `="` + labelEscaper.Replace(val) + `"`
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func withLe(labels string, le string) string {
	if labels == "" {
		return `{le="` + le + `"}`
	}
	return strings.TrimSuffix(labels, "}") + `,le="` + le + `"}`
}
