package metric

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus creates collectors on first use, label names of a metric are fixed by that first use.
type Prometheus struct {
	namespace  string
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
}

func NewPrometheus(namespace string, registerer prometheus.Registerer) *Prometheus {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Prometheus{
		namespace:  namespace,
		registerer: registerer,
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (p *Prometheus) With(labels Labels) Metrics {
	return labeled{impl: p, labels: labels}
}

func (p *Prometheus) Increment(key string) {
	labeled{impl: p}.Increment(key)
}

func (p *Prometheus) Count(key string, n int) {
	labeled{impl: p}.Count(key, n)
}

func (p *Prometheus) Duration(key string, d time.Duration) {
	labeled{impl: p}.Duration(key, d)
}

func (p *Prometheus) counter(key string, labelNames []string) *prometheus.CounterVec {
	p.mu.Lock()
	defer p.mu.Unlock()

	if vec, ok := p.counters[key]; ok {
		return vec
	}

	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: p.namespace,
		Name:      key,
		Help:      key,
	}, labelNames)
	p.counters[key] = registerOrExisting(p.registerer, vec)
	return p.counters[key]
}

func (p *Prometheus) histogram(key string, labelNames []string) *prometheus.HistogramVec {
	p.mu.Lock()
	defer p.mu.Unlock()

	if vec, ok := p.histograms[key]; ok {
		return vec
	}

	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: p.namespace,
		Name:      key,
		Help:      key,
		Buckets:   prometheus.DefBuckets,
	}, labelNames)
	p.histograms[key] = registerOrExisting(p.registerer, vec)
	return p.histograms[key]
}

func registerOrExisting[T prometheus.Collector](registerer prometheus.Registerer, c T) T {
	err := registerer.Register(c)
	if err == nil {
		return c
	}

	if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
		if existing, ok := already.ExistingCollector.(T); ok {
			return existing
		}
	}
	return c
}

type labeled struct {
	impl   *Prometheus
	labels Labels
}

func (l labeled) With(labels Labels) Metrics {
	merged := make(Labels, len(l.labels)+len(labels))
	maps.Copy(merged, l.labels)
	maps.Copy(merged, labels)
	return labeled{impl: l.impl, labels: merged}
}

func (l labeled) Increment(key string) {
	l.Count(key, 1)
}

func (l labeled) Count(key string, n int) {
	l.impl.counter(key, l.names()).With(prometheus.Labels(l.labels)).Add(float64(n))
}

func (l labeled) Duration(key string, d time.Duration) {
	l.impl.histogram(key, l.names()).With(prometheus.Labels(l.labels)).Observe(d.Seconds())
}

func (l labeled) names() []string {
	return slices.Sorted(maps.Keys(l.labels))
}
