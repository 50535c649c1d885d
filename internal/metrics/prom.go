package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const labelQualifier = "qualifier"

// Prom は Prometheus を使ったメトリクス実装です。
type Prom struct {
	accepted       *prometheus.CounterVec
	duplicate      *prometheus.CounterVec
	evicted        *prometheus.CounterVec
	upstreamErrors *prometheus.CounterVec
	fetchLatency   *prometheus.HistogramVec
	windowSize     *prometheus.GaugeVec
}

// NewProm は Prometheus を使ったメトリクス実装を初期化し、reg に登録します。
// reg が nil の場合は prometheus.DefaultRegisterer を使います。
func NewProm(namespace string, reg prometheus.Registerer) *Prom {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	makeC := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	}

	p := &Prom{
		accepted:       makeC("numbers_accepted_total", "Number of fetched numbers accepted into a window", labelQualifier),
		duplicate:      makeC("numbers_duplicate_total", "Number of fetched numbers discarded as duplicates", labelQualifier),
		evicted:        makeC("numbers_evicted_total", "Number of numbers evicted from a window", labelQualifier),
		upstreamErrors: makeC("upstream_errors_total", "Number of failed upstream fetches", labelQualifier, "kind"),
		fetchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_fetch_seconds",
			Help:      "Latency of upstream fetches",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1},
		}, []string{labelQualifier}),
		windowSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "window_current_size",
			Help:      "Current number of values held by a window",
		}, []string{labelQualifier}),
	}

	// MustRegister は重複登録で panic するので、同じ reg に対しては 1 回だけ呼ぶ
	reg.MustRegister(
		p.accepted, p.duplicate, p.evicted, p.upstreamErrors, p.fetchLatency, p.windowSize,
	)
	return p
}

// AddAccepted は受理された数値の数を加算します。
func (p *Prom) AddAccepted(qualifier string, n int) {
	if n > 0 {
		p.accepted.WithLabelValues(qualifier).Add(float64(n))
	}
}

// AddDuplicate は重複として破棄された数値の数を加算します。
func (p *Prom) AddDuplicate(qualifier string, n int) {
	if n > 0 {
		p.duplicate.WithLabelValues(qualifier).Add(float64(n))
	}
}

// AddEvicted は追い出された数値の数を加算します。
func (p *Prom) AddEvicted(qualifier string, n int) {
	if n > 0 {
		p.evicted.WithLabelValues(qualifier).Add(float64(n))
	}
}

// IncUpstreamError は上流呼び出しの失敗を種類別にカウントします。
func (p *Prom) IncUpstreamError(qualifier, kind string) {
	p.upstreamErrors.WithLabelValues(qualifier, kind).Inc()
}

// ObserveFetch は上流呼び出しの所要時間を記録します。
func (p *Prom) ObserveFetch(qualifier string, d time.Duration) {
	p.fetchLatency.WithLabelValues(qualifier).Observe(d.Seconds())
}

// SetWindowSize はウィンドウサイズを設定します。
func (p *Prom) SetWindowSize(qualifier string, n int) {
	if n >= 0 {
		p.windowSize.WithLabelValues(qualifier).Set(float64(n))
	}
}
