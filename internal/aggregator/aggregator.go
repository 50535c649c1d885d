// Package aggregator は上流からの取得とウィンドウへのマージをまとめ、平均を計算します。
package aggregator

import (
	"context"
	"fmt"
	"time"

	"github.com/montanaflynn/stats"

	ilog "github.com/amakane-hakari/numavg/internal/log"
	"github.com/amakane-hakari/numavg/internal/metrics"
	"github.com/amakane-hakari/numavg/internal/qualifier"
	"github.com/amakane-hakari/numavg/internal/upstream"
	"github.com/amakane-hakari/numavg/internal/window"
)

// Result は 1 リクエスト分の集計結果です。
type Result struct {
	WindowPrevState []float64 `json:"windowPrevState"`
	WindowCurrState []float64 `json:"windowCurrState"`
	Numbers         []float64 `json:"numbers"`
	Avg             float64   `json:"avg"`

	// Degraded は上流の取得に失敗し、新しい数値なしでマージしたことを示します。
	Degraded bool `json:"-"`
}

// Service は Fetcher と window.Set を組み合わせて集計を行います。
type Service struct {
	fetcher upstream.Fetcher
	windows *window.Set
	logger  ilog.Logger
	metrics metrics.Interface
	now     func() time.Time
}

// Option は Service のオプションを設定する関数です。
type Option func(*Service)

// WithLogger はロガーを設定するオプションです。
func WithLogger(l ilog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics はメトリクスを設定するオプションです。
func WithMetrics(m metrics.Interface) Option {
	return func(s *Service) { s.metrics = m }
}

// New は新しい Service を作成します。
func New(f upstream.Fetcher, ws *window.Set, opts ...Option) *Service {
	s := &Service{
		fetcher: f,
		windows: ws,
		logger:  ilog.Nop{},
		metrics: metrics.Noop{},
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Aggregate は q の上流から数値を取得してウィンドウにマージし、結果を返します。
// 上流の失敗は空の候補として扱い、エラーにはしません。
// エラーを返すのは q が未知の種別の場合だけです。
func (s *Service) Aggregate(ctx context.Context, q qualifier.Qualifier) (Result, error) {
	if _, ok := s.windows.Get(q); !ok {
		return Result{}, fmt.Errorf("%w: %q", qualifier.ErrInvalid, q)
	}

	start := s.now()
	candidates, err := s.fetcher.Fetch(ctx, q)
	s.metrics.ObserveFetch(q.String(), s.now().Sub(start))

	degraded := false
	if err != nil {
		degraded = true
		kind := string(upstream.KindTransport)
		if k, ok := upstream.KindOf(err); ok {
			kind = string(k)
		}
		s.metrics.IncUpstreamError(q.String(), kind)
		s.logger.Warn("upstream.fetch.error", "qualifier", q.String(), "kind", kind, "err", err)
		candidates = nil
	}

	// マージ後は ctx がキャンセルされていても巻き戻さない
	res, err := s.windows.Merge(q, candidates)
	if err != nil {
		return Result{}, err
	}

	return Result{
		WindowPrevState: res.Prev,
		WindowCurrState: res.Curr,
		Numbers:         res.Accepted,
		Avg:             Mean(res.Curr),
		Degraded:        degraded,
	}, nil
}

// Snapshot は上流を呼ばずに q のウィンドウの現在の内容と平均を返します。
func (s *Service) Snapshot(q qualifier.Qualifier) (Result, error) {
	curr, err := s.windows.Snapshot(q)
	if err != nil {
		return Result{}, err
	}
	return Result{
		WindowPrevState: curr,
		WindowCurrState: curr,
		Numbers:         []float64{},
		Avg:             Mean(curr),
	}, nil
}

// Mean は算術平均を返します。空の場合は 0 です。
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}
