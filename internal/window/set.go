// Package window は種別ごとの重複排除付きスライディングウィンドウを提供します。
package window

import (
	"fmt"

	"github.com/amakane-hakari/numavg/internal/metrics"
	"github.com/amakane-hakari/numavg/internal/qualifier"
)

// Set は種別ごとに独立した Window を保持します。
// 種別間でロックは共有しません。
type Set struct {
	cfg     Config
	windows map[qualifier.Qualifier]*Window
}

// New は新しい Set を作成します。各 Window は空の状態で始まります。
func New(opts ...Option) *Set {
	cfg := Config{Capacity: DefaultCapacity}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = DefaultCapacity
	}
	if len(cfg.Qualifiers) == 0 {
		cfg.Qualifiers = qualifier.All()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Noop{}
	}

	s := &Set{
		cfg:     cfg,
		windows: make(map[qualifier.Qualifier]*Window, len(cfg.Qualifiers)),
	}
	for _, q := range cfg.Qualifiers {
		w := NewWindow(cfg.Capacity)
		name := q.String()
		// ゲージは Window のロック内で更新し、Merge の完了順と揃える
		w.onResize = func(n int) { cfg.Metrics.SetWindowSize(name, n) }
		s.windows[q] = w
	}
	return s
}

// Capacity は各 Window の容量を返します。
func (s *Set) Capacity() int { return s.cfg.Capacity }

// Get は種別に対応する Window を返します。
func (s *Set) Get(q qualifier.Qualifier) (*Window, bool) {
	w, ok := s.windows[q]
	return w, ok
}

// Snapshot は種別に対応する Window の内容を返します。
func (s *Set) Snapshot(q qualifier.Qualifier) ([]float64, error) {
	w, ok := s.windows[q]
	if !ok {
		return nil, fmt.Errorf("%w: %q", qualifier.ErrInvalid, q)
	}
	return w.Snapshot(), nil
}

// Merge は種別に対応する Window に候補をマージし、ログとメトリクスを記録します。
func (s *Set) Merge(q qualifier.Qualifier, candidates []float64) (MergeResult, error) {
	w, ok := s.windows[q]
	if !ok {
		return MergeResult{}, fmt.Errorf("%w: %q", qualifier.ErrInvalid, q)
	}
	res := w.Merge(candidates)

	name := q.String()
	s.cfg.Metrics.AddAccepted(name, len(res.Accepted))
	s.cfg.Metrics.AddDuplicate(name, res.Duplicates)
	s.cfg.Metrics.AddEvicted(name, len(res.Evicted))

	if s.cfg.Logger != nil {
		s.cfg.Logger.Debug("window.merge",
			"qualifier", name,
			"candidates", len(candidates),
			"accepted", len(res.Accepted),
			"duplicates", res.Duplicates,
			"size", len(res.Curr),
		)
		if len(res.Evicted) > 0 {
			s.cfg.Logger.Info("window.evict", "qualifier", name, "count", len(res.Evicted), "victims", res.Evicted)
		}
	}
	return res, nil
}
