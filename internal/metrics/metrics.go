package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Interface はメトリクス更新用抽象
type Interface interface {
	AddAccepted(qualifier string, n int)
	AddDuplicate(qualifier string, n int)
	AddEvicted(qualifier string, n int)
	IncUpstreamError(qualifier, kind string)
	ObserveFetch(qualifier string, d time.Duration)
	SetWindowSize(qualifier string, n int)
}

// Noop は何もしないメトリクス実装
type Noop struct{}

// AddAccepted は何もしないメトリクス実装
func (Noop) AddAccepted(string, int) {}

// AddDuplicate は何もしないメトリクス実装
func (Noop) AddDuplicate(string, int) {}

// AddEvicted は何もしないメトリクス実装
func (Noop) AddEvicted(string, int) {}

// IncUpstreamError は何もしないメトリクス実装
func (Noop) IncUpstreamError(string, string) {}

// ObserveFetch は何もしないメトリクス実装
func (Noop) ObserveFetch(string, time.Duration) {}

// SetWindowSize は何もしないメトリクス実装
func (Noop) SetWindowSize(string, int) {}

// Simple はシンプルなメトリクス実装です。種別ごとの内訳は持たず合計のみ数えます。
type Simple struct {
	Accepted       atomic.Uint64
	Duplicate      atomic.Uint64
	Evicted        atomic.Uint64
	UpstreamErrors atomic.Uint64
	Fetches        atomic.Uint64

	mu    sync.Mutex
	sizes map[string]int
}

// NewSimple は新しい Simple メトリクスを作成します。
func NewSimple() *Simple { return &Simple{sizes: make(map[string]int)} }

// AddAccepted は受理された数値の数を加算します。
func (m *Simple) AddAccepted(_ string, n int) {
	if n > 0 {
		m.Accepted.Add(uint64(n))
	}
}

// AddDuplicate は重複として破棄された数値の数を加算します。
func (m *Simple) AddDuplicate(_ string, n int) {
	if n > 0 {
		m.Duplicate.Add(uint64(n))
	}
}

// AddEvicted はウィンドウから追い出された数値の数を加算します。
func (m *Simple) AddEvicted(_ string, n int) {
	if n > 0 {
		m.Evicted.Add(uint64(n))
	}
}

// IncUpstreamError は上流呼び出しの失敗をカウントします。
func (m *Simple) IncUpstreamError(string, string) { m.UpstreamErrors.Add(1) }

// ObserveFetch は上流呼び出しの回数をカウントします。
func (m *Simple) ObserveFetch(string, time.Duration) { m.Fetches.Add(1) }

// SetWindowSize は種別ごとのウィンドウサイズを記録します。
func (m *Simple) SetWindowSize(qualifier string, n int) {
	if n < 0 {
		return
	}
	m.mu.Lock()
	m.sizes[qualifier] = n
	m.mu.Unlock()
}

// WindowSize は最後に記録されたウィンドウサイズを返します。
func (m *Simple) WindowSize(qualifier string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sizes[qualifier]
}
