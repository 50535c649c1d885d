package window

import (
	"container/list"
	"sync"
)

// Window は重複のない数値を到着順に最大 cap 個まで保持します。
// 容量を超えた場合は最も古い値から追い出します。
type Window struct {
	cap      int
	mu       sync.Mutex
	ll       *list.List                // Front = 最も古い（victim）, Back = 最新
	idx      map[float64]*list.Element // value -> *Element
	onResize func(n int)               // Merge のロック内で呼ばれる
}

// MergeResult は Merge 1 回分の結果です。
type MergeResult struct {
	Prev       []float64 // マージ前の内容
	Curr       []float64 // マージ後の内容
	Accepted   []float64 // 重複判定を通過した候補（同じ呼び出し内で追い出されたものも含む）
	Evicted    []float64 // 追い出された値（追い出し順）
	Duplicates int
}

// NewWindow は新しい Window を作成します。
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = 1 // 最低でも1つは保持
	}
	return &Window{
		cap: capacity,
		ll:  list.New(),
		idx: make(map[float64]*list.Element, capacity),
	}
}

// Cap は容量を返します。
func (w *Window) Cap() int { return w.cap }

// Len は現在保持している値の数を返します。
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ll.Len()
}

// Snapshot は現在の内容を古い順にコピーして返します。
func (w *Window) Snapshot() []float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// Merge は候補を受け取った順に処理し、未知の値だけを末尾に追加します。
// 同じ Window への Merge は直列化されます。
func (w *Window) Merge(candidates []float64) MergeResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	res := MergeResult{
		Prev:     w.snapshotLocked(),
		Accepted: make([]float64, 0, len(candidates)),
		Evicted:  []float64{},
	}

	for _, v := range candidates {
		if _, ok := w.idx[v]; ok {
			res.Duplicates++
			continue
		}
		w.idx[v] = w.ll.PushBack(v)
		res.Accepted = append(res.Accepted, v)

		// キャパシティを超えた場合は最も古い値を削除
		for w.ll.Len() > w.cap {
			front := w.ll.Front()
			old := front.Value.(float64)
			res.Evicted = append(res.Evicted, old)
			delete(w.idx, old)
			w.ll.Remove(front)
		}
	}

	res.Curr = w.snapshotLocked()
	if w.onResize != nil {
		w.onResize(len(res.Curr))
	}
	return res
}

func (w *Window) snapshotLocked() []float64 {
	out := make([]float64, 0, w.ll.Len())
	for el := w.ll.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(float64))
	}
	return out
}
