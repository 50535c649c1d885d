package window

import (
	"slices"
	"testing"
)

/*
Fuzzで検証する性質
1. 長さは常に容量以下
2. 重複した値は共存しない
3. 参照モデル（単純なスライス実装）と内容・受理集合が一致する
*/

func FuzzWindowMerge(f *testing.F) {
	f.Add(uint8(3), []byte{2, 4, 6, 4, 8})
	f.Add(uint8(1), []byte{1, 1, 1})
	f.Add(uint8(10), []byte{})

	f.Fuzz(func(t *testing.T, capByte uint8, data []byte) {
		capacity := int(capByte%16) + 1
		w := NewWindow(capacity)
		var model []float64

		// 4 バイトごとに 1 回の Merge とみなす
		for start := 0; start < len(data); start += 4 {
			end := min(start+4, len(data))
			candidates := make([]float64, 0, end-start)
			for _, b := range data[start:end] {
				candidates = append(candidates, float64(b%32))
			}

			wantAccepted := []float64{}
			for _, c := range candidates {
				if slices.Contains(model, c) {
					continue
				}
				model = append(model, c)
				wantAccepted = append(wantAccepted, c)
				if len(model) > capacity {
					model = model[1:]
				}
			}

			res := w.Merge(candidates)
			if len(res.Curr) > capacity {
				t.Fatalf("len %d exceeds capacity %d", len(res.Curr), capacity)
			}
			seen := map[float64]bool{}
			for _, v := range res.Curr {
				if seen[v] {
					t.Fatalf("duplicate %v in %v", v, res.Curr)
				}
				seen[v] = true
			}
			if !slices.Equal(res.Curr, model) {
				t.Fatalf("curr %v != model %v", res.Curr, model)
			}
			if !slices.Equal(res.Accepted, wantAccepted) {
				t.Fatalf("accepted %v != model %v", res.Accepted, wantAccepted)
			}
		}
	})
}
