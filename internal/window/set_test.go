package window

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amakane-hakari/numavg/internal/metrics"
	"github.com/amakane-hakari/numavg/internal/qualifier"
)

func TestSet_WindowsAreIndependent(t *testing.T) {
	s := New(WithCapacity(3))

	_, err := s.Merge(qualifier.Even, []float64{2, 4})
	require.NoError(t, err)
	_, err = s.Merge(qualifier.Prime, []float64{2, 3})
	require.NoError(t, err)

	even, _ := s.Snapshot(qualifier.Even)
	prime, _ := s.Snapshot(qualifier.Prime)
	fibo, _ := s.Snapshot(qualifier.Fibo)
	assert.Equal(t, []float64{2, 4}, even)
	assert.Equal(t, []float64{2, 3}, prime)
	assert.Empty(t, fibo)
}

func TestSet_UnknownQualifier(t *testing.T) {
	s := New(WithQualifiers(qualifier.Even))

	_, err := s.Merge(qualifier.Rand, []float64{1})
	assert.ErrorIs(t, err, qualifier.ErrInvalid)
	_, err = s.Snapshot("odd")
	assert.ErrorIs(t, err, qualifier.ErrInvalid)
	_, ok := s.Get(qualifier.Rand)
	assert.False(t, ok, "rand window should not exist")
}

func TestSet_DefaultCapacity(t *testing.T) {
	s := New(WithCapacity(-5))
	assert.Equal(t, DefaultCapacity, s.Capacity())

	w, ok := s.Get(qualifier.Fibo)
	require.True(t, ok)
	assert.Equal(t, DefaultCapacity, w.Cap())
}

func TestSet_Metrics(t *testing.T) {
	m := metrics.NewSimple()
	s := New(WithCapacity(2), WithMetrics(m))

	_, _ = s.Merge(qualifier.Even, []float64{2, 4, 6})
	_, _ = s.Merge(qualifier.Even, []float64{6, 8})

	assert.EqualValues(t, 4, m.Accepted.Load())
	assert.EqualValues(t, 1, m.Duplicate.Load())
	assert.EqualValues(t, 2, m.Evicted.Load())
	assert.Equal(t, 2, m.WindowSize("even"))
}

// sizeRecorder は SetWindowSize の呼び出し順を記録します。
type sizeRecorder struct {
	metrics.Noop
	mu    sync.Mutex
	sizes map[string][]int
}

func (r *sizeRecorder) SetWindowSize(q string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sizes[q] = append(r.sizes[q], n)
}

func TestSet_WindowSizeGaugeFollowsMergeOrder(t *testing.T) {
	const (
		workers = 8
		perG    = 100
	)
	rec := &sizeRecorder{sizes: map[string][]int{}}
	s := New(WithCapacity(workers*perG), WithMetrics(rec))

	var wg sync.WaitGroup
	for g := 0; g < workers; g++ {
		wg.Add(1)
		go func(base float64) {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				_, _ = s.Merge(qualifier.Even, []float64{base*1000 + float64(i)})
				if i%10 == 0 {
					time.Sleep(time.Microsecond)
				}
			}
		}(float64(g))
	}
	wg.Wait()

	w, _ := s.Get(qualifier.Even)
	got := rec.sizes["even"]
	require.Len(t, got, workers*perG)
	// 値はすべて異なり容量にも達しないため、記録されたサイズは 1 ずつ増えていく
	for i, n := range got {
		require.Equal(t, i+1, n, "gauge recorded out of order at call %d", i)
	}
	assert.Equal(t, w.Len(), got[len(got)-1])
}
