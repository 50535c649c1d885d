package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amakane-hakari/numavg/internal/qualifier"
)

func newTestClient(t *testing.T, h http.Handler, timeout time.Duration) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c, err := New(Config{BaseURL: ts.URL, Timeout: timeout, Token: "secret"})
	require.NoError(t, err)
	return c
}

func TestFetch_Success(t *testing.T) {
	var gotPath, gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"numbers":[2,3,5,7.0,11]}`))
	}), time.Second)

	nums, err := c.Fetch(context.Background(), qualifier.Prime)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 5, 7, 11}, nums)
	assert.Equal(t, "/primes", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestFetch_NonIntegralNumbers(t *testing.T) {
	cases := []struct {
		name string
		body string
		want []float64
	}{
		{"exponent", `{"numbers":[1e3,2]}`, []float64{1000, 2}},
		{"fraction", `{"numbers":[1,2.5]}`, []float64{1, 2.5}},
		{"negative fraction", `{"numbers":[-0.25,3]}`, []float64{-0.25, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}), time.Second)

			nums, err := c.Fetch(context.Background(), qualifier.Rand)
			require.NoError(t, err)
			assert.Equal(t, tc.want, nums)
		})
	}
}

func TestFetch_EmptyArray(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"numbers":[],"extra":true}`))
	}), time.Second)

	nums, err := c.Fetch(context.Background(), qualifier.Even)
	require.NoError(t, err)
	assert.Empty(t, nums)
}

func TestFetch_Timeout(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`{"numbers":[1]}`))
	}), 30*time.Millisecond)

	start := time.Now()
	_, err := c.Fetch(context.Background(), qualifier.Rand)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.True(t, errors.Is(err, ErrUpstream))
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindTimeout, kind)
}

func TestFetch_CallerCanceled(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := c.Fetch(ctx, qualifier.Fibo)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindCanceled, kind)
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusServiceUnavailable)
	}), time.Second)

	_, err := c.Fetch(context.Background(), qualifier.Even)
	var ue *Error
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, KindStatus, ue.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, ue.Status)
	assert.Equal(t, qualifier.Even, ue.Qualifier)
	assert.False(t, errors.Is(err, ErrMalformedPayload))
}

func TestFetch_MalformedPayloads(t *testing.T) {
	bodies := map[string]string{
		"not json":       `numbers`,
		"missing field":  `{"values":[1,2]}`,
		"null field":     `{"numbers":null}`,
		"not an array":   `{"numbers":5}`,
		"string element": `{"numbers":[1,"x"]}`,
		"overflow":       `{"numbers":[1,1e400]}`,
		"null element":   `{"numbers":[1,null]}`,
		"two values":     `{"numbers":[1]}{"numbers":[2]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}), time.Second)

			_, err := c.Fetch(context.Background(), qualifier.Even)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedPayload), "err=%v", err)
			assert.True(t, errors.Is(err, ErrUpstream))
		})
	}
}

func TestFetch_NoRetry(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}), time.Second)

	_, err := c.Fetch(context.Background(), qualifier.Even)
	require.Error(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestFetch_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := New(Config{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.Fetch(context.Background(), qualifier.Even)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindTransport, kind)
}

func TestNew_PathsAndValidation(t *testing.T) {
	_, err := New(Config{BaseURL: "not a url"})
	assert.Error(t, err)

	c, err := New(Config{
		BaseURL: "http://example.test/api/",
		Paths:   map[qualifier.Qualifier]string{qualifier.Rand: "/random"},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/api/random", c.endpoints[qualifier.Rand])
	assert.Equal(t, "http://example.test/api/even", c.endpoints[qualifier.Even])
	assert.Equal(t, DefaultTimeout, c.Timeout())

	_, err = c.Fetch(context.Background(), "odd")
	assert.True(t, errors.Is(err, qualifier.ErrInvalid))
}
