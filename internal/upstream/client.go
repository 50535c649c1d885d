// Package upstream は種別ごとの数値生成エンドポイントを呼び出します。
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amakane-hakari/numavg/internal/qualifier"
)

// DefaultTimeout は上流呼び出しのタイムアウトの既定値です。
const DefaultTimeout = 500 * time.Millisecond

// DefaultPaths は種別ごとの既定のパスです。
var DefaultPaths = map[qualifier.Qualifier]string{
	qualifier.Even:  "even",
	qualifier.Prime: "primes",
	qualifier.Fibo:  "fibo",
	qualifier.Rand:  "rand",
}

// Fetcher は種別に対応する数値列を取得します。
type Fetcher interface {
	Fetch(ctx context.Context, q qualifier.Qualifier) ([]float64, error)
}

// Config は Client の設定です。
type Config struct {
	BaseURL    string
	Paths      map[qualifier.Qualifier]string // 未指定の種別は DefaultPaths
	Timeout    time.Duration                  // 0 なら DefaultTimeout
	Token      string                         // 空でなければ Bearer トークンとして送信
	HTTPClient *http.Client
}

// Client は HTTP で上流を呼び出す Fetcher 実装です。リトライはしません。
type Client struct {
	endpoints map[qualifier.Qualifier]string
	timeout   time.Duration
	token     string
	hc        *http.Client
}

// New は新しい Client を作成します。
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid upstream base url %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	c := &Client{
		endpoints: make(map[qualifier.Qualifier]string, len(DefaultPaths)),
		timeout:   timeout,
		token:     cfg.Token,
		hc:        hc,
	}
	for _, q := range qualifier.All() {
		p := DefaultPaths[q]
		if v, ok := cfg.Paths[q]; ok && v != "" {
			p = v
		}
		c.endpoints[q] = base.String() + "/" + strings.TrimLeft(p, "/")
	}
	return c, nil
}

// Timeout は 1 回の呼び出しに適用するタイムアウトを返します。
func (c *Client) Timeout() time.Duration { return c.timeout }

// Fetch は種別に対応するエンドポイントを 1 回だけ呼び出します。
// ctx のキャンセルは上流呼び出しに伝播します。
func (c *Client) Fetch(ctx context.Context, q qualifier.Qualifier) ([]float64, error) {
	endpoint, ok := c.endpoints[q]
	if !ok {
		return nil, fmt.Errorf("%w: %q", qualifier.ErrInvalid, q)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Qualifier: q, Kind: KindTransport, Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &Error{Qualifier: q, Kind: classify(ctx, err), Cause: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayloadSize))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Qualifier: q, Kind: KindStatus, Status: resp.StatusCode}
	}

	nums, err := decodeNumbers(resp.Body)
	if err != nil {
		// ボディ読み取り中のタイムアウトは形式不正ではない
		if ctx.Err() != nil {
			return nil, &Error{Qualifier: q, Kind: classify(ctx, ctx.Err()), Cause: err}
		}
		return nil, &Error{Qualifier: q, Kind: KindMalformed, Cause: err}
	}
	return nums, nil
}

func classify(ctx context.Context, err error) Kind {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	return KindTransport
}
