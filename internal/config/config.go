// Package config は環境変数（と任意の .env ファイル）からサーバ設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/amakane-hakari/numavg/internal/qualifier"
	"github.com/amakane-hakari/numavg/internal/upstream"
	"github.com/amakane-hakari/numavg/internal/window"
)

// Config はサーバ全体の設定です。
type Config struct {
	Server   ServerConfig
	Window   WindowConfig
	Upstream UpstreamConfig
	Metrics  MetricsConfig
	Log      LogConfig
}

// ServerConfig は HTTP サーバの待ち受けと終了処理の設定です。
type ServerConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	AllowedOrigins    []string
}

// WindowConfig は種別ごとのウィンドウの設定です。
type WindowConfig struct {
	Capacity int
}

// UpstreamConfig は上流の数値生成サービスへの接続設定です。
// Paths は種別ごとのエンドポイントで、BaseURL からの相対パスです。
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
	Token   string
	Paths   map[qualifier.Qualifier]string
}

// MetricsConfig は Prometheus メトリクスの公開設定です。
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// LogConfig はログのレベルと出力形式（text または json）です。
type LogConfig struct {
	Level  string
	Format string
}

// DefaultUpstreamBaseURL は上流の数値生成サービスの既定のベース URL です。
const DefaultUpstreamBaseURL = "http://20.244.56.144/evaluation-service"

// Load はカレントディレクトリの .env（存在すれば）を読み込んだ上で環境変数から設定を組み立てます。
// 既に設定されている環境変数は .env で上書きしません。
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv は getenv から設定を組み立てて検証します。
func FromEnv(getenv func(string) string) (Config, error) {
	e := env{get: getenv}

	cfg := Config{
		Server: ServerConfig{
			Addr:              e.str("HTTP_ADDR", ":9876"),
			ReadHeaderTimeout: e.dur("READ_HEADER_TIMEOUT", 5*time.Second),
			ShutdownTimeout:   e.dur("SHUTDOWN_TIMEOUT", 5*time.Second),
			AllowedOrigins:    e.list("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Window: WindowConfig{
			Capacity: e.num("WINDOW_SIZE", window.DefaultCapacity),
		},
		Upstream: UpstreamConfig{
			BaseURL: e.str("UPSTREAM_BASE_URL", DefaultUpstreamBaseURL),
			Timeout: e.dur("UPSTREAM_TIMEOUT", upstream.DefaultTimeout),
			Token:   e.str("UPSTREAM_TOKEN", ""),
			Paths:   make(map[qualifier.Qualifier]string, 4),
		},
		Metrics: MetricsConfig{
			Enabled:   e.flag("METRICS_ENABLED", true),
			Namespace: e.str("METRICS_NAMESPACE", "numavg"),
		},
		Log: LogConfig{
			Level:  e.str("LOG_LEVEL", "info"),
			Format: e.str("LOG_FORMAT", "text"),
		},
	}
	for _, q := range qualifier.All() {
		key := "UPSTREAM_PATH_" + strings.ToUpper(q.String())
		cfg.Upstream.Paths[q] = e.str(key, upstream.DefaultPaths[q])
	}

	if len(e.errs) > 0 {
		return Config{}, errors.Join(e.errs...)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は設定値の整合性を検証します。
func (c Config) Validate() error {
	var errs []error
	if c.Window.Capacity < 1 {
		errs = append(errs, fmt.Errorf("WINDOW_SIZE must be >= 1, got %d", c.Window.Capacity))
	}
	if c.Upstream.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("UPSTREAM_TIMEOUT must be > 0, got %s", c.Upstream.Timeout))
	}
	if u, err := url.Parse(c.Upstream.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid UPSTREAM_BASE_URL %q", c.Upstream.BaseURL))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("HTTP_ADDR must not be empty"))
	}
	return errors.Join(errs...)
}

type env struct {
	get  func(string) string
	errs []error
}

func (e *env) str(k, def string) string {
	if v := strings.TrimSpace(e.get(k)); v != "" {
		return v
	}
	return def
}

func (e *env) num(k string, def int) int {
	v := strings.TrimSpace(e.get(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", k, err))
		return def
	}
	return n
}

func (e *env) flag(k string, def bool) bool {
	v := strings.TrimSpace(e.get(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", k, err))
		return def
	}
	return b
}

// dur は "500ms" のような Go の期間表記に加え、単位なしの整数をミリ秒として受け付けます。
func (e *env) dur(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(e.get(k))
	if v == "" {
		return def
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", k, err))
		return def
	}
	return d
}

func (e *env) list(k string, def []string) []string {
	v := strings.TrimSpace(e.get(k))
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
