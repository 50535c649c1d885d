package window

import (
	"github.com/amakane-hakari/numavg/internal/metrics"
	"github.com/amakane-hakari/numavg/internal/qualifier"
)

type logLike interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// DefaultCapacity は容量未指定時のウィンドウサイズです。
const DefaultCapacity = 10

// Config はウィンドウ集合の設定を表します。
type Config struct {
	Capacity   int // 0/未指定なら DefaultCapacity
	Qualifiers []qualifier.Qualifier
	Logger     logLike
	Metrics    metrics.Interface
}

// Option はウィンドウ集合のオプションを設定する関数です。
type Option func(*Config)

// WithCapacity はウィンドウの容量を設定するオプションです。
func WithCapacity(n int) Option {
	return func(c *Config) { c.Capacity = n }
}

// WithQualifiers は保持する種別を限定するオプションです。
func WithQualifiers(qs ...qualifier.Qualifier) Option {
	return func(c *Config) { c.Qualifiers = qs }
}

// WithLogger はロガーを設定するオプションです。
func WithLogger(l logLike) Option {
	return func(c *Config) { c.Logger = l }
}

// WithMetrics はメトリクスを設定するオプションです。
func WithMetrics(m metrics.Interface) Option {
	return func(c *Config) { c.Metrics = m }
}
