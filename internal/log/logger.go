package log

import (
	"io"
	"log/slog"
	"strings"
)

// Logger はアプリケーション全体で使うロガーの抽象です。
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Slog は log/slog による Logger 実装です。
type Slog struct {
	l *slog.Logger
}

// NewWithWriter は出力先・レベル・形式を指定してロガーを作成します。
// format が "json" の場合は JSON、それ以外はテキスト形式です。
func NewWithWriter(w io.Writer, level, format string) *Slog {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &Slog{l: slog.New(h)}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With は属性を付与した子ロガーを返します。
func (s *Slog) With(args ...any) Logger { return &Slog{l: s.l.With(args...)} }

func (s *Slog) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *Slog) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *Slog) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *Slog) Error(msg string, args ...any) { s.l.Error(msg, args...) }

// Nop は何も出力しないロガーです。
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}

// With は Nop 自身を返します。
func (n Nop) With(...any) Logger { return n }
