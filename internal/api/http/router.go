package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/handlers"

	ilog "github.com/amakane-hakari/numavg/internal/log"
)

// Options はルータの依存関係です。
type Options struct {
	Aggregator     Aggregator
	Logger         ilog.Logger
	MetricsHandler http.Handler // nil なら /metrics を公開しない
	AllowedOrigins []string     // 空なら "*"
}

// NewRouter は HTTP ルータを作成します。
func NewRouter(opts Options) http.Handler {
	l := opts.Logger
	if l == nil {
		l = ilog.Nop{}
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(
		RequestIDMiddleware(),
		AccessLog(l),
		RecoverMiddleware(l),
		handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type", headerRequestID}),
			handlers.ExposedHeaders([]string{headerRequestID}),
		),
	)
	r.NotFound(HandlerFunc(func(_ http.ResponseWriter, r *http.Request) error {
		return NotFound("no route for " + r.URL.Path)
	}).ServeHTTP)
	r.MethodNotAllowed(HandlerFunc(func(_ http.ResponseWriter, r *http.Request) error {
		return NewAppError(http.StatusMethodNotAllowed, CodeMethodNotAllowed, r.Method+" not allowed", nil)
	}).ServeHTTP)

	r.Get("/health", healthHandler)
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}
	r.Method(http.MethodPost, "/average", HandlerFunc(averageHandler))

	if opts.Aggregator != nil {
		nh := &numbersHandler{agg: opts.Aggregator, logger: l}
		nh.mount(r)
	}
	return r
}
