package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amakane-hakari/numavg/internal/aggregator"
	ilog "github.com/amakane-hakari/numavg/internal/log"
	"github.com/amakane-hakari/numavg/internal/qualifier"
)

// Aggregator は numbers ハンドラが依存する集計処理です。
type Aggregator interface {
	Aggregate(ctx context.Context, q qualifier.Qualifier) (aggregator.Result, error)
	Snapshot(q qualifier.Qualifier) (aggregator.Result, error)
}

type numbersHandler struct {
	agg    Aggregator
	logger ilog.Logger
}

func (h *numbersHandler) mount(r chi.Router) {
	r.Method(http.MethodGet, "/numbers/{qualifier}", HandlerFunc(h.get))
	r.Method(http.MethodGet, "/windows/{qualifier}", HandlerFunc(h.window))
}

// get は上流から取得した数値をウィンドウにマージし、前後の状態と平均を返します。
func (h *numbersHandler) get(w http.ResponseWriter, r *http.Request) error {
	raw := chi.URLParam(r, "qualifier")
	q, err := qualifier.Parse(raw)
	if err != nil {
		return InvalidQualifier(raw)
	}

	l := h.logger.With("request_id", RequestIDFromContext(r.Context()), "qualifier", q.String())

	res, err := h.agg.Aggregate(r.Context(), q)
	if err != nil {
		l.Warn("numbers.failed", "err", err)
		return err
	}

	l.Debug("numbers.responded",
		"accepted", len(res.Numbers),
		"size", len(res.WindowCurrState),
		"degraded", res.Degraded,
	)
	writeJSON(w, http.StatusOK, res)
	return nil
}

// window は上流を呼ばずに現在のウィンドウを返します。
func (h *numbersHandler) window(w http.ResponseWriter, r *http.Request) error {
	raw := chi.URLParam(r, "qualifier")
	q, err := qualifier.Parse(raw)
	if err != nil {
		return InvalidQualifier(raw)
	}
	res, err := h.agg.Snapshot(q)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}
