package http

import (
	"net/http"

	"github.com/amakane-hakari/numavg/internal/aggregator"
)

type averageRequest struct {
	Numbers []float64 `json:"numbers"`
}

type averageResponse struct {
	Avg   *float64 `json:"avg"`
	Count int      `json:"count"`
}

// averageHandler は与えられた数値列の平均を返します。空の場合 avg は null です。
func averageHandler(w http.ResponseWriter, r *http.Request) error {
	var req averageRequest
	if err := DecodeJSON(r, &req); err != nil {
		return err
	}
	resp := averageResponse{Count: len(req.Numbers)}
	if len(req.Numbers) > 0 {
		avg := aggregator.Mean(req.Numbers)
		resp.Avg = &avg
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}
