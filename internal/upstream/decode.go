package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cast"
)

const maxPayloadSize = 1 << 20 // 1MB

type payload struct {
	Numbers *[]any `json:"numbers"`
}

// decodeNumbers は {"numbers":[...]} 形式のボディから数値列を取り出します。
// 小数・指数表記はそのまま float64 として受け取ります。数値でない要素や
// float64 の範囲を超える要素が 1 つでもあれば全体を不正とみなします。
func decodeNumbers(r io.Reader) ([]float64, error) {
	dec := json.NewDecoder(io.LimitReader(r, maxPayloadSize))
	dec.UseNumber()

	var p payload
	if err := dec.Decode(&p); err != nil {
		var se *json.SyntaxError
		var ute *json.UnmarshalTypeError
		switch {
		case errors.As(err, &se):
			return nil, fmt.Errorf("malformed JSON: %w", err)
		case errors.As(err, &ute):
			return nil, fmt.Errorf("type mismatch in JSON: %w", err)
		default:
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}
	// 余分なトークンがないか確認(多重JSON防止)
	if dec.More() {
		return nil, errors.New("multiple JSON values")
	}
	if p.Numbers == nil {
		return nil, errors.New(`missing "numbers" field`)
	}

	out := make([]float64, 0, len(*p.Numbers))
	for i, raw := range *p.Numbers {
		n, ok := raw.(json.Number)
		if !ok {
			return nil, fmt.Errorf("numbers[%d]: not a number: %v", i, raw)
		}
		v, err := cast.ToFloat64E(n.String())
		if err != nil || math.IsInf(v, 0) {
			return nil, fmt.Errorf("numbers[%d]: not a number: %s", i, n)
		}
		out = append(out, v)
	}
	return out, nil
}
