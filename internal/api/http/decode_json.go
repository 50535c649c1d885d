package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

const maxBodySize = 1 << 20 // 1MB

// DecodeJSON はリクエストボディのJSONを dst にデコードします。
// Content-Type が指定されている場合は application/json のみ受け付けます。
func DecodeJSON(r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || mt != "application/json" {
			return InvalidJSON("content type must be application/json")
		}
	}
	if r.Body == nil || r.Body == http.NoBody {
		return InvalidJSON("empty body")
	}
	defer func() {
		_ = r.Body.Close()
	}()

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var se *json.SyntaxError
		var ute *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return InvalidJSON("empty body")
		case errors.As(err, &se):
			return InvalidJSON(fmt.Sprintf("malformed JSON at offset %d", se.Offset))
		case errors.As(err, &ute):
			return InvalidJSON(fmt.Sprintf("type mismatch in JSON field %q", ute.Field))
		default:
			return InvalidJSON("invalid JSON")
		}
	}
	// 余分なトークンがないか確認(多重JSON防止)
	if dec.More() {
		return InvalidJSON("multiple JSON values")
	}
	return nil
}
