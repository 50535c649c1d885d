package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amakane-hakari/numavg/internal/qualifier"
)

// AppError はアプリケーション固有のエラーを表します。
type AppError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Meta    any    `json:"meta,omitempty"`
}

const (
	// CodeNotFound は 404 Not Found エラーを表します。
	CodeNotFound = "NOT_FOUND"
	// CodeMethodNotAllowed は 405 Method Not Allowed エラーを表します。
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	// CodeInternalError は 500 Internal Server Error エラーを表します。
	CodeInternalError = "INTERNAL_ERROR"
	// CodeInvalidJSON は 不正なJSONによる 400 Bad Request エラーを表します。
	CodeInvalidJSON = "INVALID_JSON"
	// CodeInvalidQualifier は 未知の種別による 400 Bad Request エラーを表します。
	CodeInvalidQualifier = "INVALID_QUALIFIER"
)

func (e *AppError) Error() string { return e.Code + ": " + e.Message }

// NewAppError は新しい AppError を作成します。
func NewAppError(status int, code, message string, meta any) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Meta:    meta,
	}
}

// NotFound は 404 Not Found エラーを表す AppError を作成します。
func NotFound(msg string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, msg, nil)
}

// Internal は 500 Internal Server Error エラーを表す AppError を作成します。
func Internal(msg string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, msg, nil)
}

// InvalidJSON は 不正なJSONによる 400 Bad Request エラーを表す AppError を作成します。
func InvalidJSON(msg string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidJSON, msg, nil)
}

// InvalidQualifier は 未知の種別による 400 Bad Request エラーを表す AppError を作成します。
func InvalidQualifier(q string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidQualifier,
		"unsupported qualifier: "+q, map[string]any{"allowed": qualifier.All()})
}

// FromStdError は標準の error を AppError に変換します。
// 上流のタイムアウトやキャンセルは集計側で吸収されるため、ここには届きません。
func FromStdError(err error) *AppError {
	if err == nil {
		return nil
	}

	var app *AppError
	if errors.As(err, &app) {
		return app
	}
	switch {
	case errors.Is(err, qualifier.ErrInvalid):
		return NewAppError(http.StatusBadRequest, CodeInvalidQualifier, err.Error(), nil)
	default:
		return Internal("unexpected error")
	}
}

type errorEnvelope struct {
	Err *AppError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	app := FromStdError(err)
	if app == nil {
		// Fallback
		app = Internal("unexpected error")
	}
	writeJSON(w, app.Status, errorEnvelope{Err: app})
}
