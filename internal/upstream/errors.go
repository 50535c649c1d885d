package upstream

import (
	"errors"
	"fmt"

	"github.com/amakane-hakari/numavg/internal/qualifier"
)

// Kind は上流呼び出しの失敗の種類です。
type Kind string

const (
	// KindTimeout は取得タイムアウトを表します。
	KindTimeout Kind = "timeout"
	// KindCanceled は呼び出し元のキャンセルを表します。
	KindCanceled Kind = "canceled"
	// KindTransport は接続・送受信の失敗を表します。
	KindTransport Kind = "transport"
	// KindStatus は 2xx 以外の応答を表します。
	KindStatus Kind = "status"
	// KindMalformed は応答ボディが期待した形式でないことを表します。
	KindMalformed Kind = "malformed"
)

var (
	// ErrUpstream はすべての上流エラーに一致します。
	ErrUpstream = errors.New("upstream error")
	// ErrMalformedPayload は応答ボディの形式不正に一致します。
	ErrMalformedPayload = errors.New("malformed upstream payload")
)

// Error は上流呼び出しの失敗を表します。
type Error struct {
	Qualifier qualifier.Qualifier
	Kind      Kind
	Status    int // KindStatus の場合のみ
	Cause     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("upstream %s: %s", e.Qualifier, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is は ErrUpstream と、形式不正の場合は ErrMalformedPayload に一致します。
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUpstream:
		return true
	case ErrMalformedPayload:
		return e.Kind == KindMalformed
	}
	return false
}

// KindOf は err が上流エラーであればその種類を返します。
func KindOf(err error) (Kind, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind, true
	}
	return "", false
}
