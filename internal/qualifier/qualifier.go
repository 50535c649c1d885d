// Package qualifier は数値の種別（even, prime, fibo, rand）を定義します。
package qualifier

import (
	"errors"
	"fmt"
)

// Qualifier は取得する数値の種別を表します。
type Qualifier string

const (
	// Even は偶数を表します。
	Even Qualifier = "even"
	// Prime は素数を表します。
	Prime Qualifier = "prime"
	// Fibo はフィボナッチ数を表します。
	Fibo Qualifier = "fibo"
	// Rand は乱数を表します。
	Rand Qualifier = "rand"
)

// ErrInvalid は未知の種別が指定されたことを表します。
var ErrInvalid = errors.New("invalid qualifier")

// All は定義済みの種別を固定順で返します。
func All() []Qualifier {
	return []Qualifier{Even, Prime, Fibo, Rand}
}

// Parse は文字列を Qualifier に変換します。完全一致のみ受け付けます。
func Parse(s string) (Qualifier, error) {
	q := Qualifier(s)
	if !q.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return q, nil
}

// Valid は定義済みの種別かどうかを返します。
func (q Qualifier) Valid() bool {
	switch q {
	case Even, Prime, Fibo, Rand:
		return true
	}
	return false
}

func (q Qualifier) String() string { return string(q) }
