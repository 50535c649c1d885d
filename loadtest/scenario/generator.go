package scenario

import (
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

// InvalidQualifier は不正な種別として送る値です。
const InvalidQualifier = "odd"

// Generator は /numbers/{qualifier} へのターゲットを生成する構造体です。
type Generator struct {
	BaseURL      string
	Qualifiers   []string
	InvalidRatio float64

	rnd *rand.Rand
	mu  sync.Mutex
}

// NewGenerator は 指定されたパラメータに基づいて新しい Generator を作成します。
func NewGenerator(base string, qualifiers []string, invalidRatio float64) *Generator {
	if len(qualifiers) == 0 {
		qualifiers = []string{"even", "prime", "fibo", "rand"}
	}
	return &Generator{
		BaseURL:      strings.TrimRight(base, "/"),
		Qualifiers:   qualifiers,
		InvalidRatio: clamp(invalidRatio, 0, 1),
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Next は次に要求する種別を返します。
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.InvalidRatio > 0 && g.rnd.Float64() < g.InvalidRatio {
		return InvalidQualifier
	}
	return g.Qualifiers[g.rnd.Intn(len(g.Qualifiers))]
}

// Targeter は vegeta.Targeter インターフェースを実装し、負荷試験のターゲットを生成します。
func (g *Generator) Targeter() vegeta.Targeter {
	return func(t *vegeta.Target) error {
		if t == nil {
			return vegeta.ErrNilTarget
		}
		t.Method = http.MethodGet
		t.URL = fmt.Sprintf("%s/numbers/%s", g.BaseURL, g.Next())
		t.Body = nil
		t.Header = http.Header{"Accept": []string{"application/json"}}
		return nil
	}
}
