// Package main は 負荷試験ツールのエントリーポイントを提供します。
package main

import (
	"fmt"
	"os"

	"github.com/amakane-hakari/numavg/loadtest/attacker"
	"github.com/amakane-hakari/numavg/loadtest/config"
	"github.com/amakane-hakari/numavg/loadtest/scenario"
)

func main() {
	cfg := config.Load()

	fmt.Printf("[INFO] base-url=%s rate=%d duration=%s qualifiers=%v invalid-ratio=%.2f\n",
		cfg.BaseURL, cfg.Rate, cfg.Duration, cfg.Qualifiers, cfg.InvalidRatio)

	gen := scenario.NewGenerator(cfg.BaseURL, cfg.Qualifiers, cfg.InvalidRatio)

	r := attacker.Runner{
		Rate:       cfg.Rate,
		Duration:   cfg.Duration,
		Timeout:    cfg.Timeout,
		Name:       cfg.Name,
		Output:     cfg.Output,
		MinSuccess: cfg.MinSuccess,
	}

	if _, err := r.Run(gen.Targeter()); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
