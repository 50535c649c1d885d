package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BaseURL      string
	Qualifiers   []string
	InvalidRatio float64
	Rate         int
	Duration     time.Duration
	Output       string
	Timeout      time.Duration
	Name         string
	MinSuccess   float64
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseFloatEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func parseIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func Load() *Config {
	var c Config
	var qualifiers string

	dur, _ := time.ParseDuration(envOr("LT_DURATION", "30s"))
	to, _ := time.ParseDuration(envOr("LT_TIMEOUT", "2s"))

	flag.StringVar(&c.BaseURL, "base-url", envOr("LT_BASE_URL", "http://localhost:9876"), "Base URL of the average service")
	flag.StringVar(&qualifiers, "qualifiers", envOr("LT_QUALIFIERS", "even,prime,fibo,rand"), "Comma separated qualifiers to request")
	flag.Float64Var(&c.InvalidRatio, "invalid-ratio", parseFloatEnv("LT_INVALID_RATIO", 0.0), "Ratio of requests sent with an unsupported qualifier")
	flag.IntVar(&c.Rate, "rate", parseIntEnv("LT_RATE", 100), "Requests per second")
	flag.DurationVar(&c.Duration, "duration", dur, "Duration of the load test")
	flag.StringVar(&c.Output, "output", envOr("LT_OUTPUT", "vegeta_results.bin"), "Result file (empty to skip)")
	flag.DurationVar(&c.Timeout, "timeout", to, "Request timeout")
	flag.StringVar(&c.Name, "name", envOr("LT_NAME", "numbers"), "Name of the load test")
	flag.Float64Var(&c.MinSuccess, "min-success", parseFloatEnv("LT_MIN_SUCCESS", 0), "Fail when success ratio is below this value")

	flag.Parse()

	for _, q := range strings.Split(qualifiers, ",") {
		if q = strings.TrimSpace(q); q != "" {
			c.Qualifiers = append(c.Qualifiers, q)
		}
	}
	return &c
}
