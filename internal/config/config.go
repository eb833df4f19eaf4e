package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the runtime configuration of the shop host, resolved from
// environment variables with sensible defaults.
type Config struct {
	ServiceName string
	Env         string
	HTTPAddr    string

	SnapshotPath  string
	SweepInterval time.Duration

	BaselineQuota int
	QuotaTiers    []int

	StandardTaxRate float64
	PremiumTaxRate  float64

	DefaultDisplayEnabled bool
}

func FromEnv() Config {
	return Config{
		ServiceName:           getenv("SERVICE_NAME", "vortexchestshop"),
		Env:                   getenv("ENV", "dev"),
		HTTPAddr:              getenv("HTTP_ADDR", ":8080"),
		SnapshotPath:          getenv("SHOP_SNAPSHOT_PATH", "data/shops.yaml"),
		SweepInterval:         getduration("STOCK_SWEEP_INTERVAL", 30*time.Second),
		BaselineQuota:         getint("SHOP_BASE_MAX_SHOPS", 5),
		QuotaTiers:            getints("SHOP_QUOTA_TIERS", nil),
		StandardTaxRate:       getfloat("SHOP_TAX_STANDARD", 0.05),
		PremiumTaxRate:        getfloat("SHOP_TAX_PREMIUM", 0.02),
		DefaultDisplayEnabled: getbool("SHOP_DEFAULT_DISPLAY", true),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getfloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getduration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func getints(key string, def []int) []int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return def
		}
		out = append(out, n)
	}
	return out
}
