package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr      string
	RuleCheck RuleCheck
	Redis     Redis
	LLM       LLM
	Audit     Audit
}

// RuleCheck configures the rule-consistency monitor and the verdict cache.
type RuleCheck struct {
	// CacheTTL bounds how long a rule-check verdict is reused before a
	// fresh check is performed.
	CacheTTL time.Duration
	// FetchTimeout bounds the whole fetch+extract cycle of one check.
	FetchTimeout time.Duration
	// SourceURLs are candidate locations for the official rule text,
	// tried in order; first success wins.
	SourceURLs []string
}

// Redis holds connection settings for the optional Redis-backed verdict cache.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LLM configures the external extraction / alternate-computation capability.
type LLM struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Audit configures the optional Kafka audit sink. Empty brokers means
// audit events stay in the in-process store only.
type Audit struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("POINTSGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	return Server{
		Addr: addr,
		RuleCheck: RuleCheck{
			CacheTTL:     envDuration("RULECHECK_CACHE_TTL", time.Hour),
			FetchTimeout: envDuration("RULECHECK_FETCH_TIMEOUT", 10*time.Second),
			SourceURLs:   envList("RULECHECK_SOURCE_URLS", defaultSourceURLs),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		LLM: LLM{
			APIKey:  os.Getenv("LLM_API_KEY"),
			Model:   envString("LLM_MODEL", "claude-sonnet-4-20250514"),
			BaseURL: envString("LLM_BASE_URL", "https://api.anthropic.com/v1/messages"),
			Timeout: envDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Audit: Audit{
			Brokers: envList("AUDIT_KAFKA_BROKERS", nil),
			Topic:   envString("AUDIT_KAFKA_TOPIC", "pointsgate.audit"),
		},
	}
}

// defaultSourceURLs are the published locations of the official point grid.
var defaultSourceURLs = []string{
	"https://www.canada.ca/en/immigration-refugees-citizenship/services/immigrate-canada/express-entry/check-score/crs-criteria.html",
	"https://www.canada.ca/en/immigration-refugees-citizenship/services/immigrate-canada/express-entry/check-score.html",
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
