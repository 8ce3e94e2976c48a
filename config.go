package main

import (
	"log"
	"os"
	"strings"
	"time"
)

// config is read once at startup from the environment (and .env, if present).
type config struct {
	Port          string
	DBURL         string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	RedisAddr     string
	TipsCacheTTL  time.Duration
	KafkaBroker   string
	KafkaTopic    string
	CORSOrigins   []string
}

func loadConfig() config {
	cfg := config{
		Port:          getenv("PORT", "3000"),
		DBURL:         os.Getenv("DB_URL"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: strings.TrimRight(getenv("OPENAI_BASE_URL", "https://api.openai.com"), "/"),
		OpenAIModel:   getenv("OPENAI_MODEL", "gpt-4o-mini"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		TipsCacheTTL:  24 * time.Hour,
		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    getenv("KAFKA_TOPIC", "meal-events"),
		CORSOrigins:   splitList(getenv("CORS_ORIGINS", "*")),
	}
	if s := os.Getenv("TIPS_CACHE_TTL"); s != "" {
		ttl, err := time.ParseDuration(s)
		if err != nil {
			log.Printf("[config] ignoring invalid TIPS_CACHE_TTL %q: %v", s, err)
		} else {
			cfg.TipsCacheTTL = ttl
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
