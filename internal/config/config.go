package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         string
	DBDSN        string
	LogFile      string
	ProbeWorkers int
	ProbeTimeout time.Duration
	FetchTimeout time.Duration
	// competitor product pages for the price-scrape helper
	ScrapeURLs map[string]string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
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

func durenvms(key string, defMs int) time.Duration {
	return time.Duration(atoienv(key, defMs)) * time.Millisecond
}

func Load() Config {
	cfg := Config{
		Port:         getenv("PORT", "8080"),
		DBDSN:        getenv("DB_DSN", "lapmart.db"),
		LogFile:      getenv("LOG_FILE", "./lapmart.log"),
		ProbeWorkers: atoienv("PROBE_WORKERS", 8),
		ProbeTimeout: durenvms("PROBE_TIMEOUT_MS", 2000),
		FetchTimeout: durenvms("FETCH_TIMEOUT_MS", 5000),
		ScrapeURLs:   map[string]string{},
	}
	if u := os.Getenv("SCRAPE_ALTA_URL"); u != "" {
		cfg.ScrapeURLs["alta"] = u
	}
	if u := os.Getenv("SCRAPE_ZOOMMER_URL"); u != "" {
		cfg.ScrapeURLs["zoommer"] = u
	}
	log.Printf("[config] PORT=%s DB_DSN=%s PROBE_WORKERS=%d", cfg.Port, cfg.DBDSN, cfg.ProbeWorkers)
	return cfg
}
