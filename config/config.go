package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port              string
	DBPath            string
	LogLevel          string
	LogJSON           bool
	MasterDataPath    string
	BandsImportPath   string
	SeedDemoData      bool
	DefaultAgronomist string
	LabAllowedDomains []string
	LabMaxBytes       int64
}

// Load reads .env when present, then the process environment.
// The returned error only reports a missing or unreadable .env file; the
// config is usable either way.
func Load(files ...string) (AppConfig, error) {
	envErr := godotenv.Load(files...)

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	cfg := AppConfig{
		Port:              get("PORT", "8080"),
		DBPath:            get("DB_PATH", ":memory:"),
		LogLevel:          get("LOG_LEVEL", "info"),
		LogJSON:           get("LOG_FORMAT", "text") == "json",
		MasterDataPath:    get("MASTERDATA_PATH", ""),
		BandsImportPath:   get("BANDS_IMPORT_PATH", ""),
		SeedDemoData:      get("SEED_DEMO_DATA", "true") == "true",
		DefaultAgronomist: get("DEFAULT_AGRONOMIST", "a1"),
		LabMaxBytes:       1500000,
	}
	for _, h := range strings.Split(get("LAB_ALLOWED_DOMAINS", ""), ",") {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			cfg.LabAllowedDomains = append(cfg.LabAllowedDomains, h)
		}
	}
	if v, err := strconv.ParseInt(get("LAB_MAX_BYTES", ""), 10, 64); err == nil && v > 0 {
		cfg.LabMaxBytes = v
	}
	return cfg, envErr
}
