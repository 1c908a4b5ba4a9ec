package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverNeo4j    = "neo4j"
	DriverMemory   = "memory"
)

// Config contains runtime settings for the aggregator
type Config struct {
	LogLevel  string
	LogFormat string // json or console
	Host      string // default 0.0.0.0
	Port      string // default PORT env or 8080

	Adzuna struct {
		AppID  string
		AppKey string
	}
	JSearch struct {
		APIKey string
		Host   string
	}
	SerpAPI struct {
		APIKey string
	}
	Reed struct {
		APIKey string
	}

	Store struct {
		Driver      string
		DatabaseURL string
		SQLitePath  string
	}
	Neo4j struct {
		URI      string
		Username string
		Password string
		Database string
	}

	Redis struct {
		URL      string
		CacheTTL time.Duration
	}

	Sheets struct {
		CredentialsPath string
	}

	Import struct {
		Schedule          string // cron spec, empty disables the scheduler
		Countries         []string
		Queries           []string
		DefaultCountries  int
		MaxJobsPerCountry int
		PerPage           int
		CallTimeout       time.Duration
		Concurrency       int
		Retries           int
		WriteConcurrency  int
		RateLimit         float64 // requests per second per provider, 0 disables
	}
}

// Load populates config from environment variables
func Load() (Config, error) {
	cfg := Config{
		LogLevel:  "info",
		LogFormat: "json",
		Host:      "0.0.0.0",
		Port:      "8080",
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	cfg.Adzuna.AppID = os.Getenv("ADZUNA_APP_ID")
	cfg.Adzuna.AppKey = os.Getenv("ADZUNA_APP_KEY")
	cfg.JSearch.APIKey = envOr("JSEARCH_API_KEY", os.Getenv("RAPIDAPI_KEY"))
	cfg.JSearch.Host = os.Getenv("JSEARCH_HOST")
	cfg.SerpAPI.APIKey = envOr("SERPAPI_API_KEY", os.Getenv("SERPAPI_KEY"))
	cfg.Reed.APIKey = os.Getenv("REED_API_KEY")

	cfg.Store.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.Store.SQLitePath = envOr("SQLITE_PATH", "jobs.db")
	cfg.Store.Driver = strings.ToLower(os.Getenv("STORE_DRIVER"))
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DriverSQLite
		if cfg.Store.DatabaseURL != "" {
			cfg.Store.Driver = DriverPostgres
		}
	}

	cfg.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
	cfg.Neo4j.Database = os.Getenv("NEO4J_DATABASE")

	cfg.Redis.URL = os.Getenv("REDIS_URL")
	cfg.Sheets.CredentialsPath = os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH")

	cfg.Import.Schedule = os.Getenv("IMPORT_SCHEDULE")
	cfg.Import.Countries = splitList(os.Getenv("IMPORT_COUNTRIES"))
	cfg.Import.Queries = splitList(os.Getenv("IMPORT_QUERIES"))

	var invalid []string
	cfg.Redis.CacheTTL = durationEnv("CACHE_TTL", 30*time.Minute, &invalid)
	cfg.Import.DefaultCountries = intEnv("DEFAULT_COUNTRIES", 5, &invalid)
	cfg.Import.MaxJobsPerCountry = intEnv("MAX_JOBS_PER_COUNTRY", 100, &invalid)
	cfg.Import.PerPage = intEnv("PROVIDER_PAGE_SIZE", 20, &invalid)
	cfg.Import.CallTimeout = durationEnv("PROVIDER_TIMEOUT", 15*time.Second, &invalid)
	cfg.Import.Concurrency = intEnv("PROVIDER_CONCURRENCY", 8, &invalid)
	cfg.Import.Retries = intEnv("PROVIDER_RETRIES", 0, &invalid)
	cfg.Import.WriteConcurrency = intEnv("WRITE_CONCURRENCY", 4, &invalid)
	cfg.Import.RateLimit = floatEnv("PROVIDER_RATE_LIMIT", 2, &invalid)

	if len(invalid) > 0 {
		return cfg, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	var missingVars []string
	switch cfg.Store.Driver {
	case DriverPostgres:
		if cfg.Store.DatabaseURL == "" {
			missingVars = append(missingVars, "DATABASE_URL")
		}
	case DriverNeo4j:
		if cfg.Neo4j.URI == "" {
			missingVars = append(missingVars, "NEO4J_URI")
		}
		if cfg.Neo4j.Username == "" {
			missingVars = append(missingVars, "NEO4J_USERNAME")
		}
		if cfg.Neo4j.Password == "" {
			missingVars = append(missingVars, "NEO4J_PASSWORD")
		}
	case DriverSQLite, DriverMemory:
	default:
		return cfg, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	if len(missingVars) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	return cfg, nil
}

// Addr returns the listen address
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intEnv(key string, def int, invalid *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		*invalid = append(*invalid, key)
		return def
	}
	return n
}

func floatEnv(key string, def float64, invalid *[]string) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		*invalid = append(*invalid, key)
		return def
	}
	return f
}

func durationEnv(key string, def time.Duration, invalid *[]string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		*invalid = append(*invalid, key)
		return def
	}
	return d
}
