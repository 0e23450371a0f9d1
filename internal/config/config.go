// Package config reads the service configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gridironhq/draft-assistant/internal/models"
)

type Config struct {
	// Server
	Port string

	// Player catalog
	CatalogBackend string // memory | sqlite | postgres
	SQLiteFile     string
	DatabaseURL    string
	RankingsCSV    string

	// Pub/sub
	PubSubMode  string // off | embedded | nats
	NATSURL     string
	NATSSubject string

	// Auth
	AuthMode         string // off | mock | oidc
	OIDCAuthURL      string
	OIDCTokenURL     string
	OIDCUserInfoURL  string
	OIDCLogoutURL    string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Analytics
	AnalyticsMode      string // off | mock | clickhouse
	ClickHouseAddr     string
	ClickHouseDB       string
	ClickHouseUser     string
	ClickHousePassword string
	SyncInterval       time.Duration

	// Draft defaults. TotalRounds 0 means derive it from the roster rules.
	LeagueSize    int
	UserPosition  int
	TotalRounds   int
	DraftType     string
	ScoringFormat string
	RosterFile    string
}

// Load builds the configuration from environment variables. A .env file in
// the working directory is loaded first if present.
func Load() *Config {
	godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "3000"),

		CatalogBackend: getEnv("CATALOG_BACKEND", "memory"),
		SQLiteFile:     getEnv("SQLITE_FILE", "draft.sqlite"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RankingsCSV:    getEnv("RANKINGS_CSV", ""),

		PubSubMode:  getEnv("PUBSUB_MODE", "off"),
		NATSURL:     getEnv("NATS_URL", "nats://localhost:4222"),
		NATSSubject: getEnv("NATS_SUBJECT", "draft.events"),

		AuthMode:         getEnv("AUTH_MODE", "off"),
		OIDCAuthURL:      getEnv("OIDC_AUTH_URL", ""),
		OIDCTokenURL:     getEnv("OIDC_TOKEN_URL", ""),
		OIDCUserInfoURL:  getEnv("OIDC_USERINFO_URL", ""),
		OIDCLogoutURL:    getEnv("OIDC_LOGOUT_URL", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),

		AnalyticsMode:      getEnv("ANALYTICS_MODE", "off"),
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDB:       getEnv("CLICKHOUSE_DB", "default"),
		ClickHouseUser:     getEnv("CLICKHOUSE_USER", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),
		SyncInterval:       time.Duration(getEnvAsInt("SYNC_INTERVAL_MINUTES", 5)) * time.Minute,

		LeagueSize:    getEnvAsInt("LEAGUE_SIZE", 12),
		UserPosition:  getEnvAsInt("USER_POSITION", 1),
		TotalRounds:   getEnvAsInt("TOTAL_ROUNDS", 0),
		DraftType:     getEnv("DRAFT_TYPE", "snake"),
		ScoringFormat: getEnv("SCORING_FORMAT", "PPR"),
		RosterFile:    getEnv("ROSTER_FILE", ""),
	}
}

// LoadRosterRules reads a YAML roster preset, a mapping of slot name to slot
// count under a top-level "slots" key. Slot names are uppercased so presets
// can use either case. An empty path returns the standard rules.
func LoadRosterRules(path string) (models.RosterRules, error) {
	if path == "" {
		return models.StandardRosterRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var preset struct {
		Slots map[string]int `yaml:"slots"`
	}
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("failed to parse roster file: %w", err)
	}
	if len(preset.Slots) == 0 {
		return nil, fmt.Errorf("roster file %s defines no slots", path)
	}

	rules := make(models.RosterRules, len(preset.Slots))
	for slot, count := range preset.Slots {
		rules[strings.ToUpper(slot)] = count
	}
	return rules, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
