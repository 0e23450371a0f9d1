package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gridironhq/draft-assistant/internal/analytics"
	"github.com/gridironhq/draft-assistant/internal/auth"
	"github.com/gridironhq/draft-assistant/internal/catalog"
	"github.com/gridironhq/draft-assistant/internal/config"
	"github.com/gridironhq/draft-assistant/internal/handlers"
	"github.com/gridironhq/draft-assistant/internal/logger"
	"github.com/gridironhq/draft-assistant/internal/mocks"
	"github.com/gridironhq/draft-assistant/internal/models"
	"github.com/gridironhq/draft-assistant/internal/pubsub"
	"github.com/gridironhq/draft-assistant/internal/session"
)

var (
	cfg             *config.Config
	playerCatalog   catalog.PlayerCatalog
	eventBus        *pubsub.Bus
	draftSession    *session.Session
	authProvider    auth.Provider
	analyticsClient interface {
		ProjectedPoints(string) (float64, error)
		AllProjectedPoints() (map[string]float64, error)
		SyncProjections(func(string, float64) error) error
		Close() error
	}
)

func main() {
	// Initialize logger first
	logger.Init()

	logger.Info("Starting draft assistant service")

	cfg = config.Load()

	// Initialize the player catalog backend
	var err error
	switch cfg.CatalogBackend {
	case "memory":
		playerCatalog = catalog.NewMemoryCatalog()
		logger.Info("Using in-memory player catalog")
	case "sqlite":
		playerCatalog, err = catalog.NewSQLiteCatalog(cfg.SQLiteFile)
		if err != nil {
			logger.Error("Failed to initialize SQLite", "error", err)
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		logger.Info("Connected to SQLite catalog", "file", cfg.SQLiteFile)
	case "postgres":
		if cfg.DatabaseURL == "" {
			// No shared rankings database available, fall back to a local mock
			logger.Info("DATABASE_URL not set, falling back to mock Postgres catalog")
			playerCatalog, err = mocks.NewMockPostgresCatalog(cfg.SQLiteFile)
			if err != nil {
				logger.Error("Failed to initialize mock Postgres catalog", "error", err)
				log.Fatalf("Failed to initialize mock Postgres catalog: %v", err)
			}
		} else {
			playerCatalog, err = catalog.NewPostgresCatalog(cfg.DatabaseURL)
			if err != nil {
				logger.Error("Failed to initialize Postgres", "error", err)
				log.Fatalf("Failed to initialize Postgres: %v", err)
			}
			logger.Info("Connected to Postgres catalog")
		}
	default:
		logger.Error("Unknown CATALOG_BACKEND", "backend", cfg.CatalogBackend)
		log.Fatalf("Unknown CATALOG_BACKEND: %s (valid: memory, sqlite, postgres)", cfg.CatalogBackend)
	}

	// Initialize pub/sub (local fan-out, embedded NATS, or external NATS JetStream)
	switch cfg.PubSubMode {
	case "off":
		eventBus = pubsub.New()
		logger.Info("Event bus running without upstream")
	case "embedded":
		logger.Info("Starting embedded NATS server")
		embedded, err := pubsub.NewEmbeddedNATS(pubsub.EmbeddedOptions{
			Port:       0, // Random available port
			Subject:    cfg.NATSSubject,
			StreamName: "DRAFT_EVENTS",
			StoreDir:   "", // In-memory storage
		})
		if err != nil {
			logger.Error("Failed to initialize embedded NATS", "error", err)
			log.Fatalf("Failed to initialize embedded NATS: %v", err)
		}
		eventBus = pubsub.NewWithUpstream(embedded)
		logger.Info("Embedded NATS server ready", "url", embedded.ServerURL())
	case "nats":
		upstream, err := pubsub.NewNATSUpstream(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			logger.Error("Failed to initialize NATS", "error", err)
			log.Fatalf("Failed to initialize NATS: %v", err)
		}
		eventBus = pubsub.NewWithUpstream(upstream)
		logger.Info("Connected to NATS", "url", cfg.NATSURL)
	default:
		logger.Error("Unknown PUBSUB_MODE", "mode", cfg.PubSubMode)
		log.Fatalf("Unknown PUBSUB_MODE: %s (valid: off, embedded, nats)", cfg.PubSubMode)
	}

	// Replace the seeded rankings with a custom CSV when one is configured
	if cfg.RankingsCSV != "" {
		f, err := os.Open(cfg.RankingsCSV)
		if err != nil {
			logger.Error("Failed to open rankings CSV", "error", err, "path", cfg.RankingsCSV)
			log.Fatalf("Failed to open rankings CSV: %v", err)
		}
		players, err := catalog.ReadPlayersCSV(f)
		f.Close()
		if err != nil {
			logger.Error("Failed to parse rankings CSV", "error", err, "path", cfg.RankingsCSV)
			log.Fatalf("Failed to parse rankings CSV: %v", err)
		}
		if err := playerCatalog.ReplaceAll(players); err != nil {
			logger.Error("Failed to load rankings", "error", err)
			log.Fatalf("Failed to load rankings: %v", err)
		}
		eventBus.Publish(pubsub.Event{
			Type:    pubsub.EventRankingsLoaded,
			Payload: map[string]interface{}{"players": len(players), "source": cfg.RankingsCSV},
		})
		logger.Info("Rankings loaded from CSV", "players", len(players), "path", cfg.RankingsCSV)
	}

	// Build the draft configuration and start the session
	rosterRules, err := config.LoadRosterRules(cfg.RosterFile)
	if err != nil {
		logger.Error("Failed to load roster rules", "error", err, "path", cfg.RosterFile)
		log.Fatalf("Failed to load roster rules: %v", err)
	}

	totalRounds := cfg.TotalRounds
	if totalRounds == 0 {
		// One round per roster slot, the way league sites size drafts
		for _, count := range rosterRules {
			totalRounds += count
		}
	}

	draftSession, err = session.New(models.DraftConfig{
		LeagueSize:    cfg.LeagueSize,
		UserPosition:  cfg.UserPosition,
		ScoringFormat: cfg.ScoringFormat,
		DraftType:     models.DraftType(cfg.DraftType),
		RosterConfig:  rosterRules,
		TotalRounds:   totalRounds,
	}, playerCatalog, eventBus)
	if err != nil {
		logger.Error("Invalid draft configuration", "error", err)
		log.Fatalf("Invalid draft configuration: %v", err)
	}
	logger.Info("Draft session ready",
		"league_size", cfg.LeagueSize,
		"user_position", cfg.UserPosition,
		"draft_type", cfg.DraftType,
		"total_rounds", totalRounds)

	// Initialize the analytics client for projection syncing
	switch cfg.AnalyticsMode {
	case "off":
		logger.Info("Projection sync disabled")
	case "mock":
		analyticsClient = mocks.NewMockAnalyticsClient()
		logger.Info("Using mock analytics client for local development")
	case "clickhouse":
		analyticsClient, err = analytics.NewClient(cfg.ClickHouseAddr, cfg.ClickHouseDB, cfg.ClickHouseUser, cfg.ClickHousePassword)
		if err != nil {
			logger.Error("Failed to initialize ClickHouse", "error", err, "address", cfg.ClickHouseAddr)
			log.Fatalf("Failed to initialize ClickHouse: %v", err)
		}
		logger.Info("Connected to ClickHouse", "address", cfg.ClickHouseAddr, "database", cfg.ClickHouseDB)
	default:
		logger.Error("Unknown ANALYTICS_MODE", "mode", cfg.AnalyticsMode)
		log.Fatalf("Unknown ANALYTICS_MODE: %s (valid: off, mock, clickhouse)", cfg.AnalyticsMode)
	}

	// Start periodic projection sync
	if analyticsClient != nil {
		go func() {
			ticker := time.NewTicker(cfg.SyncInterval)
			defer ticker.Stop()

			// Initial sync
			syncProjections()

			for range ticker.C {
				syncProjections()
			}
		}()
	}

	// Initialize authentication
	switch cfg.AuthMode {
	case "off":
		logger.Info("Authentication disabled")
	case "mock":
		authProvider = auth.NewMockAuth()
		logger.Info("Using mock authentication for local development")
	case "oidc":
		if cfg.OIDCAuthURL == "" || cfg.OIDCTokenURL == "" || cfg.OIDCClientID == "" || cfg.OIDCClientSecret == "" {
			logger.Error("OIDC_AUTH_URL, OIDC_TOKEN_URL, OIDC_CLIENT_ID, and OIDC_CLIENT_SECRET are required for oidc auth")
			log.Fatal("OIDC_AUTH_URL, OIDC_TOKEN_URL, OIDC_CLIENT_ID, and OIDC_CLIENT_SECRET are required for oidc auth")
		}
		authProvider = auth.NewOIDCAuth(&auth.OIDCConfig{
			AuthURL:      cfg.OIDCAuthURL,
			TokenURL:     cfg.OIDCTokenURL,
			UserInfoURL:  cfg.OIDCUserInfoURL,
			LogoutURL:    cfg.OIDCLogoutURL,
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
		})
		logger.Info("Using OIDC authentication", "auth_url", cfg.OIDCAuthURL)
	default:
		logger.Error("Unknown AUTH_MODE", "mode", cfg.AuthMode)
		log.Fatalf("Unknown AUTH_MODE: %s (valid: off, mock, oidc)", cfg.AuthMode)
	}

	// Set up HTTP routes
	mux := http.NewServeMux()

	// Auth routes (public)
	if authProvider != nil {
		mux.HandleFunc("/auth/login", authProvider.LoginHandler)
		mux.HandleFunc("/auth/callback", authProvider.CallbackHandler)
		mux.HandleFunc("/auth/logout", authProvider.LogoutHandler)
	}

	api := handlers.NewAPIHandlers(draftSession, eventBus)

	// Draft API
	mux.HandleFunc("/api/draft/state", api.GetDraftState)
	mux.HandleFunc("/api/draft/status", api.GetDraftStatus)
	mux.HandleFunc("/api/draft/board", api.GetDraftBoard)
	mux.HandleFunc("/api/draft/pick-info", api.GetPickInfo)
	mux.HandleFunc("/api/draft/next-picks", api.GetNextUserPicks)
	mux.HandleFunc("/api/draft/pick", protect(api.DraftPick))
	mux.HandleFunc("/api/draft/assign", protect(api.AssignPick))
	mux.HandleFunc("/api/draft/undo", protect(api.UndoPick))
	mux.HandleFunc("/api/draft/export", api.ExportState)
	mux.HandleFunc("/api/draft/import", protect(api.ImportState))
	mux.HandleFunc("/api/draft/reset", protect(api.ResetDraft))

	// Players API
	mux.HandleFunc("/api/players", api.AvailablePlayers)
	mux.HandleFunc("/api/players/add", protect(api.AddPlayer))
	mux.HandleFunc("/api/teams", api.GetNFLTeams)
	mux.HandleFunc("/api/rankings/export", api.ExportRankings)
	mux.HandleFunc("/api/rankings/import", protect(api.ImportRankings))

	// Roster API
	mux.HandleFunc("/api/roster", api.GetTeamRoster)
	mux.HandleFunc("/api/roster/assigned", api.GetAssignedRoster)
	mux.HandleFunc("/api/roster/needs", api.GetPositionNeeds)
	mux.HandleFunc("/api/roster/validate", api.ValidateRoster)

	// Insights API
	mux.HandleFunc("/api/insights/scarcity", api.GetScarcity)
	mux.HandleFunc("/api/insights/targets", api.GetTargets)
	mux.HandleFunc("/api/insights/recap", api.GetRecap)
	mux.HandleFunc("/api/insights/cheat-sheet", api.GetCheatSheet)

	// SSE for realtime updates
	mux.HandleFunc("/api/events", api.EventsSSE)

	// Health check endpoints
	mux.HandleFunc("/api/health", healthHandler)
	mux.HandleFunc("/healthz", livenessHandler) // Kubernetes liveness probe
	mux.HandleFunc("/readyz", readinessHandler) // Kubernetes readiness probe

	// Start server
	addr := "0.0.0.0:" + cfg.Port
	logger.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Server failed", "error", err)
		log.Fatal(err)
	}
}

// protect wraps a mutating route with the auth middleware and the
// commissioner gate. With auth off the route is served as-is.
func protect(next http.HandlerFunc) http.HandlerFunc {
	if authProvider == nil {
		return next
	}
	return authProvider.Middleware(auth.RequireCommissioner(next))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	// Check catalog connectivity
	if playerCatalog != nil {
		_, err := playerCatalog.Players(catalog.Query{Limit: 1})
		if err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks["catalog"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
		} else {
			checks["catalog"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	} else {
		checks["catalog"] = map[string]interface{}{
			"status": "not_configured",
		}
	}

	// Check ClickHouse connectivity (only when a real warehouse is configured)
	if cfg.AnalyticsMode == "clickhouse" && analyticsClient != nil {
		_, err := analyticsClient.AllProjectedPoints()
		if err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks["clickhouse"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
		} else {
			checks["clickhouse"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	}

	// NATS connection health is handled internally by the client, so an
	// upstream that came up at startup counts as healthy here
	if cfg.PubSubMode != "off" && eventBus != nil {
		checks["nats"] = map[string]interface{}{
			"status": "healthy",
		}
	}

	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(response)
}

// livenessHandler handles Kubernetes liveness probes
// Returns 200 if the application is running (doesn't check dependencies)
func livenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

// readinessHandler handles Kubernetes readiness probes
// Returns 200 if the application is ready to serve traffic (checks critical dependencies)
func readinessHandler(w http.ResponseWriter, r *http.Request) {
	// The catalog is the one dependency every request path needs
	if playerCatalog != nil {
		_, err := playerCatalog.Players(catalog.Query{Limit: 1})
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":    "not_ready",
				"reason":    "catalog_unavailable",
				"timestamp": time.Now().Unix(),
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}

// syncProjections pulls projected points from the analytics warehouse into
// the catalog and announces the refresh on the event bus.
func syncProjections() {
	logger.Info("Syncing projected points")

	err := analyticsClient.SyncProjections(func(playerID string, points float64) error {
		_, err := playerCatalog.SetProjectedPoints(playerID, points)
		return err
	})
	if err != nil {
		logger.Error("Failed to sync projections", "error", err)
		return
	}

	eventBus.Publish(pubsub.Event{
		Type:    pubsub.EventProjectionsSync,
		Payload: map[string]interface{}{"timestamp": time.Now().Unix()},
	})
	logger.Info("Projected points synced")
}
