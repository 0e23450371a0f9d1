package mocks

import (
	"github.com/gridironhq/draft-assistant/internal/catalog"
	"github.com/gridironhq/draft-assistant/internal/logger"
)

// MockPostgresCatalog provides a mock Postgres implementation using SQLite for local development
type MockPostgresCatalog struct {
	catalog.PlayerCatalog
}

// NewMockPostgresCatalog creates a mock Postgres catalog backed by SQLite
func NewMockPostgresCatalog(sqliteFile string) (*MockPostgresCatalog, error) {
	logger.Info("Using MOCK Postgres (SQLite) for local development")

	sqliteCatalog, err := catalog.NewSQLiteCatalog(sqliteFile)
	if err != nil {
		return nil, err
	}

	return &MockPostgresCatalog{
		PlayerCatalog: sqliteCatalog,
	}, nil
}
