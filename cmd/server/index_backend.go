package main

import (
	"fmt"
	"path/filepath"

	"monument.ai/internal/persistence/indexdb"
)

// openIndex returns nil when indexing is disabled.
func openIndex(matchDir string, cfg envConfig, disableFlag bool) (*indexdb.SQLiteIndex, error) {
	if disableFlag || cfg.DisableDB {
		return nil, nil
	}
	switch cfg.IndexBackend {
	case "none", "off", "disabled":
		return nil, nil
	case "", "sqlite":
		return indexdb.OpenSQLite(filepath.Join(matchDir, "index", "match.sqlite"))
	default:
		return nil, fmt.Errorf("unsupported MONUMENT_INDEX_BACKEND: %s", cfg.IndexBackend)
	}
}
