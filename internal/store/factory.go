package store

import (
	"fmt"
	"strings"
)

// Engines the server can persist waddl state with. SQLite is the
// default; JSON keeps the state human-readable for local hacking.
const (
	EngineSQLite = "sqlite"
	EngineJSON   = "json"
)

// DefaultDataFile is the conventional data file for an engine, used
// when WADDL_DATA_FILE is unset.
func DefaultDataFile(engine string) string {
	if strings.EqualFold(strings.TrimSpace(engine), EngineJSON) {
		return "data/waddl.json"
	}
	return "data/waddl.db"
}

func NewByEngine(engine string, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineSQLite:
		return NewSQLiteStore(path)
	case EngineJSON:
		return NewJSONStore(path)
	default:
		return nil, fmt.Errorf("unsupported store engine %q (want %s or %s)", engine, EngineSQLite, EngineJSON)
	}
}
