package settlement

import (
	"os"
	"path/filepath"
	"strings"
)

const sqliteMemoryPath = "sqlite::memory:"

// PathFromDatabaseURL derives the JSON store's file path from the
// --database-url flag, the same way a sqlite connection string would be
// turned into a file: a "sqlite:" prefix is stripped, the remaining file
// name's extension is dropped, and ".settlement.json" is appended
// ("sqlite:zkcasino.db" -> "zkcasino.settlement.json"). "sqlite::memory:" has no backing
// file to derive from, so it gets a fresh file under the OS temp directory -
// durability within a single process run, discarded on exit.
func PathFromDatabaseURL(databaseURL string) string {
	if databaseURL == sqliteMemoryPath {
		return filepath.Join(os.TempDir(), "casino-rollup-memory.settlement.json")
	}

	base := strings.TrimPrefix(databaseURL, "sqlite:")
	base = strings.TrimSuffix(base, filepath.Ext(base))

	return base + ".settlement.json"
}
