package settlement

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/reecen9696/casino-rollup/internal/domain"
)

// SQLiteCheckpoint mirrors batch status transitions into a sqlite table.
// The JSON file written by Store remains the single source of truth that
// recovery reads from; this table exists so an operator can inspect batch
// history with SQL instead of parsing the JSON blob.
type SQLiteCheckpoint struct {
	db *sql.DB
}

// OpenSQLiteCheckpoint opens (creating if needed) the checkpoint table at
// dataSourceName, a modernc.org/sqlite DSN (e.g. "file:zkcasino.db").
func OpenSQLiteCheckpoint(dataSourceName string) (*SQLiteCheckpoint, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("settlement: open sqlite checkpoint: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS settlement_batches (
	batch_id       INTEGER PRIMARY KEY,
	status         TEXT NOT NULL,
	retry_count    INTEGER NOT NULL,
	transaction_id TEXT,
	error_message  TEXT,
	updated_at     TEXT NOT NULL
);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("settlement: create checkpoint table: %w", err)
	}

	return &SQLiteCheckpoint{db: db}, nil
}

// RecordBatch upserts b's current status row.
func (c *SQLiteCheckpoint) RecordBatch(b domain.SettlementBatch) error {
	const stmt = `
INSERT INTO settlement_batches (batch_id, status, retry_count, transaction_id, error_message, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(batch_id) DO UPDATE SET
	status = excluded.status,
	retry_count = excluded.retry_count,
	transaction_id = excluded.transaction_id,
	error_message = excluded.error_message,
	updated_at = excluded.updated_at;`

	_, err := c.db.Exec(stmt, b.BatchID, string(b.Status), b.RetryCount, b.TransactionID, b.ErrorMessage, b.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("settlement: record checkpoint for batch %d: %w", b.BatchID, err)
	}

	return nil
}

// Close closes the underlying database handle.
func (c *SQLiteCheckpoint) Close() error {
	return c.db.Close()
}
