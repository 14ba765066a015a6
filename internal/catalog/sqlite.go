package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/kitreg/kitreg/internal/domain"
	_ "modernc.org/sqlite"
)

const DBFilename = "catalog.db"

const schema = `
CREATE TABLE IF NOT EXISTS catalog (
	id           TEXT PRIMARY KEY,
	file_name    TEXT NOT NULL,
	file_size    INTEGER NOT NULL,
	download_url TEXT NOT NULL,
	checksum     TEXT NOT NULL,
	owner        TEXT NOT NULL,
	manifest     TEXT NOT NULL,
	uploaded_at  INTEGER NOT NULL,
	user_id      TEXT NOT NULL,
	user_email   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_catalog_uploaded_at ON catalog (uploaded_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_catalog_owner ON catalog (owner);
`

// SQLiteStore implements Store on an embedded SQLite database. Each Append
// is one INSERT, which gives the all-or-nothing persistence guarantee the
// ingestion pipeline relies on.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and bootstraps if needed) the catalog database under
// dataDir.
func OpenSQLite(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, DBFilename)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping catalog database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to bootstrap catalog schema: %w", err)
	}

	log.Debug("Catalog database ready", "path", dbPath)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, record *domain.CatalogRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	owner, _ := record.GroupKey()

	manifestJSON, err := json.Marshal(record.Manifest)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPersistFailed, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO catalog (id, file_name, file_size, download_url, checksum, owner, manifest, uploaded_at, user_id, user_email)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.FileName, record.FileSize, record.DownloadURL,
		record.Checksum, owner, string(manifestJSON),
		record.UploadedAt.UnixNano(), record.UserID, record.UserEmail)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPersistFailed, err)
	}

	return record.ID, nil
}

func (s *SQLiteStore) Query(ctx context.Context, filter Filter, limit int, after *Cursor) ([]domain.CatalogRecord, error) {
	query := `SELECT id, file_name, file_size, download_url, checksum, manifest, uploaded_at, user_id, user_email
		 FROM catalog`
	var where []string
	var args []any

	if filter.Owner != "" {
		where = append(where, "owner = ?")
		args = append(args, filter.Owner)
	}
	if after != nil {
		where = append(where, "(uploaded_at < ? OR (uploaded_at = ? AND id < ?))")
		ts := after.UploadedAt.UnixNano()
		args = append(args, ts, ts, after.ID)
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY uploaded_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var records []domain.CatalogRecord
	for rows.Next() {
		var r domain.CatalogRecord
		var manifestJSON string
		var uploadedAt int64
		if err := rows.Scan(&r.ID, &r.FileName, &r.FileSize, &r.DownloadURL,
			&r.Checksum, &manifestJSON, &uploadedAt, &r.UserID, &r.UserEmail); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		if err := json.Unmarshal([]byte(manifestJSON), &r.Manifest); err != nil {
			return nil, fmt.Errorf("failed to decode stored manifest: %w", err)
		}
		r.UploadedAt = time.Unix(0, uploadedAt).UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog rows: %w", err)
	}

	return records, nil
}

func (s *SQLiteStore) Count(ctx context.Context, filter Filter) (int, error) {
	query := "SELECT count(*) FROM catalog"
	var args []any
	if filter.Owner != "" {
		query += " WHERE owner = ?"
		args = append(args, filter.Owner)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count catalog records: %w", err)
	}
	return total, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
