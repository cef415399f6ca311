package tagindex

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteIndex stores mappings in a local SQLite file.
// Safe for concurrent use; writes are serialised.
type SQLiteIndex struct {
	conn    *sql.DB
	boardID string
	mu      sync.Mutex
}

// OpenSQLite opens or creates the database at path.
// The parent directory is created if missing.
func OpenSQLite(path, boardID string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}
	if boardID == "" {
		return nil, fmt.Errorf("board id cannot be empty")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, storageError("create db directory", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageError("open db", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, storageError("set wal mode", err)
	}

	idx := &SQLiteIndex{conn: conn, boardID: boardID}
	if err := idx.migrate(); err != nil {
		conn.Close()
		return nil, storageError("migrate", err)
	}
	return idx, nil
}

func (s *SQLiteIndex) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tag_mappings (
		board_id TEXT NOT NULL,
		tag TEXT NOT NULL,
		item_id TEXT NOT NULL,
		PRIMARY KEY (board_id, tag, item_id)
	);
	CREATE INDEX IF NOT EXISTS idx_tag_mappings_item ON tag_mappings(board_id, item_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Ping verifies the database is reachable.
func (s *SQLiteIndex) Ping(ctx context.Context) error {
	if err := s.conn.PingContext(ctx); err != nil {
		return storageError("ping db", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteIndex) Close() error {
	return s.conn.Close()
}

// Record inserts each (tag, itemID) pair in one transaction.
func (s *SQLiteIndex) Record(ctx context.Context, itemID string, tags ...string) error {
	if err := validateRecord(itemID, tags); err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return storageError("begin record", err)
	}
	defer tx.Rollback()

	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO tag_mappings (board_id, tag, item_id) VALUES (?, ?, ?)",
			s.boardID, tag, itemID); err != nil {
			return storageError("record tag", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageError("commit record", err)
	}
	return nil
}

// ItemsForTag returns the ids recorded for tag.
func (s *SQLiteIndex) ItemsForTag(ctx context.Context, tag string) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT item_id FROM tag_mappings WHERE board_id = ? AND tag = ? ORDER BY item_id",
		s.boardID, tag)
	if err != nil {
		return nil, storageError("query tag", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storageError("scan tag", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("read tag", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// AllMappings returns every tag recorded for the board.
func (s *SQLiteIndex) AllMappings(ctx context.Context) (map[string][]string, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT tag, item_id FROM tag_mappings WHERE board_id = ?", s.boardID)
	if err != nil {
		return nil, storageError("query mappings", err)
	}
	defer rows.Close()

	out := map[string][]string{}
	for rows.Next() {
		var tag, id string
		if err := rows.Scan(&tag, &id); err != nil {
			return nil, storageError("scan mapping", err)
		}
		out[tag] = append(out[tag], id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("read mappings", err)
	}
	return sortMappings(out), nil
}

// Prune deletes mappings whose item is not live.
func (s *SQLiteIndex) Prune(ctx context.Context, live func(itemID string) bool) (int, error) {
	mappings, err := s.AllMappings(ctx)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageError("begin prune", err)
	}
	defer tx.Rollback()

	removed := 0
	for tag, ids := range mappings {
		for _, id := range ids {
			if live(id) {
				continue
			}
			res, err := tx.ExecContext(ctx,
				"DELETE FROM tag_mappings WHERE board_id = ? AND tag = ? AND item_id = ?",
				s.boardID, tag, id)
			if err != nil {
				return 0, storageError("prune mapping", err)
			}
			n, _ := res.RowsAffected()
			removed += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, storageError("commit prune", err)
	}
	return removed, nil
}
