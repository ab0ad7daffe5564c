package artifact

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound indicates the requested artifact is not in the store.
var ErrNotFound = errors.New("artifact not found")

// Store persists encoded artifacts in SQLite, keyed by content hash.
// Re-putting an identical artifact is a no-op.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) an artifact store at the given
// database path.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("artifact: opening store: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("artifact: setting busy timeout: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS artifacts (
		hash TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		data BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("artifact: creating table: %w", err)
	}
	return &Store{db: db}, nil
}

// Put stores the artifact and returns its content hash in hex.
func (s *Store) Put(a *Artifact) (string, error) {
	data, err := Marshal(a)
	if err != nil {
		return "", err
	}
	sum, err := Hash(a)
	if err != nil {
		return "", err
	}
	key := hex.EncodeToString(sum[:])
	_, err = s.db.Exec(
		"INSERT OR IGNORE INTO artifacts (hash, version, data) VALUES (?, ?, ?)",
		key, int(a.Version), data)
	if err != nil {
		return "", fmt.Errorf("artifact: storing %s: %w", key, err)
	}
	return key, nil
}

// Get retrieves an artifact by its hex content hash.
func (s *Store) Get(hash string) (*Artifact, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM artifacts WHERE hash = ?", hash).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("artifact: %s: %w", hash, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("artifact: loading %s: %w", hash, err)
	}
	return Unmarshal(data)
}

// List returns the hashes of every stored artifact, oldest first.
func (s *Store) List() ([]string, error) {
	rows, err := s.db.Query("SELECT hash FROM artifacts ORDER BY created_at, hash")
	if err != nil {
		return nil, fmt.Errorf("artifact: listing: %w", err)
	}
	defer rows.Close()
	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("artifact: scanning row: %w", err)
		}
		hashes = append(hashes, h)
	}
	return hashes, rows.Err()
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
