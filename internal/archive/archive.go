// Package archive is the optional tick-history recorder: an append-only
// SQLite log of every serialized world produced by an update invocation,
// compressed with LZ4 and content-addressed with BLAKE3. It is a pure side
// observer of the engine — opening it, writing to it, or its absence never
// changes the computed world.
package archive

import (
	"bytes"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"
)

const schema = `
CREATE TABLE IF NOT EXISTS ticks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at TEXT NOT NULL,
	world_hash TEXT NOT NULL,
	world_blob BLOB NOT NULL
);
`

// Archive is a handle to the tick-history database at a single path.
type Archive struct {
	db *sql.DB
}

// Open creates the database at path if it doesn't exist and ensures its
// schema is present.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("archive: opening %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: creating schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close releases the underlying database handle.
func (a *Archive) Close() error { return a.db.Close() }

// RecordTick compresses and hashes a serialized world and inserts one row
// for it, stamped with recordedAt.
func (a *Archive) RecordTick(serializedWorld string, recordedAt time.Time) error {
	hash := HashBLAKE3([]byte(serializedWorld))
	compressed := CompressLZ4([]byte(serializedWorld))
	_, err := a.db.Exec(
		"INSERT INTO ticks (recorded_at, world_hash, world_blob) VALUES (?, ?, ?)",
		recordedAt.UTC().Format(time.RFC3339), hash, compressed,
	)
	return err
}

// CompressLZ4 compresses src with LZ4.
func CompressLZ4(src []byte) []byte {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	zw.Write(src)
	zw.Close()
	return buf.Bytes()
}

// DecompressLZ4 reverses CompressLZ4.
func DecompressLZ4(src []byte) []byte {
	var buf bytes.Buffer
	zr := lz4.NewReader(bytes.NewReader(src))
	io.Copy(&buf, zr)
	return buf.Bytes()
}

// HashBLAKE3 returns the hex-encoded BLAKE3-256 digest of data.
func HashBLAKE3(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
