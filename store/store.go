// Package store caches InferPaths results in a sqlite3 database, the same
// driver the teacher uses (via github.com/mattn/go-sqlite3) to read
// bdrmapit annotation databases.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Emeline-1/bgpsim"
)

// Store is a cache, not a system of record: a missing key is not an error.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the sqlite3 database at path and ensures
// its single table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	const schema = `CREATE TABLE IF NOT EXISTS runs (
		key TEXT PRIMARY KEY,
		pref BLOB,
		len BLOB,
		paths BLOB,
		created_at INTEGER
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// record is the JSON-serializable shape of a NodeAnnouncementData, since
// the type's own fields are unexported.
type record struct {
	Pref  map[int]bgpsim.PathPref `json:"pref"`
	Len   map[int]int             `json:"len"`
	Paths map[int][][]int         `json:"paths"`
}

// Save serializes data's three parallel maps as JSON and upserts them
// under key. createdAt is a caller-supplied Unix timestamp, since this
// package must not call time.Now itself for callers that need
// reproducible writes in tests.
func (s *Store) Save(key string, data *bgpsim.NodeAnnouncementData, createdAt int64) error {
	rec := record{
		Pref:  make(map[int]bgpsim.PathPref),
		Len:   make(map[int]int),
		Paths: make(map[int][][]int),
	}
	for _, asn := range data.Nodes() {
		rec.Pref[asn] = data.PathPref(asn)
		rec.Len[asn] = data.PathLen(asn)
		rec.Paths[asn] = data.BestPaths(asn)
	}

	prefBlob, err := json.Marshal(rec.Pref)
	if err != nil {
		return fmt.Errorf("store: marshal pref: %w", err)
	}
	lenBlob, err := json.Marshal(rec.Len)
	if err != nil {
		return fmt.Errorf("store: marshal len: %w", err)
	}
	pathsBlob, err := json.Marshal(rec.Paths)
	if err != nil {
		return fmt.Errorf("store: marshal paths: %w", err)
	}

	const upsert = `INSERT INTO runs (key, pref, len, paths, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET pref=excluded.pref, len=excluded.len, paths=excluded.paths, created_at=excluded.created_at`
	_, err = s.db.Exec(upsert, key, prefBlob, lenBlob, pathsBlob, createdAt)
	return err
}

// Load returns the result stored under key, or found == false if no such
// key exists.
func (s *Store) Load(key string) (data *bgpsim.NodeAnnouncementData, found bool, err error) {
	row := s.db.QueryRow(`SELECT pref, len, paths FROM runs WHERE key = ?`, key)
	var prefBlob, lenBlob, pathsBlob []byte
	if err := row.Scan(&prefBlob, &lenBlob, &pathsBlob); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}

	var rec record
	if err := json.Unmarshal(prefBlob, &rec.Pref); err != nil {
		return nil, false, fmt.Errorf("store: unmarshal pref: %w", err)
	}
	if err := json.Unmarshal(lenBlob, &rec.Len); err != nil {
		return nil, false, fmt.Errorf("store: unmarshal len: %w", err)
	}
	if err := json.Unmarshal(pathsBlob, &rec.Paths); err != nil {
		return nil, false, fmt.Errorf("store: unmarshal paths: %w", err)
	}

	out := bgpsim.NewNodeAnnouncementData()
	for asn, pref := range rec.Pref {
		out.SetPathPref(asn, pref)
	}
	for asn, length := range rec.Len {
		out.SetPathLen(asn, length)
	}
	for asn, paths := range rec.Paths {
		out.SetBestPaths(asn, paths)
	}
	return out, true, nil
}
