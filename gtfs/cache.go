package gtfs

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// cacheVersion changes whenever the Tables layout does, invalidating old files.
const cacheVersion = 1

type cacheEnvelope struct {
	Version int
	SavedAt time.Time
	Tables  Tables
}

// SerializeTablesToWriter writes parsed tables to w using gob encoding.
// Cached tables skip the zip download and CSV parse on restart.
//
// Example:
//
//	tables, _ := gtfs.ParseZip(zipBytes)
//	var buf bytes.Buffer
//	if err := gtfs.SerializeTablesToWriter(tables, &buf); err != nil {
//	    // handle error
//	}
func SerializeTablesToWriter(t *Tables, w io.Writer) error {
	env := cacheEnvelope{Version: cacheVersion, SavedAt: time.Now(), Tables: *t}
	if err := gob.NewEncoder(w).Encode(env); err != nil {
		return fmt.Errorf("failed to encode gtfs tables: %w", err)
	}
	return nil
}

// DeserializeTablesFromReader reads tables written by SerializeTablesToWriter.
// A file from another cache version is rejected.
func DeserializeTablesFromReader(r io.Reader) (*Tables, time.Time, error) {
	var env cacheEnvelope
	if err := gob.NewDecoder(r).Decode(&env); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode gtfs tables: %w", err)
	}
	if env.Version != cacheVersion {
		return nil, time.Time{}, fmt.Errorf("gtfs cache version %d, want %d", env.Version, cacheVersion)
	}
	return &env.Tables, env.SavedAt, nil
}

// SerializeTablesToFile writes tables to path, replacing any previous file atomically.
//
// Example:
//
//	if err := gtfs.SerializeTablesToFile(tables, "/var/cache/route-planner/gtfs.gob"); err != nil {
//	    log.Warn().Err(err).Msg("Could not write gtfs cache")
//	}
func SerializeTablesToFile(t *Tables, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".gtfs-*.gob")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if err := SerializeTablesToWriter(t, tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// DeserializeTablesFromFile reads cached tables and the time they were saved.
//
// Example:
//
//	tables, savedAt, err := gtfs.DeserializeTablesFromFile(path)
//	if err != nil || time.Since(savedAt) > 24*time.Hour {
//	    // Cache miss or stale, fetch fresh data
//	}
func DeserializeTablesFromFile(path string) (*Tables, time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read cache file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return DeserializeTablesFromReader(f)
}
