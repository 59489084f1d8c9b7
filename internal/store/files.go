package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goodbuys/labelcrawler/internal/crawler"
	"github.com/goodbuys/labelcrawler/internal/hoststats"
)

// LoadTargets reads the target list. A missing or malformed target file is a
// hard error: there is nothing to crawl without it.
func LoadTargets(path string) ([]crawler.Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets %s: %w", path, err)
	}
	var targets []crawler.Target
	if err := json.Unmarshal(data, &targets); err != nil {
		return nil, fmt.Errorf("parse targets %s: %w", path, err)
	}
	for i, t := range targets {
		if t.ID == "" || t.Name == "" {
			return nil, fmt.Errorf("target %d in %s missing id or name", i, path)
		}
	}
	return targets, nil
}

// LoadRows reads previously persisted entity rows. A missing file means a
// first run and yields an empty slice.
func LoadRows(path string) ([]EntityRow, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read rows %s: %w", path, err)
	}
	var rows []EntityRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse rows %s: %w", path, err)
	}
	return rows, nil
}

// WriteRows persists the merged entity rows atomically.
func WriteRows(path string, rows []EntityRow) error {
	return writeJSONAtomic(path, rows)
}

// WriteAudit persists the run audit atomically.
func WriteAudit(path string, audit Audit) error {
	return writeJSONAtomic(path, audit)
}

// WriteHostStats persists the host diagnostics snapshot atomically.
func WriteHostStats(path string, stats map[string]hoststats.HostStats) error {
	return writeJSONAtomic(path, stats)
}

// writeJSONAtomic writes via a temp file in the destination directory and
// renames it into place.
func writeJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s into place: %w", path, err)
	}
	return nil
}
