/*
 * @module client/dataset_cache
 * @description File-backed dataset snapshots used for source change detection
 * @architecture Client layer - local persistence
 * @stateFlow Fetch -> compare hash against latest snapshot -> save when changed
 * @rules Snapshots are immutable; the newest file (by name) is authoritative
 * @dependencies encoding/json, os
 * @refs client/bdl_client.go, service/scheduler
 */

package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DatasetCache stores fetched datasets as timestamped JSON files.
type DatasetCache struct {
	dir string
}

// NewDatasetCache creates the cache directory under dataDir.
func NewDatasetCache(dataDir string) (*DatasetCache, error) {
	dir := filepath.Join(dataDir, "cache")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &DatasetCache{dir: dir}, nil
}

// Save writes a snapshot and returns its path.
func (c *DatasetCache) Save(ds *Dataset) (string, error) {
	name := fmt.Sprintf("%s_%s.json", ds.SubjectID, ds.FetchedAt.Format("20060102_150405"))
	path := filepath.Join(c.dir, name)

	payload, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// LoadLatest returns the newest snapshot for a subject, or nil when none exists.
func (c *DatasetCache) LoadLatest(subjectID string) (*Dataset, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, err
	}

	prefix := subjectID + "_"
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)

	payload, err := os.ReadFile(filepath.Join(c.dir, names[len(names)-1]))
	if err != nil {
		return nil, err
	}

	var ds Dataset
	if err := json.Unmarshal(payload, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// LatestHash returns the content hash of the newest snapshot, or "" when none.
func (c *DatasetCache) LatestHash(subjectID string) (string, error) {
	ds, err := c.LoadLatest(subjectID)
	if err != nil {
		return "", err
	}
	if ds == nil {
		return "", nil
	}
	return ds.Hash, nil
}

// HasChanged reports whether newHash differs from the latest snapshot's hash.
// An empty cache counts as changed.
func (c *DatasetCache) HasChanged(subjectID, newHash string) (bool, error) {
	old, err := c.LatestHash(subjectID)
	if err != nil {
		return false, err
	}
	return old != newHash, nil
}
