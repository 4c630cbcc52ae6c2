/*
 * @module client/dataset_cache_test
 * @description Dataset cache tests: snapshot persistence and change detection
 * @architecture Unit tests - real files in t.TempDir
 * @stateFlow Save snapshots -> load latest -> compare hashes
 * @rules The newest snapshot by name decides whether data changed
 * @dependencies testing, testify
 * @refs dataset_cache.go
 */

package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cachedDataset(hash string, fetchedAt time.Time) *Dataset {
	return &Dataset{
		SubjectID: "P3961",
		Name:      "Koszty utrzymania zasobów mieszkaniowych",
		Records:   []RawRecord{{UnitID: "0200000", UnitName: "DOLNOŚLĄSKIE"}},
		FetchedAt: fetchedAt,
		Hash:      hash,
	}
}

func TestDatasetCache_SaveAndLoadLatest(t *testing.T) {
	cache, err := NewDatasetCache(t.TempDir())
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err = cache.Save(cachedDataset("hash-old", base))
	require.NoError(t, err)
	_, err = cache.Save(cachedDataset("hash-new", base.Add(time.Hour)))
	require.NoError(t, err)

	latest, err := cache.LoadLatest("P3961")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "hash-new", latest.Hash)
	assert.Equal(t, "DOLNOŚLĄSKIE", latest.Records[0].UnitName)
}

func TestDatasetCache_EmptyCache(t *testing.T) {
	cache, err := NewDatasetCache(t.TempDir())
	require.NoError(t, err)

	latest, err := cache.LoadLatest("P3961")
	require.NoError(t, err)
	assert.Nil(t, latest)

	hash, err := cache.LatestHash("P3961")
	require.NoError(t, err)
	assert.Empty(t, hash)
}

func TestDatasetCache_HasChanged(t *testing.T) {
	cache, err := NewDatasetCache(t.TempDir())
	require.NoError(t, err)

	// Empty cache counts as changed.
	changed, err := cache.HasChanged("P3961", "hash-a")
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = cache.Save(cachedDataset("hash-a", time.Now()))
	require.NoError(t, err)

	changed, err = cache.HasChanged("P3961", "hash-a")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = cache.HasChanged("P3961", "hash-b")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestDatasetCache_SubjectIsolation(t *testing.T) {
	cache, err := NewDatasetCache(t.TempDir())
	require.NoError(t, err)

	ds := cachedDataset("hash-a", time.Now())
	ds.SubjectID = "OTHER"
	_, err = cache.Save(ds)
	require.NoError(t, err)

	latest, err := cache.LoadLatest("P3961")
	require.NoError(t, err)
	assert.Nil(t, latest, "snapshots of another subject must not leak")
}
