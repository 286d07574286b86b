package cache_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/smelt/internal/adapters/logger"
	"go.trai.ch/smelt/internal/core/domain"
	"go.trai.ch/smelt/internal/core/ports/mocks"
	"go.trai.ch/smelt/internal/engine/cache"
	"go.uber.org/mock/gomock"
)

type fakeReader struct {
	files  map[string]string
	primed map[string]domain.FileStamp
	reads  []string
}

func (r *fakeReader) Read(path string) ([]byte, error) {
	r.reads = append(r.reads, path)
	return []byte(r.files[path]), nil
}

func (r *fakeReader) Hash(path string) (string, error) {
	return domain.HashContent([]byte(r.files[path])), nil
}

func (r *fakeReader) Prime(stamps map[string]domain.FileStamp) { r.primed = stamps }

func (r *fakeReader) Stamps() map[string]domain.FileStamp { return nil }

func quietLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, slog.LevelError)
}

func testVersion(t *testing.T) domain.Version {
	t.Helper()
	v, err := domain.ParseVersion("0.8.19")
	require.NoError(t, err)
	return v
}

func testJob(t *testing.T, content string) domain.Job {
	t.Helper()
	return domain.Job{
		Version: testVersion(t),
		Sources: []domain.SourceFile{
			{Path: "a.sol", Hash: domain.HashContent([]byte(content))},
		},
	}
}

func TestSnapshot_CollectsStaleEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	persisted := domain.NewCacheFile()
	persisted.Entries["live"] = domain.CacheEntry{Sources: []string{"a.sol"}}
	persisted.Entries["stale"] = domain.CacheEntry{Sources: []string{"a.sol", "deleted.sol"}}
	persisted.Files["a.sol"] = domain.FileStamp{Size: 1, MTime: 2, Hash: "aa"}
	persisted.Files["deleted.sol"] = domain.FileStamp{Size: 3, MTime: 4, Hash: "bb"}

	store := mocks.NewMockCacheStore(ctrl)
	store.EXPECT().Load(gomock.Any()).Return(persisted, nil)

	reader := &fakeReader{}
	engine := cache.NewEngine(store, reader, quietLogger())
	snap := engine.Snapshot(context.Background(), []string{"a.sol"})

	assert.Contains(t, snap.Entries, "live")
	assert.NotContains(t, snap.Entries, "stale")
	assert.NotContains(t, snap.Files, "deleted.sol")

	// Surviving stamps prime the reader's stat fast path.
	require.NotNil(t, reader.primed)
	assert.Contains(t, reader.primed, "a.sol")
}

func TestSnapshot_CorruptCacheDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockCacheStore(ctrl)
	store.EXPECT().Load(gomock.Any()).Return(nil, domain.ErrCacheCorruption)

	engine := cache.NewEngine(store, &fakeReader{}, quietLogger())
	snap := engine.Snapshot(context.Background(), []string{"a.sol"})
	require.NotNil(t, snap)
	assert.Empty(t, snap.Entries)
}

func TestPartition(t *testing.T) {
	hit := testJob(t, "contract A {}")
	fp, err := hit.Fingerprint()
	require.NoError(t, err)

	snap := domain.NewCacheFile()
	snap.Entries[fp.String()] = domain.CacheEntry{
		Version: testVersion(t),
		Sources: []string{"a.sol"},
	}

	miss := testJob(t, "contract A { uint x; }")

	engine := cache.NewEngine(nil, &fakeReader{}, quietLogger())
	plan, err := engine.Partition(snap, []domain.Job{hit, miss})
	require.NoError(t, err)

	require.Len(t, plan.Hits(), 1)
	require.Len(t, plan.Dirty(), 1)
	assert.Equal(t, fp, plan.Hits()[0].Fingerprint)
	assert.NotNil(t, plan.Hits()[0].Cached)
	assert.Nil(t, plan.Dirty()[0].Cached)
}

func TestPartition_SettingsChangeMisses(t *testing.T) {
	job := testJob(t, "contract A {}")
	fp, err := job.Fingerprint()
	require.NoError(t, err)

	snap := domain.NewCacheFile()
	snap.Entries[fp.String()] = domain.CacheEntry{Sources: []string{"a.sol"}}

	// Same sources, different optimizer settings: must not hit.
	job.Settings.Optimizer = domain.Optimizer{Enabled: true, Runs: 200}

	engine := cache.NewEngine(nil, &fakeReader{}, quietLogger())
	plan, err := engine.Partition(snap, []domain.Job{job})
	require.NoError(t, err)
	assert.Empty(t, plan.Hits())
	assert.Len(t, plan.Dirty(), 1)
}

func TestHydrate_ReadsDirtyOnly(t *testing.T) {
	hit := testJob(t, "cached")
	fp, err := hit.Fingerprint()
	require.NoError(t, err)

	snap := domain.NewCacheFile()
	snap.Entries[fp.String()] = domain.CacheEntry{Sources: []string{"a.sol"}}

	dirty := domain.Job{
		Version: testVersion(t),
		Sources: []domain.SourceFile{
			{Path: "b.sol", Hash: domain.HashContent([]byte("contract B {}"))},
		},
	}

	reader := &fakeReader{files: map[string]string{
		"a.sol": "cached",
		"b.sol": "contract B {}",
	}}
	engine := cache.NewEngine(nil, reader, quietLogger())

	plan, err := engine.Partition(snap, []domain.Job{hit, dirty})
	require.NoError(t, err)
	require.NoError(t, engine.Hydrate(plan))

	assert.Equal(t, []string{"b.sol"}, reader.reads)
	assert.True(t, plan.Dirty()[0].Job.Hydrated())
}
