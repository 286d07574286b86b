package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/smelt/internal/core/domain"
)

func sealedCache(t *testing.T) *domain.CacheFile {
	t.Helper()
	cf := domain.NewCacheFile()
	cf.Entries["abc"] = domain.CacheEntry{
		Version:   v(t, "0.8.19"),
		Sources:   []string{"a.sol"},
		Artifacts: domain.ArtifactSet{"a.sol": {"A": {Bytecode: "0x60"}}},
		CreatedAt: 1700000000,
	}
	cf.Files["a.sol"] = domain.FileStamp{Size: 42, MTime: 1700000000, Hash: "deadbeef"}
	require.NoError(t, cf.Seal())
	return cf
}

func TestCacheFile_SealVerify(t *testing.T) {
	cf := sealedCache(t)
	assert.Equal(t, domain.CacheFormat, cf.Format)
	assert.NotEmpty(t, cf.Checksum)
	assert.NoError(t, cf.Verify())
}

func TestCacheFile_Verify_ChecksumMismatch(t *testing.T) {
	cf := sealedCache(t)
	cf.Files["a.sol"] = domain.FileStamp{Size: 43, MTime: 1700000000, Hash: "deadbeef"}
	assert.ErrorIs(t, cf.Verify(), domain.ErrCacheCorruption)
}

func TestCacheFile_Verify_UnknownFormat(t *testing.T) {
	cf := sealedCache(t)
	cf.Format = "somebody-elses-cache-9"
	assert.ErrorIs(t, cf.Verify(), domain.ErrCacheCorruption)
}

func TestCacheFile_ChecksumStable(t *testing.T) {
	// Equal contents must checksum equally regardless of insertion order.
	a := domain.NewCacheFile()
	a.Files["x.sol"] = domain.FileStamp{Size: 1, MTime: 2, Hash: "aa"}
	a.Files["y.sol"] = domain.FileStamp{Size: 3, MTime: 4, Hash: "bb"}

	b := domain.NewCacheFile()
	b.Files["y.sol"] = domain.FileStamp{Size: 3, MTime: 4, Hash: "bb"}
	b.Files["x.sol"] = domain.FileStamp{Size: 1, MTime: 2, Hash: "aa"}

	sumA, err := a.ComputeChecksum()
	require.NoError(t, err)
	sumB, err := b.ComputeChecksum()
	require.NoError(t, err)
	assert.Equal(t, sumA, sumB)
}
