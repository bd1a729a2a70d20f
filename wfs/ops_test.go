package wfs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetattrRoot(t *testing.T) {
	img := newTestImage(t, 32, 32)

	raw, err := img.Getattr("/")
	require.NoError(t, err)
	assert.True(t, raw.isDirRaw())
}

func TestMknodThenWriteThenRead(t *testing.T) {
	img := newTestImage(t, 32, 32)

	_, err := img.Mknod("/greeting", 0o644, 0, 0, time.Now())
	require.NoError(t, err)

	n, err := img.Write("/greeting", 0, []byte("hello, wfs"), time.Now())
	require.NoError(t, err)
	assert.Equal(t, len("hello, wfs"), n)

	buf := make([]byte, 64)
	nRead, err := img.Read("/greeting", 0, buf, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "hello, wfs", string(buf[:nRead]))
}

func TestReadUpdatesAtim(t *testing.T) {
	img := newTestImage(t, 32, 32)

	_, err := img.Mknod("/f", 0o644, 0, 0, time.Unix(1000, 0))
	require.NoError(t, err)
	_, err = img.Write("/f", 0, []byte("data"), time.Unix(1000, 0))
	require.NoError(t, err)

	buf := make([]byte, 8)
	_, err = img.Read("/f", 0, buf, time.Unix(5000, 0))
	require.NoError(t, err)

	raw, err := img.Getattr("/f")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), raw.Atim)
}

func TestWriteAcrossMultipleBlocksAndIndirect(t *testing.T) {
	img := newTestImage(t, 32, 128)

	_, err := img.Mknod("/big", 0o644, 0, 0, time.Now())
	require.NoError(t, err)

	data := make([]byte, BlockSize*(IndBlock+3))
	for i := range data {
		data[i] = byte(i % 251)
	}

	n, err := img.Write("/big", 0, data, time.Now())
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	readBack := make([]byte, len(data))
	nRead, err := img.Read("/big", 0, readBack, time.Now())
	require.NoError(t, err)
	assert.Equal(t, len(data), nRead)
	assert.Equal(t, data, readBack)
}

func TestReadPastEOFReturnsZero(t *testing.T) {
	img := newTestImage(t, 32, 32)

	_, err := img.Mknod("/f", 0o644, 0, 0, time.Now())
	require.NoError(t, err)
	_, err = img.Write("/f", 0, []byte("abc"), time.Now())
	require.NoError(t, err)

	buf := make([]byte, 10)
	n, err := img.Read("/f", 100, buf, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestWriteUpdatesMtimAndCtim(t *testing.T) {
	img := newTestImage(t, 32, 32)

	_, err := img.Mknod("/f", 0o644, 0, 0, time.Unix(1000, 0))
	require.NoError(t, err)

	_, err = img.Write("/f", 0, []byte("data"), time.Unix(9000, 0))
	require.NoError(t, err)

	raw, err := img.Getattr("/f")
	require.NoError(t, err)
	assert.Equal(t, int64(9000), raw.Mtim)
	assert.Equal(t, int64(9000), raw.Ctim)
}

func TestWriteReturnsNoSpaceWithPartialWritePersisted(t *testing.T) {
	img := newTestImage(t, 32, 32)

	_, err := img.Mknod("/f", 0o644, 0, 0, time.Now())
	require.NoError(t, err)

	// Exhaust every data block except one so the write below can only
	// complete its first block before running out of space.
	var reserved []uint64
	for {
		off := img.allocDBlock()
		if off == 0 {
			break
		}
		reserved = append(reserved, off)
	}
	img.freeDBlock(reserved[len(reserved)-1])

	data := make([]byte, BlockSize*3)
	n, err := img.Write("/f", 0, data, time.Now())
	assert.Error(t, err)
	assert.Equal(t, BlockSize, n)

	raw, err := img.Getattr("/f")
	require.NoError(t, err)
	assert.Equal(t, uint64(n), raw.Size)
}

func TestReadHoleReturnsZeros(t *testing.T) {
	img := newTestImage(t, 32, 128)

	_, err := img.Mknod("/sparse", 0o644, 0, 0, time.Now())
	require.NoError(t, err)

	// Write only into the second block, creating a hole in the first.
	_, err = img.Write("/sparse", BlockSize, []byte("tail"), time.Now())
	require.NoError(t, err)

	buf := make([]byte, BlockSize)
	n, err := img.Read("/sparse", 0, buf, time.Now())
	require.NoError(t, err)
	assert.Equal(t, BlockSize, n)
	for _, b := range buf {
		assert.Equal(t, byte(0), b)
	}
}

func TestMkdirThenReaddir(t *testing.T) {
	img := newTestImage(t, 32, 32)

	_, err := img.Mkdir("/sub", 0o755, 0, 0, time.Now())
	require.NoError(t, err)
	_, err = img.Mknod("/sub/file", 0o644, 0, 0, time.Now())
	require.NoError(t, err)

	entries, err := img.Readdir("/sub")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "file", entries[0].Name)
}

func TestUnlinkFreesInodeAndBlocks(t *testing.T) {
	img := newTestImage(t, 32, 32)

	_, err := img.Mknod("/f", 0o644, 0, 0, time.Now())
	require.NoError(t, err)
	_, err = img.Write("/f", 0, []byte("data"), time.Now())
	require.NoError(t, err)

	require.NoError(t, img.Unlink("/f"))

	_, err = img.Lookup("/f")
	assert.Error(t, err)
}

func TestRmdirDoesNotCheckEmptiness(t *testing.T) {
	img := newTestImage(t, 32, 32)

	_, err := img.Mkdir("/sub", 0o755, 0, 0, time.Now())
	require.NoError(t, err)
	_, err = img.Mknod("/sub/file", 0o644, 0, 0, time.Now())
	require.NoError(t, err)

	// Removing a non-empty directory is allowed; its contents simply become
	// unreachable.
	require.NoError(t, img.Rmdir("/sub"))

	_, err = img.Lookup("/sub")
	assert.Error(t, err)
}
