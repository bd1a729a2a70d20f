package wfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockForDirectNoGrowReturnsHole(t *testing.T) {
	img := newTestImage(t, 32, 32)
	var inode RawInode

	off, err := img.BlockFor(&inode, 0, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), off)
}

func TestBlockForDirectGrowAllocates(t *testing.T) {
	img := newTestImage(t, 32, 32)
	var inode RawInode

	off, err := img.BlockFor(&inode, 0, true)
	require.NoError(t, err)
	assert.NotZero(t, off)
	assert.Equal(t, off, inode.Blocks[0])

	// Resolving again without growth returns the same block.
	again, err := img.BlockFor(&inode, 0, false)
	require.NoError(t, err)
	assert.Equal(t, off, again)
}

func TestBlockForIndirectAllocatesTableOnFirstCrossing(t *testing.T) {
	img := newTestImage(t, 32, 80)
	var inode RawInode

	off, err := img.BlockFor(&inode, IndBlock, true)
	require.NoError(t, err)
	assert.NotZero(t, off)
	assert.NotZero(t, inode.Blocks[IndBlock])
	assert.True(t, hasIndirectBlock(inode))
}

func TestBlockForIndirectSecondPointerReusesTable(t *testing.T) {
	img := newTestImage(t, 32, 80)
	var inode RawInode

	off1, err := img.BlockFor(&inode, IndBlock, true)
	require.NoError(t, err)

	tableOff := inode.Blocks[IndBlock]

	off2, err := img.BlockFor(&inode, IndBlock+1, true)
	require.NoError(t, err)

	assert.Equal(t, tableOff, inode.Blocks[IndBlock], "table block must not move")
	assert.NotEqual(t, off1, off2)
}

func TestBlockForBeyondMaxFails(t *testing.T) {
	img := newTestImage(t, 32, 32)
	var inode RawInode

	_, err := img.BlockFor(&inode, MaxFileBlocks, true)
	assert.Error(t, err)
}

func TestBlockForFailsWhenOutOfDataBlocks(t *testing.T) {
	img := newTestImage(t, 32, 32)
	var inode RawInode

	// Exhaust every data block first.
	for img.allocDBlock() != 0 {
	}

	_, err := img.BlockFor(&inode, 0, true)
	assert.Error(t, err)
}
