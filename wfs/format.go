package wfs

import (
	"time"

	wfserrors "github.com/samadasyed/filesystem/errors"
)

// Format lays out a fresh filesystem across data: superblock, inode bitmap,
// data bitmap, inode table, data region, in that order, then carves out the
// root directory as inode 0.
//
// numInodes and numDataBlocks are rounded up to the nearest multiple of 32
// (bitmaps are addressed a byte at a time, and a byte holds 8 bits, but
// rounding to 32 keeps both bitmaps ending on a 4-byte boundary). data must
// already be at least as large as the resulting
// layout requires; Format never grows it.
func Format(data []byte, numInodes, numDataBlocks uint32, uid, gid uint32, now time.Time) (*Superblock, error) {
	numInodes = RoundUp32(numInodes)
	numDataBlocks = RoundUp32(numDataBlocks)

	sb := Superblock{
		NumInodes:     numInodes,
		NumDataBlocks: numDataBlocks,
	}

	sb.IBitmapPtr = SuperblockSize
	sb.DBitmapPtr = sb.IBitmapPtr + uint64(numInodes)/8
	sb.IBlocksPtr = sb.DBitmapPtr + uint64(numDataBlocks)/8
	sb.DBlocksPtr = sb.IBlocksPtr + uint64(numInodes)*BlockSize

	required := sb.RequiredImageSize()
	if uint64(len(data)) < required {
		return nil, wfserrors.ErrInvalidArgument.WithMessage(
			"image too small for requested inode and block counts")
	}

	copy(data[:SuperblockSize], sb.MarshalBinary())

	img := &Image{data: data, sb: sb}

	ibm := img.inodeBitmap()
	for i := range ibm {
		ibm[i] = 0
	}
	dbm := img.dataBitmap()
	for i := range dbm {
		dbm[i] = 0
	}

	// Inode 0 is the root directory and is permanently allocated: besides
	// being the filesystem's entry point, its bit doubles as the "is this
	// actually free" sentinel allocInode returns on exhaustion, so it must
	// never be freed.
	ibm.Set(0, true)

	root := RawInode{
		Num:    0,
		Uid:    uid,
		Gid:    gid,
		Mode:   ModeDir | 0o755,
		Size:   0,
		Nlinks: 0,
		Atim:   now.Unix(),
		Mtim:   now.Unix(),
		Ctim:   now.Unix(),
	}
	img.writeInode(0, root)

	return &sb, nil
}
