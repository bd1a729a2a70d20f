package wfs

import (
	"bytes"
	"encoding/binary"
)

// BlockSize is the fixed unit of allocation for both inodes and data, B in
// the on-disk layout.
const BlockSize = 512

// NBlocks is the number of block-pointer slots in an inode. The last slot
// is reserved for single-indirect addressing.
const NBlocks = 8

// IndBlock is the index of the indirect block pointer, the last slot.
const IndBlock = NBlocks - 1

// PointersPerIndirect is how many block offsets fit in one indirect block.
const PointersPerIndirect = BlockSize / 8 // uint64 offsets

// MaxFileBlocks is the largest number of data blocks a regular file can
// address: IndBlock direct slots plus everything reachable through the
// indirect block.
const MaxFileBlocks = IndBlock + PointersPerIndirect

// DirentSize is the on-disk size of one directory entry.
const DirentSize = DirentNameLen + 4

// DirentsPerBlock is how many directory entries pack into one data block.
const DirentsPerBlock = BlockSize / DirentSize

// MaxDirEntries is the largest number of entries a directory can hold.
// Indirect addressing is never used for directories, so only the direct
// slots count.
const MaxDirEntries = IndBlock * DirentsPerBlock

// RoundUp32 rounds n up to the nearest multiple of 32, the granularity the
// formatter requires for both inode and data-block counts.
func RoundUp32(n uint32) uint32 {
	return (n + 31) &^ 31
}

// Superblock sits at offset 0 of the image, directly followed by the inode
// bitmap. Every offset it stores is a byte offset from the start of the image.
type Superblock struct {
	NumInodes     uint32
	NumDataBlocks uint32
	IBitmapPtr    uint64
	DBitmapPtr    uint64
	IBlocksPtr    uint64
	DBlocksPtr    uint64
}

// SuperblockSize is the on-disk size of a Superblock.
const SuperblockSize = 4 + 4 + 8 + 8 + 8 + 8

// RequiredImageSize returns the minimum image size this superblock needs.
func (sb *Superblock) RequiredImageSize() uint64 {
	return sb.DBlocksPtr + uint64(sb.NumDataBlocks)*BlockSize
}

// MarshalBinary encodes the superblock in little-endian fixed width fields.
func (sb *Superblock) MarshalBinary() []byte {
	buf := new(bytes.Buffer)
	buf.Grow(SuperblockSize)
	binary.Write(buf, binary.LittleEndian, sb)
	return buf.Bytes()
}

// UnmarshalBinary decodes a superblock from the first SuperblockSize bytes
// of data.
func (sb *Superblock) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data[:SuperblockSize])
	return binary.Read(r, binary.LittleEndian, sb)
}

// inodeAddr returns the absolute byte offset of inode i's block.
func (sb *Superblock) inodeAddr(i uint32) uint64 {
	return sb.IBlocksPtr + uint64(i)*BlockSize
}

// blockIndexOf returns the data-bitmap bit index for the block at absolute
// offset off.
func (sb *Superblock) blockIndexOf(off uint64) uint32 {
	return uint32((off - sb.DBlocksPtr) / BlockSize)
}

// blockAddr returns the absolute byte offset of data block k.
func (sb *Superblock) blockAddr(k uint32) uint64 {
	return sb.DBlocksPtr + uint64(k)*BlockSize
}
