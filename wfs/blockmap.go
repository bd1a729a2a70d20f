package wfs

import (
	"encoding/binary"

	wfserrors "github.com/samadasyed/filesystem/errors"
)

// BlockFor resolves the j'th logical block of inode to an absolute byte
// offset in the image.
//
// Blocks 0..IndBlock-1 are direct, addressed straight out of inode.Blocks.
// Block IndBlock onward are addressed through the single indirect block at
// inode.Blocks[IndBlock], which holds PointersPerIndirect further uint64
// offsets.
//
// When grow is false, a hole (an unallocated block the file hasn't written
// yet) resolves to offset 0 with no error — callers reading a hole should
// treat it as a block of zeros. When grow is true, holes are filled by
// allocating a fresh data block (and, the first time block IndBlock is
// touched, the indirect table block itself), mutating inode in place; the
// caller is responsible for persisting inode afterward.
func (img *Image) BlockFor(inode *RawInode, j uint64, grow bool) (uint64, error) {
	if j >= MaxFileBlocks {
		return 0, wfserrors.ErrNoSpace.WithMessage("file has reached its maximum size")
	}

	if j < IndBlock {
		return img.resolveDirect(inode, uint32(j), grow)
	}

	return img.resolveIndirect(inode, j-IndBlock, grow)
}

func (img *Image) resolveDirect(inode *RawInode, j uint32, grow bool) (uint64, error) {
	if inode.Blocks[j] != 0 {
		return inode.Blocks[j], nil
	}
	if !grow {
		return 0, nil
	}

	off := img.allocDBlock()
	if off == 0 {
		return 0, wfserrors.ErrNoSpace.WithMessage("no free data block")
	}
	inode.Blocks[j] = off
	return off, nil
}

func (img *Image) resolveIndirect(inode *RawInode, k uint64, grow bool) (uint64, error) {
	indOff := inode.Blocks[IndBlock]
	if indOff == 0 {
		if !grow {
			return 0, nil
		}
		off := img.allocDBlock()
		if off == 0 {
			return 0, wfserrors.ErrNoSpace.WithMessage("no free data block for indirect table")
		}
		indOff = off
		inode.Blocks[IndBlock] = indOff
		clear(img.block(indOff))
	}

	table := img.block(indOff)
	ptr := binary.LittleEndian.Uint64(table[k*8 : k*8+8])
	if ptr != 0 {
		return ptr, nil
	}
	if !grow {
		return 0, nil
	}

	off := img.allocDBlock()
	if off == 0 {
		return 0, wfserrors.ErrNoSpace.WithMessage("no free data block")
	}
	binary.LittleEndian.PutUint64(table[k*8:k*8+8], off)
	return off, nil
}

// hasIndirectBlock reports whether inode has ever grown into the indirect
// table, used by unlink to decide whether to free that table block.
func hasIndirectBlock(inode RawInode) bool {
	return inode.Blocks[IndBlock] != 0
}
