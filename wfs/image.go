package wfs

import (
	"fmt"

	wfserrors "github.com/samadasyed/filesystem/errors"
)

// Image is a mapped disk image: a superblock parsed once at open time, plus
// the raw bytes backing everything else (bitmaps, inode table, data
// region). There is no shadow state — every read and write goes straight to
// data, so whatever maps data into memory (see internal/mmapfile) is the
// only thing standing between this type and the file on disk.
type Image struct {
	data []byte
	sb   Superblock
}

// Open parses the superblock at the start of data and returns an Image
// backed by it. data must already be sized to hold the full image described
// by the superblock; Open does not copy it.
func Open(data []byte) (*Image, error) {
	if len(data) < SuperblockSize {
		return nil, wfserrors.ErrInvalidArgument.WithMessage("image too small for a superblock")
	}

	img := &Image{data: data}
	if err := img.sb.UnmarshalBinary(data); err != nil {
		return nil, wfserrors.ErrInvalidArgument.WithMessage("corrupt superblock: " + err.Error())
	}

	required := img.sb.RequiredImageSize()
	if uint64(len(data)) < required {
		return nil, wfserrors.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("image is %d bytes, layout requires %d", len(data), required))
	}

	return img, nil
}

// Superblock returns a copy of the image's parsed superblock.
func (img *Image) Superblock() Superblock {
	return img.sb
}

// readInode decodes the inode at index i from the inode table.
func (img *Image) readInode(i uint32) RawInode {
	addr := img.sb.inodeAddr(i)
	return bytesToRawInode(img.data[addr : addr+BlockSize])
}

// writeInode encodes raw into the inode table slot i.
func (img *Image) writeInode(i uint32, raw RawInode) {
	addr := img.sb.inodeAddr(i)
	copy(img.data[addr:addr+BlockSize], rawInodeToBytes(raw))
}

// block returns the BlockSize-byte window at absolute offset off.
func (img *Image) block(off uint64) []byte {
	return img.data[off : off+BlockSize]
}
