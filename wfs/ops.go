package wfs

import (
	"encoding/binary"
	"time"

	wfserrors "github.com/samadasyed/filesystem/errors"
)

// DirEntry is what Readdir hands back to callers: just enough to build a
// directory listing without exposing RawDirent's on-disk shape.
type DirEntry struct {
	Name string
	Num  uint32
}

// Getattr resolves path and returns its inode.
func (img *Image) Getattr(path string) (RawInode, error) {
	lr, err := img.Lookup(path)
	if err != nil {
		return RawInode{}, err
	}
	return lr.inode, nil
}

// Mknod creates a regular file named by path, owned by uid/gid with the
// given permission bits.
func (img *Image) Mknod(path string, perm, uid, gid uint32, now time.Time) (uint32, error) {
	parentPath, name := splitPath(path)
	return img.AddEntry(parentPath, name, ModeReg|(perm&ModePermMask), uid, gid, now)
}

// Mkdir creates an empty directory named by path. No "." or ".." entries
// are created; the parent link is not tracked anywhere but the directory
// entry itself.
func (img *Image) Mkdir(path string, perm, uid, gid uint32, now time.Time) (uint32, error) {
	parentPath, name := splitPath(path)
	return img.AddEntry(parentPath, name, ModeDir|(perm&ModePermMask), uid, gid, now)
}

// Unlink removes the regular file at path and releases its inode and data
// blocks. Whether path actually addresses a regular file is not checked
// here — callers are expected to route directories to Rmdir instead.
func (img *Image) Unlink(path string) error {
	re, err := img.resolveEntry(path)
	if err != nil {
		return err
	}

	img.freeFileBlocks(re.childNode)
	img.freeInode(re.childIdx)
	img.RemoveEntry(re.parent, re.entryIdx)
	return nil
}

// Rmdir removes the directory at path. It does not check that the
// directory is empty before removing it: any entries it still holds become
// unreachable.
func (img *Image) Rmdir(path string) error {
	re, err := img.resolveEntry(path)
	if err != nil {
		return err
	}

	img.freeFileBlocks(re.childNode)
	img.freeInode(re.childIdx)
	img.RemoveEntry(re.parent, re.entryIdx)
	return nil
}

// freeFileBlocks releases every data block an inode owns: its direct
// blocks, and — only if it ever grew one — its indirect table along with
// every block the table points at.
func (img *Image) freeFileBlocks(inode RawInode) {
	for i := 0; i < IndBlock; i++ {
		img.freeDBlock(inode.Blocks[i])
	}

	if hasIndirectBlock(inode) {
		table := img.block(inode.Blocks[IndBlock])
		for k := 0; k < PointersPerIndirect; k++ {
			ptr := binary.LittleEndian.Uint64(table[k*8 : k*8+8])
			img.freeDBlock(ptr)
		}
		img.freeDBlock(inode.Blocks[IndBlock])
	}
}

// Read copies up to len(buf) bytes from path starting at offset, returning
// the number of bytes actually copied. Reads past end-of-file return 0,
// nil. Holes (blocks never written) read back as zeros. atim is updated and
// persisted whether or not any bytes are actually copied.
func (img *Image) Read(path string, offset int64, buf []byte, now time.Time) (int, error) {
	lr, err := img.Lookup(path)
	if err != nil {
		return 0, err
	}
	inode := lr.inode
	defer func() {
		inode.Atim = now.Unix()
		img.writeInode(lr.idx, inode)
	}()

	if offset < 0 {
		return 0, wfserrors.ErrInvalidArgument.WithMessage("negative offset")
	}
	if uint64(offset) >= inode.Size {
		return 0, nil
	}

	remaining := inode.Size - uint64(offset)
	if uint64(len(buf)) > remaining {
		buf = buf[:remaining]
	}

	n := 0
	for n < len(buf) {
		pos := uint64(offset) + uint64(n)
		j := pos / BlockSize
		inBlock := pos % BlockSize

		blockOff, err := img.BlockFor(&inode, j, false)
		if err != nil {
			return n, err
		}

		chunk := BlockSize - inBlock
		if remain := uint64(len(buf) - n); chunk > remain {
			chunk = remain
		}

		if blockOff == 0 {
			for i := uint64(0); i < chunk; i++ {
				buf[uint64(n)+i] = 0
			}
		} else {
			src := img.block(blockOff)
			copy(buf[n:uint64(n)+chunk], src[inBlock:inBlock+chunk])
		}

		n += int(chunk)
	}

	return n, nil
}

// Write copies data into path starting at offset, growing the file (and
// allocating whatever blocks are needed, including the indirect table) as
// required. It returns the number of bytes written; a short write comes with
// ErrNoSpace, because the image ran out of data blocks or the file reached
// MaxFileBlocks partway through.
func (img *Image) Write(path string, offset int64, data []byte, now time.Time) (int, error) {
	lr, err := img.Lookup(path)
	if err != nil {
		return 0, err
	}
	inode := lr.inode

	if offset < 0 {
		return 0, wfserrors.ErrInvalidArgument.WithMessage("negative offset")
	}

	n := 0
	var allocErr error
	for n < len(data) {
		pos := uint64(offset) + uint64(n)
		j := pos / BlockSize
		inBlock := pos % BlockSize

		blockOff, err := img.BlockFor(&inode, j, true)
		if err != nil {
			allocErr = err
			break
		}

		chunk := BlockSize - inBlock
		if remain := uint64(len(data) - n); chunk > remain {
			chunk = remain
		}

		dst := img.block(blockOff)
		copy(dst[inBlock:inBlock+chunk], data[n:uint64(n)+chunk])

		n += int(chunk)
	}

	if end := uint64(offset) + uint64(n); end > inode.Size {
		inode.Size = end
	}
	inode.Mtim = now.Unix()
	inode.Ctim = now.Unix()
	img.writeInode(lr.idx, inode)

	return n, allocErr
}

// Readdir lists the entries of the directory at path.
func (img *Image) Readdir(path string) ([]DirEntry, error) {
	lr, err := img.Lookup(path)
	if err != nil {
		return nil, err
	}
	if !lr.inode.isDirRaw() {
		return nil, wfserrors.ErrNotExist.WithMessage("not a directory")
	}

	entries := make([]DirEntry, 0, lr.inode.Nlinks)
	for i := uint32(0); i < lr.inode.Nlinks; i++ {
		d := img.direntAt(lr.inode, i)
		entries = append(entries, DirEntry{Name: d.NameString(), Num: d.Num})
	}
	return entries, nil
}
