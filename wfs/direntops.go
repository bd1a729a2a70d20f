package wfs

import (
	"time"

	wfserrors "github.com/samadasyed/filesystem/errors"
)

// AddEntry creates a new directory entry named name inside the directory at
// parentPath, backed by a freshly allocated inode with the given mode and
// owner. It returns the new inode's index.
//
// No duplicate-name check is performed: callers must not create colliding
// names.
func (img *Image) AddEntry(parentPath, name string, mode, uid, gid uint32, now time.Time) (uint32, error) {
	parent, err := img.Lookup(parentPath)
	if err != nil {
		return 0, err
	}
	if !parent.inode.isDirRaw() {
		return 0, wfserrors.ErrNotExist.WithMessage("parent is not a directory")
	}

	if parent.inode.Nlinks >= MaxDirEntries {
		return 0, wfserrors.ErrNoSpace.WithMessage("directory is full")
	}

	if parent.inode.Nlinks%DirentsPerBlock == 0 {
		blockAddr := img.allocDBlock()
		if blockAddr == 0 {
			return 0, wfserrors.ErrNoSpace.WithMessage("no free data block for directory growth")
		}
		parent.inode.Blocks[parent.inode.Nlinks/DirentsPerBlock] = blockAddr
		parent.inode.Size += BlockSize
	}

	dirent, err := newRawDirent(name, 0)
	if err != nil {
		// The data block allocated above (if any) is not released here.
		return 0, err
	}

	newIdx := img.allocInode()
	if newIdx == 0 {
		// Same leak: the directory-extension block above may already be
		// committed to parent.inode.Blocks at this point.
		return 0, wfserrors.ErrNoSpace.WithMessage("no free inode")
	}
	dirent.Num = newIdx
	img.setDirentAt(parent.inode, parent.inode.Nlinks, dirent)

	parent.inode.Nlinks++
	img.writeInode(parent.idx, parent.inode)

	img.writeInode(newIdx, RawInode{
		Uid:    uid,
		Gid:    gid,
		Mode:   mode,
		Size:   0,
		Nlinks: 0,
		Atim:   now.Unix(),
		Mtim:   now.Unix(),
		Ctim:   now.Unix(),
	})

	return newIdx, nil
}

// findEntryIndex is like findEntry but also returns the slot index, needed
// by removal to perform the swap-with-last.
func (img *Image) findEntryIndex(parent RawInode, name string) (uint32, RawDirent, bool) {
	for i := uint32(0); i < parent.Nlinks; i++ {
		d := img.direntAt(parent, i)
		if d.NameString() == name {
			return i, d, true
		}
	}
	return 0, RawDirent{}, false
}

// resolvedEntry is what removal operations need: the parent directory, the
// target entry's slot, and the child it points to.
type resolvedEntry struct {
	parent    lookupResult
	entryIdx  uint32
	entry     RawDirent
	childIdx  uint32
	childNode RawInode
}

// resolveEntry splits path into parent and leaf, resolves the parent, and
// finds the leaf's directory entry.
func (img *Image) resolveEntry(path string) (resolvedEntry, error) {
	parentPath, leaf := splitPath(path)

	parent, err := img.Lookup(parentPath)
	if err != nil {
		return resolvedEntry{}, err
	}
	if !parent.inode.isDirRaw() {
		return resolvedEntry{}, wfserrors.ErrNotExist.WithMessage("parent is not a directory")
	}

	idx, entry, ok := img.findEntryIndex(parent.inode, leaf)
	if !ok {
		return resolvedEntry{}, wfserrors.ErrNotExist.WithMessage("no such file or directory: " + leaf)
	}

	return resolvedEntry{
		parent:    parent,
		entryIdx:  idx,
		entry:     entry,
		childIdx:  entry.Num,
		childNode: img.readInode(entry.Num),
	}, nil
}

// RemoveEntry removes the directory entry at parent.inode's slot idx by
// swapping the last entry into its place and shrinking nlinks by one —
// "swap with last, then shrink". This keeps entries contiguous without
// shifting the rest down, at the cost of not preserving iteration order
// across a removal. The target inode's bitmap bit must already be cleared
// by the caller before calling this (Unlink/Rmdir do so after freeing the
// inode's data blocks).
func (img *Image) RemoveEntry(parent lookupResult, idx uint32) {
	p := parent.inode
	last := p.Nlinks - 1

	if last != idx {
		repl := img.direntAt(p, last)
		img.setDirentAt(p, idx, repl)
	}

	if last%DirentsPerBlock == 0 && last > 0 {
		img.freeDBlock(p.Blocks[last/DirentsPerBlock])
		p.Blocks[last/DirentsPerBlock] = 0
	}

	p.Nlinks--
	img.writeInode(parent.idx, p)
}
