package wfs

import (
	"strings"

	wfserrors "github.com/samadasyed/filesystem/errors"
)

// splitComponents splits a path on "/", discarding empty components so that
// leading, trailing, and repeated slashes are all treated as separators
// rather than producing empty path segments.
func splitComponents(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitPath separates path into its parent directory and leaf name by
// scanning for the last "/". If none is found, the whole thing is the leaf
// and the parent is the root.
func splitPath(path string) (parent, leaf string) {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// lookupResult bundles an inode with the index it lives at, since callers
// that mutate (AddEntry, BlockFor, ...) need the index to write it back.
type lookupResult struct {
	idx   uint32
	inode RawInode
}

// Lookup resolves path to an inode, starting at the root (inode 0) and
// descending one component at a time. A missing component, or a component
// that addresses something other than a directory, both fail as
// ErrNotExist.
func (img *Image) Lookup(path string) (lookupResult, error) {
	cur := lookupResult{idx: 0, inode: img.readInode(0)}

	for _, name := range splitComponents(path) {
		if !cur.inode.isDirRaw() {
			return lookupResult{}, wfserrors.ErrNotExist.WithMessage(
				"path component is not a directory")
		}

		next, ok := img.findEntry(cur.inode, name)
		if !ok {
			return lookupResult{}, wfserrors.ErrNotExist.WithMessage(
				"no such file or directory: " + name)
		}

		cur = lookupResult{idx: next.Num, inode: img.readInode(next.Num)}
	}

	return cur, nil
}

// findEntry linear-scans parent's entries 0..nlinks-1 for name.
func (img *Image) findEntry(parent RawInode, name string) (RawDirent, bool) {
	for i := uint32(0); i < parent.Nlinks; i++ {
		d := img.direntAt(parent, i)
		if d.NameString() == name {
			return d, true
		}
	}
	return RawDirent{}, false
}

// direntAt returns the i'th directory entry of parent, addressing the
// correct direct block via parent.Blocks[i/D] and entry offset i%D.
func (img *Image) direntAt(parent RawInode, i uint32) RawDirent {
	blockOff := parent.Blocks[i/DirentsPerBlock]
	b := img.block(blockOff)
	off := (i % DirentsPerBlock) * DirentSize
	return bytesToRawDirent(b[off : off+DirentSize])
}

// setDirentAt overwrites the i'th directory entry of parent.
func (img *Image) setDirentAt(parent RawInode, i uint32, d RawDirent) {
	blockOff := parent.Blocks[i/DirentsPerBlock]
	b := img.block(blockOff)
	off := (i % DirentsPerBlock) * DirentSize
	copy(b[off:off+DirentSize], rawDirentToBytes(d))
}

func (n *RawInode) isDirRaw() bool {
	return n.Mode&ModeTypeMask == ModeDir
}
