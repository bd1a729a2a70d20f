// Package fusefs adapts the wfs package's path-based operations onto
// hanwen/go-fuse/v2's node tree API, translating wfs's sentinel errors into
// the syscall.Errno values FUSE expects.
package fusefs

import (
	"context"
	goerrors "errors"
	"syscall"
	"time"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	wfserrors "github.com/samadasyed/filesystem/errors"
	"github.com/samadasyed/filesystem/wfs"
)

// Root builds the root node of the FUSE tree backed by img.
func Root(img *wfs.Image) fs.InodeEmbedder {
	return &Node{img: img, path: "/"}
}

// Node is one FUSE node, identified by the path it resolves to within img.
// Nothing about a node is cached: every operation re-resolves path against
// the image, matching the image's own no-shadow-state design.
type Node struct {
	fs.Inode

	img  *wfs.Image
	path string
}

var (
	_ fs.NodeLookuper  = (*Node)(nil)
	_ fs.NodeGetattrer = (*Node)(nil)
	_ fs.NodeCreater   = (*Node)(nil)
	_ fs.NodeMkdirer   = (*Node)(nil)
	_ fs.NodeUnlinker  = (*Node)(nil)
	_ fs.NodeRmdirer   = (*Node)(nil)
	_ fs.NodeReaddirer = (*Node)(nil)
	_ fs.NodeReader    = (*Node)(nil)
	_ fs.NodeWriter    = (*Node)(nil)
)

func toErrno(err error) syscall.Errno {
	if err == nil {
		return 0
	}
	switch {
	case goerrors.Is(err, wfserrors.ErrNotExist):
		return syscall.ENOENT
	case goerrors.Is(err, wfserrors.ErrNoSpace):
		return syscall.ENOSPC
	case goerrors.Is(err, wfserrors.ErrInvalidArgument):
		return syscall.EINVAL
	default:
		return syscall.EIO
	}
}

func childPath(parent string, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}

func fillAttr(out *fuse.Attr, raw wfs.RawInode) {
	out.Ino = uint64(raw.Num)
	out.Size = raw.Size
	out.Blocks = (raw.Size + wfs.BlockSize - 1) / wfs.BlockSize
	out.Mode = raw.Mode
	out.Nlink = 1
	out.Uid = raw.Uid
	out.Gid = raw.Gid
	out.Atime = uint64(raw.Atim)
	out.Mtime = uint64(raw.Mtim)
	out.Ctime = uint64(raw.Ctim)
}

// Lookup resolves name within this node's directory.
func (n *Node) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	childPath := childPath(n.path, name)
	raw, err := n.img.Getattr(childPath)
	if err != nil {
		return nil, toErrno(err)
	}

	fillAttr(&out.Attr, raw)

	mode := uint32(syscall.S_IFREG)
	if raw.Mode&wfs.ModeTypeMask == wfs.ModeDir {
		mode = syscall.S_IFDIR
	}

	child := n.NewInode(ctx, &Node{img: n.img, path: childPath}, fs.StableAttr{
		Mode: mode,
		Ino:  uint64(raw.Num),
	})
	return child, 0
}

// Getattr fills out with this node's current inode state.
func (n *Node) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	raw, err := n.img.Getattr(n.path)
	if err != nil {
		return toErrno(err)
	}
	fillAttr(&out.Attr, raw)
	return 0
}

// Create makes a new regular file named name in this directory, owned by
// root: the image format has no concept of a creating process's identity
// beyond what the caller supplies, and FUSE's low-level Context plumbing is
// outside this package's scope.
func (n *Node) Create(ctx context.Context, name string, flags uint32, mode uint32, out *fuse.EntryOut) (*fs.Inode, fs.FileHandle, uint32, syscall.Errno) {
	childPath := childPath(n.path, name)

	newIdx, err := n.img.Mknod(childPath, mode&0o7777, 0, 0, time.Now())
	if err != nil {
		return nil, nil, 0, toErrno(err)
	}

	raw, err := n.img.Getattr(childPath)
	if err != nil {
		return nil, nil, 0, toErrno(err)
	}
	fillAttr(&out.Attr, raw)

	child := n.NewInode(ctx, &Node{img: n.img, path: childPath}, fs.StableAttr{
		Mode: syscall.S_IFREG,
		Ino:  uint64(newIdx),
	})
	return child, nil, 0, 0
}

// Mkdir makes a new directory named name in this directory.
func (n *Node) Mkdir(ctx context.Context, name string, mode uint32, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	childPath := childPath(n.path, name)

	newIdx, err := n.img.Mkdir(childPath, mode&0o7777, 0, 0, time.Now())
	if err != nil {
		return nil, toErrno(err)
	}

	raw, err := n.img.Getattr(childPath)
	if err != nil {
		return nil, toErrno(err)
	}
	fillAttr(&out.Attr, raw)

	child := n.NewInode(ctx, &Node{img: n.img, path: childPath}, fs.StableAttr{
		Mode: syscall.S_IFDIR,
		Ino:  uint64(newIdx),
	})
	return child, 0
}

// Unlink removes the regular file named name from this directory.
func (n *Node) Unlink(ctx context.Context, name string) syscall.Errno {
	return toErrno(n.img.Unlink(childPath(n.path, name)))
}

// Rmdir removes the (not necessarily empty) directory named name from this
// directory.
func (n *Node) Rmdir(ctx context.Context, name string) syscall.Errno {
	return toErrno(n.img.Rmdir(childPath(n.path, name)))
}

// Readdir lists this directory's entries.
func (n *Node) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	entries, err := n.img.Readdir(n.path)
	if err != nil {
		return nil, toErrno(err)
	}

	out := make([]fuse.DirEntry, 0, len(entries))
	for _, e := range entries {
		child, err := n.img.Getattr(childPath(n.path, e.Name))
		mode := uint32(syscall.S_IFREG)
		if err == nil && child.Mode&wfs.ModeTypeMask == wfs.ModeDir {
			mode = syscall.S_IFDIR
		}
		out = append(out, fuse.DirEntry{Name: e.Name, Ino: uint64(e.Num), Mode: mode})
	}
	return fs.NewListDirStream(out), 0
}

// Read copies data out of this file starting at off.
func (n *Node) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	nRead, err := n.img.Read(n.path, off, dest, time.Now())
	if err != nil {
		return nil, toErrno(err)
	}
	return fuse.ReadResultData(dest[:nRead]), 0
}

// Write copies data into this file starting at off.
func (n *Node) Write(ctx context.Context, f fs.FileHandle, data []byte, off int64) (uint32, syscall.Errno) {
	written, err := n.img.Write(n.path, off, data, time.Now())
	if err != nil {
		return uint32(written), toErrno(err)
	}
	return uint32(written), 0
}
