package wfs

import (
	"bytes"
	"encoding/binary"
	"time"
)

// Mode bits. Only the two file types this format supports are defined;
// symlinks, devices, sockets, and fifos are Non-goals.
const (
	ModeDir uint32 = 0o040000
	ModeReg uint32 = 0o100000

	ModeTypeMask = 0o170000
	ModePermMask = 0o007777
)

// RawInode is the on-disk representation of an inode. It occupies one full
// block; the remainder of the block is unused padding.
type RawInode struct {
	Num    uint32
	Uid    uint32
	Gid    uint32
	Mode   uint32
	Size   uint64
	Nlinks uint32
	Atim   int64
	Mtim   int64
	Ctim   int64
	Blocks [NBlocks]uint64
}

// Inode is the in-memory view of a RawInode, decoded for convenience.
type Inode struct {
	Num    uint32
	Uid    uint32
	Gid    uint32
	Mode   uint32
	Size   uint64
	Nlinks uint32
	Atim   time.Time
	Mtim   time.Time
	Ctim   time.Time
	Blocks [NBlocks]uint64
}

// IsDir reports whether the inode is a directory.
func (n *Inode) IsDir() bool {
	return n.Mode&ModeTypeMask == ModeDir
}

// IsRegular reports whether the inode is a regular file.
func (n *Inode) IsRegular() bool {
	return n.Mode&ModeTypeMask == ModeReg
}

func rawInodeToInode(raw RawInode) Inode {
	return Inode{
		Num:    raw.Num,
		Uid:    raw.Uid,
		Gid:    raw.Gid,
		Mode:   raw.Mode,
		Size:   raw.Size,
		Nlinks: raw.Nlinks,
		Atim:   time.Unix(raw.Atim, 0),
		Mtim:   time.Unix(raw.Mtim, 0),
		Ctim:   time.Unix(raw.Ctim, 0),
		Blocks: raw.Blocks,
	}
}

func inodeToRawInode(n Inode) RawInode {
	return RawInode{
		Num:    n.Num,
		Uid:    n.Uid,
		Gid:    n.Gid,
		Mode:   n.Mode,
		Size:   n.Size,
		Nlinks: n.Nlinks,
		Atim:   n.Atim.Unix(),
		Mtim:   n.Mtim.Unix(),
		Ctim:   n.Ctim.Unix(),
		Blocks: n.Blocks,
	}
}

func bytesToRawInode(data []byte) RawInode {
	var raw RawInode
	binary.Read(bytes.NewReader(data), binary.LittleEndian, &raw)
	return raw
}

func rawInodeToBytes(raw RawInode) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, &raw)
	return buf.Bytes()
}
