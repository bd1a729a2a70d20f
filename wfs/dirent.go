package wfs

import (
	"bytes"
	"encoding/binary"
	"fmt"

	wfserrors "github.com/samadasyed/filesystem/errors"
)

func errNameTooLong(name string) error {
	return wfserrors.ErrInvalidArgument.WithMessage(
		fmt.Sprintf("name %q exceeds %d bytes", name, DirentNameLen-1))
}

// DirentNameLen is the fixed width of a directory entry's name field.
const DirentNameLen = 28

// RawDirent is the on-disk representation of a directory entry: a bounded
// name and an inode index. D = BlockSize / DirentSize of these pack into
// one block.
type RawDirent struct {
	Name [DirentNameLen]byte
	Num  uint32
}

func newRawDirent(name string, num uint32) (RawDirent, error) {
	if len(name) >= DirentNameLen {
		return RawDirent{}, errNameTooLong(name)
	}
	var d RawDirent
	copy(d.Name[:], name)
	d.Num = num
	return d, nil
}

// NameString returns the entry's name, trimmed at the first NUL.
func (d *RawDirent) NameString() string {
	n := bytes.IndexByte(d.Name[:], 0)
	if n < 0 {
		n = len(d.Name)
	}
	return string(d.Name[:n])
}

func bytesToRawDirent(data []byte) RawDirent {
	var d RawDirent
	binary.Read(bytes.NewReader(data), binary.LittleEndian, &d)
	return d
}

func rawDirentToBytes(d RawDirent) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, &d)
	return buf.Bytes()
}
