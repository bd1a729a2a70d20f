// Package mmapfile maps a regular file into memory so that the wfs package
// can treat a disk image as a plain byte slice: every read or write it does
// goes straight through the shared mapping, with no intermediate buffering
// layer; Sync forces the mapped pages out to the file.
package mmapfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// File is an open, memory-mapped disk image.
type File struct {
	f    *os.File
	data []byte
}

// Open maps the file at path for reading and writing. The file must
// already exist and already be sized to whatever the caller intends to map
// (mkwfs maps a pre-sized image this way and refuses one that is too small).
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &File{f: f, data: data}, nil
}

// Create truncates (creating if necessary) the file at path to size bytes
// and maps it.
func Create(path string, size int64) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}

	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, err
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &File{f: f, data: data}, nil
}

// Bytes returns the mapped region backing the image.
func (mf *File) Bytes() []byte {
	return mf.data
}

// Sync flushes mapped pages back to the underlying file.
func (mf *File) Sync() error {
	return unix.Msync(mf.data, unix.MS_SYNC)
}

// Close unmaps the region and closes the underlying file.
func (mf *File) Close() error {
	errUnmap := unix.Munmap(mf.data)
	errClose := mf.f.Close()
	if errUnmap != nil {
		return errUnmap
	}
	return errClose
}
