/*
Package wfs implements a small Unix-style filesystem persisted as a
fixed-size disk image: a superblock, an inode bitmap, a data-block bitmap,
an inode table, and a data region, in that order.

This package holds the on-disk format and the algorithms that manipulate
it — allocation, path resolution, directory-entry management, and the
direct-plus-single-indirect block map. It does not know about FUSE or about
how the image got mapped into memory; callers hand it a []byte (normally
produced by mmap, see internal/mmapfile) and everything else happens by
indexing into that slice.

A few quirks are deliberate rather than bugs: rmdir does not check for an
empty directory, AddEntry can leak a freshly allocated directory-extension
block if the subsequent inode allocation fails, and directory entries are
removed by swapping in the last entry rather than shifting the rest down.
*/
package wfs
