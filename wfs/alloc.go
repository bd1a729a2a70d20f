package wfs

// allocInode scans the inode bitmap byte by byte, bit by bit LSB-first, and
// claims the first clear bit. It returns 0 (never a legitimate inode, since
// bit 0 is permanently set for the root) if the bitmap is full.
func (img *Image) allocInode() uint32 {
	bm := img.inodeBitmap()
	for i := 0; i < int(img.sb.NumInodes); i++ {
		if !bm.Get(i) {
			bm.Set(i, true)
			return uint32(i)
		}
	}
	return 0
}

// freeInode clears inode i's bit in the inode bitmap.
func (img *Image) freeInode(i uint32) {
	img.inodeBitmap().Set(int(i), false)
}

// allocDBlock scans the data bitmap the same way allocInode does, and
// returns the absolute byte offset of the claimed block, or 0 on failure.
func (img *Image) allocDBlock() uint64 {
	bm := img.dataBitmap()
	for i := 0; i < int(img.sb.NumDataBlocks); i++ {
		if !bm.Get(i) {
			bm.Set(i, true)
			return img.sb.blockAddr(uint32(i))
		}
	}
	return 0
}

// freeDBlock clears the bit for the data block at absolute offset off.
func (img *Image) freeDBlock(off uint64) {
	if off == 0 {
		return
	}
	img.dataBitmap().Set(int(img.sb.blockIndexOf(off)), false)
}
