package wfs

import (
	bitmap "github.com/boljen/go-bitmap"
)

// inodeBitmap returns the live inode-allocation bitmap, a window directly
// into the mapped image: flipping a bit here is visible to every other
// holder of the same Image immediately, with no separate flush step.
func (img *Image) inodeBitmap() bitmap.Bitmap {
	end := img.sb.IBitmapPtr + uint64(img.sb.NumInodes)/8
	return bitmap.Bitmap(img.data[img.sb.IBitmapPtr:end])
}

// dataBitmap returns the live data-block allocation bitmap.
func (img *Image) dataBitmap() bitmap.Bitmap {
	end := img.sb.DBitmapPtr + uint64(img.sb.NumDataBlocks)/8
	return bitmap.Bitmap(img.data[img.sb.DBitmapPtr:end])
}
