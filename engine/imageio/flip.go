package imageio

// FlipVertical swaps the rows of an interleaved byte buffer in place so the
// first row becomes the last. Applying it twice restores the original buffer.
//
// Parameters:
//   - pix: the pixel buffer, at least height*width*bytesPerPixel long
//   - width: the number of pixels per row
//   - height: the number of rows
//   - bytesPerPixel: the number of bytes per pixel
func FlipVertical(pix []byte, width, height, bytesPerPixel int) {
	FlipRows(pix, width, height, bytesPerPixel)
}

// FlipRows is FlipVertical for buffers of any element type, e.g. 16-bit or float channels.
// channels is the number of elements per pixel.
func FlipRows[T any](pix []T, width, height, channels int) {
	rowLen := width * channels
	if rowLen <= 0 || height < 2 || len(pix) < rowLen*height {
		return
	}
	tmp := make([]T, rowLen)
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*rowLen : (top+1)*rowLen]
		b := pix[bottom*rowLen : (bottom+1)*rowLen]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}
