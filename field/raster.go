package field

import "image"

// Raster is one generated crop of the field.
type Raster struct {
	// Pix holds the grey samples, row-major. The pixel at (col, row)
	// is Pix[row*Width+col].
	Pix []uint8
	// Width and Height are the raster dimensions in pixels.
	Width, Height int
}

// At returns the grey value at (col, row).
func (r *Raster) At(col, row int) uint8 {
	return r.Pix[row*r.Width+col]
}

// Gray copies the raster into an image.Gray with bounds (0,0)-(Width,Height).
func (r *Raster) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	copy(img.Pix, r.Pix)
	return img
}

// GrayAt is like Gray but places the image at the given offset, so tile
// rasters can be composed with image/draw using plane-relative bounds.
func (r *Raster) GrayAt(x0, y0 int) *image.Gray {
	img := image.NewGray(image.Rect(x0, y0, x0+r.Width, y0+r.Height))
	copy(img.Pix, r.Pix)
	return img
}

// RGBA copies the raster into an image.RGBA, replicating each grey sample
// into R, G and B with full alpha. Canvas sinks want this layout.
func (r *Raster) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for i, v := range r.Pix {
		img.Pix[i*4+0] = v
		img.Pix[i*4+1] = v
		img.Pix[i*4+2] = v
		img.Pix[i*4+3] = 0xFF
	}
	return img
}
