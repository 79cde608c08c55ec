package field

// Split partitions vp into tiles of size tileW × tileH. Tiles at the right
// and bottom edges are smaller if vp is not divisible. Because every pixel
// depends only on its absolute plane coordinate, rendering the tiles
// separately and composing them by coordinate yields exactly the unsplit
// raster, so tiles may be rendered in parallel.
func (vp Viewport) Split(tileW, tileH int) []Viewport {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	var tiles []Viewport
	for oy := 0; oy < vp.Height; oy += tileH {
		th := min(tileH, vp.Height-oy)
		for ox := 0; ox < vp.Width; ox += tileW {
			tw := min(tileW, vp.Width-ox)
			tiles = append(tiles, Viewport{
				StartX: vp.StartX + ox,
				StartY: vp.StartY + oy,
				Width:  tw,
				Height: th,
			})
		}
	}
	return tiles
}
