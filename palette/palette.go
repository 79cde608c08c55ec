// Package palette provides the grey palettes a field export can be
// quantized to, either by well-known name or from a RIFF PAL file.
package palette

import (
	"fmt"
	"image/color"
	"math"
	"os"
)

var named = map[string]int{
	"bw":      2,
	"gray4":   4,
	"gray16":  16,
	"gray256": 256,
}

// Load resolves name into a palette. Known names are the grey ramps bw,
// gray4, gray16 and gray256; anything else is treated as the path of a
// RIFF PAL file. A PAL file may carry several palettes; Load returns the
// first one.
func Load(name string) (color.Palette, error) {
	if levels, ok := named[name]; ok {
		return grayRamp(levels), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unknown palette %q and could not open as PAL file: %w", name, err)
	}
	defer f.Close()

	pals, err := ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("could not read PAL file %q: %w", name, err)
	}
	if len(pals) == 0 || len(pals[0]) == 0 {
		return nil, fmt.Errorf("PAL file %q contains no colors", name)
	}
	return pals[0], nil
}

// grayRamp returns n grey levels spread evenly from black to white.
func grayRamp(n int) color.Palette {
	pal := make(color.Palette, n)
	for i := 0; i < n; i++ {
		v := uint8(math.Round(float64(i) * 255 / float64(n-1)))
		pal[i] = color.Gray{Y: v}
	}
	return pal
}
