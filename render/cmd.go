// Package render implements the CLI command that writes one crop of the
// field to an image file.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log/slog"

	"github.com/BenWiederhake/plasmoire/field"
	"github.com/BenWiederhake/plasmoire/palette"
	"github.com/BenWiederhake/plasmoire/parallel"

	"github.com/alecthomas/kong"
	xdraw "golang.org/x/image/draw"
)

type CLICmd struct {
	Out          string  `arg:"" help:"Destination image file" type:"path"`
	StartX       int     `help:"Plane X coordinate of the crop's left edge" default:"-200"`
	StartY       int     `help:"Plane Y coordinate of the crop's top edge" default:"-200"`
	Width        int     `help:"Output width in pixels (320-9999)" default:"1920"`
	Height       int     `help:"Output height in pixels (200-9999)" default:"1080"`
	PoleDistance float64 `help:"Radius of the first calibration pole (10-1000)" default:"100"`
	Distortion   float64 `help:"Exponent applied to the pseudo-distance (0.7-2.5)" default:"1.3"`
	Format       string  `help:"Output format; auto picks by file extension" enum:"auto,png,gif,jpeg,bmp,tiff" default:"auto"`
	Palette      string  `help:"Palette name (bw, gray4, gray16, gray256) or RIFF PAL file to quantize to" group:"palette"`
	Dither       bool    `help:"Apply dithering when quantizing" default:"false" group:"palette"`
	Tile         int     `help:"Tile edge length for parallel rendering" default:"256"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	switch {
	case c.Width < 320 || c.Width > 9999:
		return fmt.Errorf("width out of range [320, 9999]: %d", c.Width)
	case c.Height < 200 || c.Height > 9999:
		return fmt.Errorf("height out of range [200, 9999]: %d", c.Height)
	case c.PoleDistance < 10 || c.PoleDistance > 1000:
		return fmt.Errorf("pole distance out of range [10, 1000]: %g", c.PoleDistance)
	case c.Distortion < 0.7 || c.Distortion > 2.5:
		return fmt.Errorf("distortion out of range [0.7, 2.5]: %g", c.Distortion)
	case c.Tile < 16:
		return fmt.Errorf("tile edge too small: %d", c.Tile)
	}

	if _, err := resolveFormat(c.Format, c.Out); err != nil {
		return err
	}

	if c.Palette != "" {
		if _, err := palette.Load(c.Palette); err != nil {
			return err
		}
	}

	return nil
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	// Refuse the destination before any pixel is computed.
	if err := checkDest(c.Out); err != nil {
		return err
	}

	format, err := resolveFormat(c.Format, c.Out)
	if err != nil {
		return err
	}

	vp := field.Viewport{StartX: c.StartX, StartY: c.StartY, Width: c.Width, Height: c.Height}
	params := field.Params{FirstPoleDistance: c.PoleDistance, Distortion: c.Distortion}

	logger := slog.Default().With("file", c.Out)
	logger.Info("rendering", "startX", vp.StartX, "startY", vp.StartY,
		"width", vp.Width, "height", vp.Height,
		"poleDistance", params.FirstPoleDistance, "distortion", params.Distortion)

	img, err := Compose(pool, vp, params, c.Tile)
	if err != nil {
		return err
	}

	var out image.Image = img
	if c.Palette != "" {
		if out, err = quantize(logger, img, c.Palette, c.Dither); err != nil {
			return err
		}
	}

	if err := save(out, format, c.Out); err != nil {
		return err
	}

	logger.Info("saved", "format", format)
	return nil
}

// Compose renders vp in tiles of tileEdge pixels on the pool and stitches
// the rasters into one image, keyed by absolute plane coordinate. A failed
// tile aborts the whole render; no partial image is returned.
func Compose(pool *parallel.Pool, vp field.Viewport, params field.Params, tileEdge int) (*image.Gray, error) {
	img := image.NewGray(image.Rect(0, 0, vp.Width, vp.Height))
	tiles := vp.Split(tileEdge, tileEdge)

	errs := make([]error, len(tiles))
	pool.Each(len(tiles), func(i int) {
		tile := tiles[i]
		r, err := field.Generate(tile, params)
		if err != nil {
			errs[i] = err
			return
		}

		// Tiles cover disjoint pixel ranges, so drawing into the shared
		// image needs no locking.
		tileImg := r.GrayAt(tile.StartX-vp.StartX, tile.StartY-vp.StartY)
		draw.Draw(img, tileImg.Rect, tileImg, tileImg.Rect.Min, draw.Src)
	})

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("could not render: %w", err)
	}
	return img, nil
}

func quantize(logger *slog.Logger, img image.Image, palName string, dither bool) (image.Image, error) {
	pal, err := palette.Load(palName)
	if err != nil {
		return nil, err
	}

	logger.Info("applying palette", "palette", palName, "colors", len(pal))
	bounds := img.Bounds()
	dst := image.NewPaletted(bounds, pal)
	if dither {
		xdraw.FloydSteinberg.Draw(dst, bounds, img, bounds.Min)
	} else {
		draw.Draw(dst, bounds, img, bounds.Min, draw.Src)
	}
	return dst, nil
}
