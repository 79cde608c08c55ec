// Package field computes the plasmoire pixel field: a deterministic,
// non-repeating greyscale pattern derived from a function of 2-D integer
// position. The pattern looks periodic but is not; the only regularity is a
// single "calibration pole" radius at which the derivative of the signal
// argument is exactly 2π, so a one-pixel step leaves the grey value almost
// unchanged there.
package field

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is returned when a viewport or parameter value is out
// of range. No pixels are computed in that case.
var ErrInvalidParameter = errors.New("invalid parameter")

// Defaults of the original viewer. The initial anchor is -2*pole in both
// axes, which centers the first pole ring on screen.
const (
	DefaultPoleDistance = 100
	DefaultDistortion   = 1.3
)

// phi is the golden ratio. It weights the asymmetry terms of the
// pseudo-distance because it is the real number least resonant with any
// rational lattice symmetry.
var phi = (1 + math.Sqrt(5)) / 2

// Viewport is a rectangle in the infinite integer plane. StartX,StartY is
// the top-left corner and may be negative.
type Viewport struct {
	StartX, StartY int
	Width, Height  int
}

func (vp Viewport) validate() error {
	if vp.Width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidParameter, vp.Width)
	}
	if vp.Height <= 0 {
		return fmt.Errorf("%w: height must be positive, got %d", ErrInvalidParameter, vp.Height)
	}
	return nil
}

// Params tune the field. FirstPoleDistance is the radius, in pixels, of the
// first calibration pole. Distortion is the exponent applied to the
// pseudo-distance; the useful range is roughly 0.7 to 2.5.
type Params struct {
	FirstPoleDistance float64
	Distortion        float64
}

func (p Params) validate() error {
	if !(p.FirstPoleDistance > 0) {
		return fmt.Errorf("%w: pole distance must be positive, got %g", ErrInvalidParameter, p.FirstPoleDistance)
	}
	if !(p.Distortion > 0) {
		return fmt.Errorf("%w: distortion must be positive, got %g", ErrInvalidParameter, p.Distortion)
	}
	return nil
}

// calibration returns the factor that makes the derivative of
// t ↦ t^Distortion, taken at t = FirstPoleDistance, exactly 2π. At that one
// radius an integer step changes the sin argument by a multiple of 2π, so
// the grey value stays put and an illusory ring appears.
func (p Params) calibration() float64 {
	return math.Pi / (p.Distortion * math.Pow(p.FirstPoleDistance, 2*p.Distortion-1))
}

// pseudoDistance is deliberately not a metric. The golden-ratio terms kill
// every symmetry the plain x²+y² would have, and the +1 keeps the value
// strictly positive over the whole integer lattice so that raising it to a
// non-integer power is always real-valued.
func pseudoDistance(x, y float64) float64 {
	return x*x + y*y - x/phi - 2*y*phi + 1
}

// Generate computes the raster for vp under p. It is pure and stateless:
// the same inputs always yield the same bytes, and the pixel at buffer
// index row*Width+col corresponds to plane coordinate
// (StartX+col, StartY+row) regardless of the anchor.
func Generate(vp Viewport, p Params) (*Raster, error) {
	if err := vp.validate(); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	cal := p.calibration()
	pix := make([]uint8, vp.Width*vp.Height)
	maxX := vp.StartX + vp.Width
	maxY := vp.StartY + vp.Height

	i := 0
	for y := vp.StartY; y < maxY; y++ {
		fy := float64(y)
		for x := vp.StartX; x < maxX; x++ {
			dist := pseudoDistance(float64(x), fy)
			signal := math.Sin(math.Pow(dist, p.Distortion) * cal)
			raw := math.Round((signal + 1) * 128)
			if raw < 0 {
				raw = 0
			} else if raw > 255 {
				raw = 255
			}
			pix[i] = uint8(raw)
			i++
		}
	}

	return &Raster{Pix: pix, Width: vp.Width, Height: vp.Height}, nil
}
