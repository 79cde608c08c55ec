package field

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func mustGenerate(t *testing.T, vp Viewport, p Params) *Raster {
	t.Helper()
	r, err := Generate(vp, p)
	if err != nil {
		t.Fatalf("Generate(%+v, %+v): %v", vp, p, err)
	}
	return r
}

func TestGenerateDeterminism(t *testing.T) {
	vp := Viewport{StartX: -37, StartY: 1234, Width: 120, Height: 80}
	p := Params{FirstPoleDistance: 250, Distortion: 1.7}

	a := mustGenerate(t, vp, p)
	b := mustGenerate(t, vp, p)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("repeated calls with identical inputs produced different rasters")
	}
}

func TestGenerateTranslationConsistency(t *testing.T) {
	p := Params{FirstPoleDistance: 100, Distortion: 1.3}

	a := mustGenerate(t, Viewport{StartX: 3, StartY: -7, Width: 40, Height: 30}, p)
	b := mustGenerate(t, Viewport{StartX: -2, StartY: -7, Width: 45, Height: 30}, p)

	// b's viewport extends a's by 5 columns on the left; the overlap must
	// agree when indexed by absolute plane coordinate.
	for row := 0; row < 30; row++ {
		for col := 0; col < 40; col++ {
			if got, want := b.At(col+5, row), a.At(col, row); got != want {
				t.Fatalf("pixel (%d,%d): shifted viewport gave %d, original %d", col, row, got, want)
			}
		}
	}
}

// TestGenerateMatchesFormula recomputes every pixel independently, covering
// both parameter extremes and coordinates out to ±10000. Passing implies the
// output is bounded to [0,255] as well.
func TestGenerateMatchesFormula(t *testing.T) {
	viewports := []Viewport{
		{StartX: -16, StartY: -16, Width: 32, Height: 32},
		{StartX: 9984, StartY: -10000, Width: 32, Height: 32},
		{StartX: -10000, StartY: 9984, Width: 32, Height: 32},
	}
	params := []Params{
		{FirstPoleDistance: 10, Distortion: 0.7},
		{FirstPoleDistance: 100, Distortion: 1.3},
		{FirstPoleDistance: 1000, Distortion: 2.5},
	}

	for _, vp := range viewports {
		for _, p := range params {
			r := mustGenerate(t, vp, p)
			cal := p.calibration()
			for row := 0; row < vp.Height; row++ {
				for col := 0; col < vp.Width; col++ {
					x := float64(vp.StartX + col)
					y := float64(vp.StartY + row)
					dist := x*x + y*y - x/phi - 2*y*phi + 1
					want := math.Round((math.Sin(math.Pow(dist, p.Distortion)*cal) + 1) * 128)
					want = math.Min(255, math.Max(0, want))
					if got := r.At(col, row); got != uint8(want) {
						t.Fatalf("params %+v pixel (%d,%d): got %d, want %g", p, col, row, got, want)
					}
				}
			}
		}
	}
}

func TestPseudoDistancePositive(t *testing.T) {
	// The continuous minimum of the quadratic sits near (1/(2φ), φ), so the
	// lattice points around it are the tightest spots.
	for _, pt := range [][2]float64{{0, 1}, {0, 2}, {1, 1}, {1, 2}} {
		if d := pseudoDistance(pt[0], pt[1]); d <= 0 {
			t.Errorf("pseudoDistance(%g, %g) = %g, want > 0", pt[0], pt[1], d)
		}
	}

	// Dense scan near the origin.
	for y := -300; y <= 300; y++ {
		for x := -300; x <= 300; x++ {
			if d := pseudoDistance(float64(x), float64(y)); d <= 0 {
				t.Fatalf("pseudoDistance(%d, %d) = %g, want > 0", x, y, d)
			}
		}
	}

	// Sweeps along each axis out to ±100000, holding the other coordinate
	// in the critical band.
	for _, y := range []int{-100000, -1, 0, 1, 2, 3, 100000} {
		for x := -100000; x <= 100000; x += 7 {
			if d := pseudoDistance(float64(x), float64(y)); d <= 0 {
				t.Fatalf("pseudoDistance(%d, %d) = %g, want > 0", x, y, d)
			}
		}
	}
	for _, x := range []int{-100000, -1, 0, 1, 100000} {
		for y := -100000; y <= 100000; y += 7 {
			if d := pseudoDistance(float64(x), float64(y)); d <= 0 {
				t.Fatalf("pseudoDistance(%d, %d) = %g, want > 0", x, y, d)
			}
		}
	}
}

func TestCalibrationIdentity(t *testing.T) {
	for _, pole := range []float64{10, 100, 250, 1000} {
		for d := 0.7; d <= 2.5; d += 0.1 {
			p := Params{FirstPoleDistance: pole, Distortion: d}
			got := p.Distortion * p.calibration() * math.Pow(p.FirstPoleDistance, 2*p.Distortion-1)
			if rel := math.Abs(got-math.Pi) / math.Pi; rel > 1e-9 {
				t.Errorf("params %+v: d*cal*pole^(2d-1) = %g, want π (relative error %g)", p, got, rel)
			}
		}
	}
}

func TestGenerateCenterScenario(t *testing.T) {
	vp := Viewport{StartX: -200, StartY: -200, Width: 400, Height: 400}
	p := Params{FirstPoleDistance: 100, Distortion: 1.3}

	r := mustGenerate(t, vp, p)
	if r.Width != 400 || r.Height != 400 || len(r.Pix) != 400*400 {
		t.Fatalf("unexpected raster shape: %dx%d, %d samples", r.Width, r.Height, len(r.Pix))
	}

	// The center pixel is plane coordinate (0,0), where the pseudo-distance
	// is exactly 1 and 1^distortion stays 1.
	want := math.Round((math.Sin(p.calibration()) + 1) * 128)
	want = math.Min(255, math.Max(0, want))
	if got := r.At(200, 200); got != uint8(want) {
		t.Errorf("center pixel: got %d, want %g", got, want)
	}
}

func TestGenerateInvalidInput(t *testing.T) {
	okVp := Viewport{StartX: 0, StartY: 0, Width: 10, Height: 10}
	okP := Params{FirstPoleDistance: 100, Distortion: 1.3}

	cases := []struct {
		name string
		vp   Viewport
		p    Params
	}{
		{"zero width", Viewport{Width: 0, Height: 10}, okP},
		{"negative height", Viewport{Width: 10, Height: -3}, okP},
		{"zero distortion", okVp, Params{FirstPoleDistance: 100, Distortion: 0}},
		{"negative pole distance", okVp, Params{FirstPoleDistance: -5, Distortion: 1.3}},
		{"NaN distortion", okVp, Params{FirstPoleDistance: 100, Distortion: math.NaN()}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Generate(tc.vp, tc.p)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("got error %v, want ErrInvalidParameter", err)
			}
			if r != nil {
				t.Error("got a raster alongside the error")
			}
		})
	}
}

func TestRasterConversions(t *testing.T) {
	r := mustGenerate(t,
		Viewport{StartX: -5, StartY: 7, Width: 9, Height: 4},
		Params{FirstPoleDistance: 50, Distortion: 1.1})

	gray := r.Gray()
	if got := gray.Bounds(); got.Dx() != 9 || got.Dy() != 4 {
		t.Fatalf("Gray bounds: %v", got)
	}

	offset := r.GrayAt(100, 200)
	if got := offset.Bounds(); got.Min.X != 100 || got.Min.Y != 200 {
		t.Fatalf("GrayAt bounds: %v", got)
	}

	rgba := r.RGBA()
	for row := 0; row < 4; row++ {
		for col := 0; col < 9; col++ {
			v := r.At(col, row)
			if gray.GrayAt(col, row).Y != v {
				t.Fatalf("Gray(%d,%d) != raster", col, row)
			}
			c := rgba.RGBAAt(col, row)
			if c.R != v || c.G != v || c.B != v || c.A != 0xFF {
				t.Fatalf("RGBA(%d,%d) = %v, want grey %d replicated", col, row, c, v)
			}
		}
	}
}
