package serve

import (
	"fmt"

	"github.com/BenWiederhake/plasmoire/field"
)

// viewState is the one mutable value of the viewer: the current viewport
// anchor/size and the field parameters. Every input event produces a new
// value through the pure transformations below; the field core itself never
// holds state.
type viewState struct {
	vp     field.Viewport
	params field.Params
}

// pan applies a mouse drag of (dx, dy) screen pixels. Dragging the pattern
// rightwards moves the anchor leftwards, so the deltas are subtracted.
func (s viewState) pan(dx, dy int) viewState {
	s.vp.StartX -= dx
	s.vp.StartY -= dy
	return s
}

func (s viewState) withParams(pole, distortion float64) (viewState, error) {
	if pole < 10 || pole > 1000 {
		return s, fmt.Errorf("pole distance out of range [10, 1000]: %g", pole)
	}
	if distortion < 0.7 || distortion > 2.5 {
		return s, fmt.Errorf("distortion out of range [0.7, 2.5]: %g", distortion)
	}
	s.params = field.Params{FirstPoleDistance: pole, Distortion: distortion}
	return s, nil
}

func (s viewState) resize(width, height int) (viewState, error) {
	if width < 1 || width > 9999 || height < 1 || height > 9999 {
		return s, fmt.Errorf("viewer size out of range: %dx%d", width, height)
	}
	s.vp.Width, s.vp.Height = width, height
	return s, nil
}
