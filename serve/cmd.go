// Package serve implements the interactive viewer: a local HTTP server with
// a canvas page, drag-to-pan over a websocket, and a one-shot crop endpoint.
package serve

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/BenWiederhake/plasmoire/field"
	"github.com/BenWiederhake/plasmoire/parallel"
)

type CLICmd struct {
	Addr         string  `help:"HTTP listen address" default:"localhost:8080"`
	Width        int     `help:"Initial viewer width in pixels" default:"800"`
	Height       int     `help:"Initial viewer height in pixels" default:"600"`
	PoleDistance float64 `help:"Radius of the first calibration pole (10-1000)" default:"100"`
	Distortion   float64 `help:"Exponent applied to the pseudo-distance (0.7-2.5)" default:"1.3"`
	Tile         int     `help:"Tile edge length for parallel rendering" default:"256"`
}

func (c *CLICmd) Validate() error {
	switch {
	case c.Width < 1 || c.Width > 9999:
		return fmt.Errorf("width out of range [1, 9999]: %d", c.Width)
	case c.Height < 1 || c.Height > 9999:
		return fmt.Errorf("height out of range [1, 9999]: %d", c.Height)
	case c.PoleDistance < 10 || c.PoleDistance > 1000:
		return fmt.Errorf("pole distance out of range [10, 1000]: %g", c.PoleDistance)
	case c.Distortion < 0.7 || c.Distortion > 2.5:
		return fmt.Errorf("distortion out of range [0.7, 2.5]: %g", c.Distortion)
	case c.Tile < 16:
		return fmt.Errorf("tile edge too small: %d", c.Tile)
	}
	return nil
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	init := viewState{
		vp: field.Viewport{
			StartX: -2 * int(c.PoleDistance),
			StartY: -2 * int(c.PoleDistance),
			Width:  c.Width,
			Height: c.Height,
		},
		params: field.Params{FirstPoleDistance: c.PoleDistance, Distortion: c.Distortion},
	}

	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           newServer(pool, init, c.Tile).handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("viewer listening", "addr", fmt.Sprintf("http://%s", c.Addr))
	return srv.ListenAndServe()
}
