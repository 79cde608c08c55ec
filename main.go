// Command plasmoire renders and serves phase-aligned plasma/moire patterns:
// deterministic greyscale fields that look periodic but are not.
package main

import (
	"github.com/BenWiederhake/plasmoire/parallel"
	"github.com/BenWiederhake/plasmoire/render"
	"github.com/BenWiederhake/plasmoire/serve"

	"github.com/alecthomas/kong"
)

var cli struct {
	Workers int `help:"Number of render workers (0 = one per CPU)" default:"0"`

	Render render.CLICmd `cmd:"" help:"Render one crop of the pattern to an image file"`
	Serve  serve.CLICmd  `cmd:"" help:"Serve the interactive browser viewer"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("plasmoire"),
		kong.Description("Viewer and renderer for phase-aligned plasma/moire patterns."),
		kong.UsageOnError(),
	)

	pool := parallel.Start(cli.Workers)
	defer pool.Close()

	kctx.FatalIfErrorf(kctx.Run(pool))
}
