// Command favicongen writes the site favicon set: favicon-16.png,
// favicon-32.png, apple-touch-icon.png and favicon.ico.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/antoinefink/favicon"
	"github.com/antoinefink/favicon/raster"
)

func main() {
	var (
		out     = flag.String("out", "assets/icons", "output directory")
		top     = flag.String("top", raster.DefaultStyle.Top.String(), "gradient top color")
		bottom  = flag.String("bottom", raster.DefaultStyle.Bottom.String(), "gradient bottom color")
		ink     = flag.String("ink", raster.DefaultStyle.Ink.String(), "glyph color")
		accent  = flag.String("accent", raster.DefaultStyle.Accent.String(), "dot color")
		verbose = flag.Bool("v", false, "log each rendered size")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	favicon.SetLogger(log)

	cfg := favicon.DefaultConfig(*out)
	for _, c := range []struct {
		flag string
		val  string
		dst  *raster.Color
	}{
		{"top", *top, &cfg.Style.Top},
		{"bottom", *bottom, &cfg.Style.Bottom},
		{"ink", *ink, &cfg.Style.Ink},
		{"accent", *accent, &cfg.Style.Accent},
	} {
		col, err := raster.ParseColor(c.val)
		if err != nil {
			fmt.Fprintf(os.Stderr, "-%s: %v\n", c.flag, err)
			os.Exit(2)
		}
		*c.dst = col
	}

	paths, err := favicon.Generate(cfg)
	if err != nil {
		log.Error("generate icons", "err", err)
		os.Exit(1)
	}
	log.Info("icons generated", "dir", *out, "files", len(paths))
}
