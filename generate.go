// Package favicon renders the site icon set: PNG favicons at fixed sizes
// and an ICO bundling the small ones.
//
// Every file is encoded in memory before the first write, and each write
// replaces its target atomically, so a failed run never leaves a
// truncated file behind.
package favicon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/antoinefink/favicon/ico"
	"github.com/antoinefink/favicon/pngenc"
	"github.com/antoinefink/favicon/raster"
)

type file struct {
	name string
	data []byte
}

// Generator renders and writes icon sets.
type Generator struct {
	// PNG encodes each rendered canvas. The zero value uses zlib.
	PNG pngenc.Encoder
}

// Generate writes the files described by cfg using the default encoder.
func Generate(cfg Config) ([]string, error) {
	var g Generator
	return g.Generate(cfg)
}

// Generate validates cfg, encodes every file and writes them to
// cfg.OutDir in order: the PNGs, then the ICO. It returns the written
// paths. The first failure aborts the remaining writes.
func (g *Generator) Generate(cfg Config) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	files, err := g.encode(cfg)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("favicon: %w", err)
	}

	log := Logger()
	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(cfg.OutDir, f.name)
		if err := writeFile(path, f.data, 0o644); err != nil {
			return paths, fmt.Errorf("favicon: write %s: %w", f.name, err)
		}
		log.Info("wrote icon", "path", path, "bytes", len(f.data), "size", humanize.Bytes(uint64(len(f.data))))
		paths = append(paths, path)
	}
	return paths, nil
}

// encode renders each distinct size once and returns the files to write.
func (g *Generator) encode(cfg Config) ([]file, error) {
	log := Logger()
	pngs := make(map[int][]byte)
	pngFor := func(size int) ([]byte, error) {
		if data, ok := pngs[size]; ok {
			return data, nil
		}
		c, err := raster.Render(size, cfg.Style)
		if err != nil {
			return nil, err
		}
		data, err := g.PNG.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("favicon: encode %dpx: %w", size, err)
		}
		log.Debug("encoded png", "px", size, "bytes", len(data))
		pngs[size] = data
		return data, nil
	}

	files := make([]file, 0, len(cfg.PNGs)+1)
	for _, o := range cfg.PNGs {
		data, err := pngFor(o.Size)
		if err != nil {
			return nil, err
		}
		files = append(files, file{name: o.Name, data: data})
	}

	if cfg.ICO.Name == "" {
		return files, nil
	}
	images := make([]ico.Image, len(cfg.ICO.Sizes))
	for i, size := range cfg.ICO.Sizes {
		data, err := pngFor(size)
		if err != nil {
			return nil, err
		}
		images[i] = ico.Image{Size: size, PNG: data}
	}
	data, err := ico.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("favicon: %s: %w", cfg.ICO.Name, err)
	}
	log.Debug("encoded ico", "images", len(images), "bytes", len(data))
	return append(files, file{name: cfg.ICO.Name, data: data}), nil
}
