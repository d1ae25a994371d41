package favicon

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/antoinefink/favicon/ico"
	"github.com/antoinefink/favicon/raster"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("favicon: invalid config")

// Output is a single PNG file rendered at Size pixels.
type Output struct {
	Name string
	Size int
}

// ICOOutput is an icon container bundling the PNGs rendered at Sizes,
// in that order.
type ICOOutput struct {
	Name  string
	Sizes []int
}

// Config describes one generation run.
type Config struct {
	OutDir string
	Style  raster.Style
	PNGs   []Output
	ICO    ICOOutput // skipped when Name is empty
}

// DefaultConfig returns the standard favicon set written to outDir.
func DefaultConfig(outDir string) Config {
	return Config{
		OutDir: outDir,
		Style:  raster.DefaultStyle,
		PNGs: []Output{
			{Name: "favicon-16.png", Size: 16},
			{Name: "favicon-32.png", Size: 32},
			{Name: "apple-touch-icon.png", Size: 180},
		},
		ICO: ICOOutput{Name: "favicon.ico", Sizes: []int{16, 32}},
	}
}

// Validate checks the config before anything is rendered.
func (c Config) Validate() error {
	if c.OutDir == "" {
		return fmt.Errorf("%w: empty output directory", ErrInvalidConfig)
	}

	names := make(map[string]bool)
	claim := func(name string) error {
		if name == "" || filepath.Base(name) != name {
			return fmt.Errorf("%w: bad file name %q", ErrInvalidConfig, name)
		}
		if names[name] {
			return fmt.Errorf("%w: duplicate file name %q", ErrInvalidConfig, name)
		}
		names[name] = true
		return nil
	}

	for _, o := range c.PNGs {
		if err := claim(o.Name); err != nil {
			return err
		}
		if o.Size <= 0 {
			return fmt.Errorf("%w: %s: size %d", ErrInvalidConfig, o.Name, o.Size)
		}
	}

	if c.ICO.Name == "" {
		return nil
	}
	if err := claim(c.ICO.Name); err != nil {
		return err
	}
	if len(c.ICO.Sizes) == 0 {
		return fmt.Errorf("%w: %s: no sizes", ErrInvalidConfig, c.ICO.Name)
	}
	for _, s := range c.ICO.Sizes {
		if s <= 0 || s > ico.MaxDimension {
			return fmt.Errorf("%w: %s: size %d outside 1..%d", ErrInvalidConfig, c.ICO.Name, s, ico.MaxDimension)
		}
	}
	return nil
}
