// Package config loads and saves cardpress configuration files.
//
// The native format is TOML with three tables:
//
//	[paths]  where input sheets, fonts and images live and where output goes
//	[card]   card geometry (see card.Config)
//	[page]   print sheet geometry (see page.Config)
//
// The flat key=value format of older config.ini files is also accepted; its
// keys are the same as the TOML keys, without tables. Keys that are missing
// from a file keep their default values.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/render/card"
	"github.com/matzehuels/cardpress/pkg/render/page"
)

// File names probed by Discover, in order.
const (
	TOMLName = "cardpress.toml"
	FlatName = "config.ini"
)

// Paths locates inputs and outputs. Relative CSV, font and image paths are
// relative to InputDir.
type Paths struct {
	InputDir  string `toml:"input_dir"`
	CSVFile   string `toml:"csv_file"`
	FontsDir  string `toml:"fonts_dir"`
	ImagesDir string `toml:"images_dir"`
	OutputDir string `toml:"output_dir"`
	LayoutDir string `toml:"layout_dir"`
}

// CSVPath returns the card sheet path.
func (p Paths) CSVPath() string { return p.under(p.CSVFile) }

// FontsPath returns the font directory.
func (p Paths) FontsPath() string { return p.under(p.FontsDir) }

// ImagesPath returns the foreground image directory.
func (p Paths) ImagesPath() string { return p.under(p.ImagesDir) }

func (p Paths) under(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.InputDir, name)
}

// File is a complete configuration.
type File struct {
	Paths Paths       `toml:"paths"`
	Card  card.Config `toml:"card"`
	Page  page.Config `toml:"page"`
}

// Default returns the configuration used when no file is present.
func Default() File {
	return File{
		Paths: Paths{
			InputDir:  "Input",
			CSVFile:   "cards.csv",
			FontsDir:  "fonts",
			ImagesDir: "images",
			OutputDir: "Output",
			LayoutDir: "layout",
		},
		Card: card.DefaultConfig(),
		Page: page.DefaultConfig(),
	}
}

// Validate checks the card and page sections.
func (f File) Validate() error {
	if err := f.Card.Validate(); err != nil {
		return err
	}
	return f.Page.Validate()
}

// Discover returns the first config file found in dir, or "" if none exists.
func Discover(dir string) string {
	for _, name := range []string{TOMLName, FlatName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads path on top of the defaults. Files ending in .toml are decoded
// as TOML, anything else as flat key=value lines. The result is validated.
func Load(path string) (File, error) {
	f := Default()

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		md, err := toml.DecodeFile(path, &f)
		if err != nil {
			return File{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return File{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %s", path, undecoded[0])
		}
	} else {
		r, err := os.Open(path)
		if err != nil {
			return File{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
		}
		defer r.Close()

		m, err := ParseFlat(r)
		if err != nil {
			return File{}, err
		}
		if f, err = FromMap(m); err != nil {
			return File{}, err
		}
	}

	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Save writes f to path as TOML, creating parent directories.
func Save(path string, f File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
