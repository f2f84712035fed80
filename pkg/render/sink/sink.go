// Package sink writes rendered cards and pages to disk.
//
// Cards are written as <id>.png. Pages are written as page_N.png (1-based)
// plus one multi-page PDF named all_pages.pdf whose pages have the physical
// size of the print sheet.
package sink

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/render/page"
)

// PDFName is the file name of the combined document.
const PDFName = "all_pages.pdf"

// OutputExtensions are removed by CleanOutputs when no list is given.
var OutputExtensions = []string{".png", ".pdf"}

// SourceExtensions are the image types accepted by LoadImages.
var SourceExtensions = []string{".png", ".jpg", ".jpeg", ".bmp"}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// WritePNG writes img to dir/<id>.png and returns the path. dir is created
// if needed.
func WritePNG(dir, id string, img image.Image) (string, error) {
	if err := errors.ValidateOutputID(id); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, id+".png")
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// PagePath returns the file name of page n inside dir.
func PagePath(dir string, n int) string {
	return filepath.Join(dir, fmt.Sprintf("page_%d.png", n))
}

// WritePages writes every page as page_N.png and returns the paths.
func WritePages(dir string, pages []*image.NRGBA) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(pages))
	for i, img := range pages {
		path := PagePath(dir, i+1)
		if err := imaging.Save(img, path); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// CleanOutputs removes regular files in dir whose extension is in exts
// (case-insensitive). It returns the removed paths. A missing dir is not an
// error.
func CleanOutputs(dir string, exts ...string) ([]string, error) {
	if len(exts) == 0 {
		exts = OutputExtensions
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !hasExt(e.Name(), exts) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil {
			return removed, err
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// LoadImages decodes every image in dir with one of SourceExtensions, in
// file name order. Each item's ID is its file name without extension.
func LoadImages(dir string) ([]page.Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeResourceNotFound, err, "read image directory")
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && hasExt(e.Name(), SourceExtensions) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	items := make([]page.Item, 0, len(names))
	for _, name := range names {
		img, err := imaging.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", name)
		}
		items = append(items, page.Item{
			ID:    strings.TrimSuffix(name, filepath.Ext(name)),
			Image: img,
		})
	}
	return items, nil
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
