// Package page tiles rendered cards onto printable pages.
//
// Tiling is a plain row/column grid. The grid is computed once from the
// page and card sizes, every card is replicated a fixed number of times,
// and the resulting sequence is cut into pages of grid capacity. Cards
// are placed row by row, left to right, and resized to exactly the grid
// cell size.
package page

import (
	"image"

	"github.com/matzehuels/cardpress/pkg/errors"
)

// MMPerInch converts print resolution to millimetres.
const MMPerInch = 25.4

// MMToPx converts a length in millimetres to whole pixels at dpi,
// truncating toward zero.
func MMToPx(mm, dpi float64) int {
	return int(mm * dpi / MMPerInch)
}

// Config describes the physical page and card sizes of a print run.
type Config struct {
	PageWidthMM  float64 `toml:"page_width_mm" json:"page_width_mm"`
	PageHeightMM float64 `toml:"page_height_mm" json:"page_height_mm"`
	DPI          float64 `toml:"dpi" json:"dpi"`
	CardWidthMM  float64 `toml:"card_width_mm" json:"card_width_mm"`
	CardHeightMM float64 `toml:"card_height_mm" json:"card_height_mm"`
	Copies       int     `toml:"copies" json:"copies"`
	PadMM        float64 `toml:"pad_mm" json:"pad_mm"` // outer margin
	GapMM        float64 `toml:"gap_mm" json:"gap_mm"` // space between cards
}

// DefaultConfig returns two copies of 60x90mm cards on landscape A4 at 300 DPI.
func DefaultConfig() Config {
	return Config{
		PageWidthMM:  297,
		PageHeightMM: 210,
		DPI:          300,
		CardWidthMM:  60,
		CardHeightMM: 90,
		Copies:       2,
		PadMM:        10,
		GapMM:        5,
	}
}

// Validate checks that sizes are positive and at least one copy is made.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"page_width_mm", c.PageWidthMM},
		{"page_height_mm", c.PageHeightMM},
		{"dpi", c.DPI},
		{"card_width_mm", c.CardWidthMM},
		{"card_height_mm", c.CardHeightMM},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %g", p.name, p.value)
		}
	}
	if c.PadMM < 0 || c.GapMM < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "pad_mm and gap_mm must not be negative")
	}
	if c.Copies < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "copies must be at least 1, got %d", c.Copies)
	}
	return nil
}

// Grid converts c to pixels and computes the grid.
func (c Config) Grid() (Grid, error) {
	return ComputeGrid(
		MMToPx(c.PageWidthMM, c.DPI), MMToPx(c.PageHeightMM, c.DPI),
		MMToPx(c.CardWidthMM, c.DPI), MMToPx(c.CardHeightMM, c.DPI),
		MMToPx(c.PadMM, c.DPI), MMToPx(c.GapMM, c.DPI),
	)
}

// Grid is the pixel geometry of a page.
type Grid struct {
	PageW int `json:"page_width"`
	PageH int `json:"page_height"`
	CardW int `json:"card_width"`
	CardH int `json:"card_height"`
	Pad   int `json:"pad"`
	Gap   int `json:"gap"`
	Rows  int `json:"rows"`
	Cols  int `json:"cols"`
}

// ComputeGrid returns the largest row/column grid of cardW x cardH cells
// that fits a pageW x pageH page with pad pixels of margin on every side
// and gap pixels between cells. A card that does not fit even once is a
// LAYOUT_ERROR.
func ComputeGrid(pageW, pageH, cardW, cardH, pad, gap int) (Grid, error) {
	if cardW <= 0 || cardH <= 0 {
		return Grid{}, errors.New(errors.ErrCodeLayout, "card size %dx%dpx is empty", cardW, cardH)
	}
	g := Grid{
		PageW: pageW, PageH: pageH,
		CardW: cardW, CardH: cardH,
		Pad: pad, Gap: gap,
		Cols: cells(pageW, cardW, pad, gap),
		Rows: cells(pageH, cardH, pad, gap),
	}
	if g.Capacity() == 0 {
		return Grid{}, errors.New(errors.ErrCodeLayout,
			"a %dx%dpx card does not fit on a %dx%dpx page with %dpx padding",
			cardW, cardH, pageW, pageH, pad)
	}
	return g, nil
}

func cells(page, card, pad, gap int) int {
	n := (page - 2*pad + gap) / (card + gap)
	return max(n, 0)
}

// Capacity returns the number of cards per page.
func (g Grid) Capacity() int { return g.Rows * g.Cols }

// Position returns the top-left pixel of slot i on a page.
func (g Grid) Position(i int) image.Point {
	row, col := i/g.Cols, i%g.Cols
	return image.Pt(g.Pad+col*(g.CardW+g.Gap), g.Pad+row*(g.CardH+g.Gap))
}

// Item is a card image to be tiled.
type Item struct {
	ID    string
	Image image.Image
}

// Placement is one card instance on a page.
type Placement struct {
	Item  Item
	Slot  int         // index within the page
	Point image.Point // top-left corner in page pixels
}

// Page is an ordered list of placements.
type Page struct {
	Number     int // 1-based
	Placements []Placement
}

// Expand repeats every item copies times. Copies of an item are adjacent and
// the relative order of items is preserved.
func Expand(items []Item, copies int) []Item {
	if copies < 1 {
		return nil
	}
	out := make([]Item, 0, len(items)*copies)
	for _, it := range items {
		for range copies {
			out = append(out, it)
		}
	}
	return out
}

// Paginate cuts items into pages of g.Capacity() cards. The last page may
// be partially filled.
func Paginate(g Grid, items []Item) []Page {
	capacity := g.Capacity()
	if capacity == 0 {
		return nil
	}
	pages := make([]Page, 0, (len(items)+capacity-1)/capacity)
	for start := 0; start < len(items); start += capacity {
		end := min(start+capacity, len(items))
		p := Page{Number: len(pages) + 1, Placements: make([]Placement, 0, end-start)}
		for i, it := range items[start:end] {
			p.Placements = append(p.Placements, Placement{Item: it, Slot: i, Point: g.Position(i)})
		}
		pages = append(pages, p)
	}
	return pages
}

// Tile validates cfg, computes the grid and lays out copies of every item.
func Tile(items []Item, cfg Config) (Grid, []Page, error) {
	if err := cfg.Validate(); err != nil {
		return Grid{}, nil, err
	}
	g, err := cfg.Grid()
	if err != nil {
		return Grid{}, nil, err
	}
	return g, Paginate(g, Expand(items, cfg.Copies)), nil
}
