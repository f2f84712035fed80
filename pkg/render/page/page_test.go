package page

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/cardpress/pkg/errors"
)

func TestMMToPx(t *testing.T) {
	tests := []struct {
		mm, dpi float64
		want    int
	}{
		{297, 300, 3507},
		{210, 300, 2480},
		{60, 300, 708},
		{90, 300, 1062},
		{0, 300, 0},
	}
	for _, tt := range tests {
		if got := MMToPx(tt.mm, tt.dpi); got != tt.want {
			t.Errorf("MMToPx(%v, %v) = %d, want %d", tt.mm, tt.dpi, got, tt.want)
		}
	}
}

func TestComputeGrid(t *testing.T) {
	tests := []struct {
		name                       string
		pageW, pageH, cardW, cardH int
		pad, gap                   int
		wantCols, wantRows         int
	}{
		{"reference page", 3000, 2000, 600, 900, 50, 20, 4, 2},
		{"no padding", 1000, 1000, 250, 250, 0, 0, 4, 4},
		{"gap counted between cells only", 520, 100, 100, 100, 0, 5, 5, 1},
		{"single cell", 700, 1000, 600, 900, 50, 20, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ComputeGrid(tt.pageW, tt.pageH, tt.cardW, tt.cardH, tt.pad, tt.gap)
			if err != nil {
				t.Fatalf("ComputeGrid: %v", err)
			}
			if g.Cols != tt.wantCols || g.Rows != tt.wantRows {
				t.Errorf("grid = %dx%d, want %dx%d", g.Cols, g.Rows, tt.wantCols, tt.wantRows)
			}
		})
	}
}

func TestComputeGridLayoutError(t *testing.T) {
	tests := []struct {
		name                       string
		pageW, pageH, cardW, cardH int
		pad                        int
	}{
		{"card wider than page", 500, 2000, 600, 900, 0},
		{"padding eats the page", 1000, 1000, 600, 600, 250},
		{"empty card", 1000, 1000, 0, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeGrid(tt.pageW, tt.pageH, tt.cardW, tt.cardH, tt.pad, 10)
			if !errors.Is(err, errors.ErrCodeLayout) {
				t.Errorf("err = %v, want LAYOUT_ERROR", err)
			}
		})
	}
}

func items(n int) []Item {
	out := make([]Item, n)
	for i := range out {
		out[i] = Item{ID: fmt.Sprintf("card-%d", i), Image: imaging.New(6, 9, color.Black)}
	}
	return out
}

func TestExpand(t *testing.T) {
	got := Expand(items(3), 2)
	want := []string{"card-0", "card-0", "card-1", "card-1", "card-2", "card-2"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("item %d = %s, want %s", i, got[i].ID, want[i])
		}
	}

	if got := Expand(items(3), 0); len(got) != 0 {
		t.Errorf("zero copies produced %d items", len(got))
	}
}

func TestPaginate(t *testing.T) {
	g, err := ComputeGrid(3000, 2000, 600, 900, 50, 20)
	if err != nil {
		t.Fatal(err)
	}
	if g.Capacity() != 8 {
		t.Fatalf("capacity = %d, want 8", g.Capacity())
	}

	pages := Paginate(g, Expand(items(10), 2))
	if len(pages) != 3 {
		t.Fatalf("pages = %d, want 3", len(pages))
	}

	total := 0
	for i, p := range pages {
		if p.Number != i+1 {
			t.Errorf("page %d numbered %d", i, p.Number)
		}
		total += len(p.Placements)
	}
	if total != 20 {
		t.Errorf("placed %d instances, want 20", total)
	}
	if n := len(pages[2].Placements); n != 4 {
		t.Errorf("last page has %d items, want 4", n)
	}

	// Page 2 continues the sequence where page 1 stopped.
	if id := pages[1].Placements[0].Item.ID; id != "card-4" {
		t.Errorf("first item of page 2 = %s, want card-4", id)
	}

	positions := []image.Point{
		{50, 50}, {670, 50}, {1290, 50}, {1910, 50},
		{50, 970}, {670, 970}, {1290, 970}, {1910, 970},
	}
	for i, pl := range pages[0].Placements {
		if pl.Slot != i {
			t.Errorf("slot = %d, want %d", pl.Slot, i)
		}
		if pl.Point != positions[i] {
			t.Errorf("slot %d at %v, want %v", i, pl.Point, positions[i])
		}
	}
}

func TestPaginateProperties(t *testing.T) {
	g := Grid{PageW: 100, PageH: 100, CardW: 10, CardH: 10, Rows: 2, Cols: 3}
	for n := 0; n <= 13; n++ {
		for copies := 1; copies <= 3; copies++ {
			pages := Paginate(g, Expand(items(n), copies))
			instances := n * copies
			wantPages := (instances + g.Capacity() - 1) / g.Capacity()
			if len(pages) != wantPages {
				t.Errorf("n=%d copies=%d: %d pages, want %d", n, copies, len(pages), wantPages)
				continue
			}
			if wantPages == 0 {
				continue
			}
			wantLast := instances % g.Capacity()
			if wantLast == 0 {
				wantLast = g.Capacity()
			}
			if got := len(pages[len(pages)-1].Placements); got != wantLast {
				t.Errorf("n=%d copies=%d: last page %d items, want %d", n, copies, got, wantLast)
			}
		}
	}
}

func TestTile(t *testing.T) {
	cfg := DefaultConfig()
	g, pages, err := Tile(items(5), cfg)
	if err != nil {
		t.Fatalf("Tile: %v", err)
	}
	if g.PageW != 3507 || g.PageH != 2480 {
		t.Errorf("page = %dx%d, want 3507x2480", g.PageW, g.PageH)
	}
	if g.Cols != 4 || g.Rows != 2 {
		t.Errorf("grid = %dx%d, want 4x2", g.Cols, g.Rows)
	}
	if len(pages) != 2 || len(pages[1].Placements) != 2 {
		t.Errorf("10 instances on 8-slot pages: got %d pages", len(pages))
	}

	bad := cfg
	bad.Copies = 0
	if _, _, err := Tile(items(1), bad); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("copies=0: err = %v, want INVALID_CONFIG", err)
	}

	huge := cfg
	huge.CardWidthMM = 400
	if _, _, err := Tile(items(1), huge); !errors.Is(err, errors.ErrCodeLayout) {
		t.Errorf("oversized card: err = %v, want LAYOUT_ERROR", err)
	}
}

func TestRender(t *testing.T) {
	g, err := ComputeGrid(100, 60, 20, 30, 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	red := imaging.New(4, 6, color.NRGBA{R: 255, A: 255})
	pages := Paginate(g, []Item{{ID: "r", Image: red}})

	img := Render(g, pages[0])
	if img.Bounds() != image.Rect(0, 0, 100, 60) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := img.NRGBAAt(1, 1); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("margin pixel = %v, want white", got)
	}
	if got := img.NRGBAAt(15, 20); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("card pixel = %v, want red", got)
	}
	if got := img.NRGBAAt(30, 20); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("empty slot pixel = %v, want white", got)
	}
}

func TestRenderTransparentCornersPrintWhite(t *testing.T) {
	g := Grid{PageW: 20, PageH: 20, CardW: 10, CardH: 10, Rows: 1, Cols: 1}
	clear := imaging.New(10, 10, color.NRGBA{})
	img := Render(g, Paginate(g, []Item{{ID: "c", Image: clear}})[0])
	if got := img.NRGBAAt(5, 5); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("transparent card pixel = %v, want white", got)
	}
}

func TestRenderSharedIDDistinctImages(t *testing.T) {
	g := Grid{PageW: 100, PageH: 30, CardW: 20, CardH: 20, Pad: 5, Gap: 5, Rows: 1, Cols: 3}
	red := imaging.New(10, 10, color.NRGBA{R: 255, A: 255})
	blue := imaging.New(10, 10, color.NRGBA{B: 255, A: 255})

	pages := Paginate(g, []Item{{ID: "x", Image: red}, {ID: "x", Image: blue}, {ID: "x", Image: blue}})
	img := Render(g, pages[0])

	want := []color.NRGBA{{R: 255, A: 255}, {B: 255, A: 255}, {B: 255, A: 255}}
	for slot, c := range want {
		at := g.Position(slot).Add(image.Pt(10, 10))
		if got := img.NRGBAAt(at.X, at.Y); got != c {
			t.Errorf("slot %d pixel = %v, want %v", slot, got, c)
		}
	}
}

func TestRenderAll(t *testing.T) {
	g := Grid{PageW: 40, PageH: 40, CardW: 10, CardH: 10, Rows: 1, Cols: 2}
	pages := Paginate(g, Expand(items(5), 1))

	imgs, err := RenderAll(context.Background(), g, pages, 2)
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	if len(imgs) != 3 {
		t.Fatalf("got %d images, want 3", len(imgs))
	}
	for i, img := range imgs {
		if img == nil {
			t.Errorf("page %d not rendered", i+1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RenderAll(ctx, g, pages, 1); err == nil {
		t.Error("cancelled context should stop rendering")
	}
}
