// Package pipeline runs the card → page pipeline for the CLI and the API.
//
// It has two stages:
//
//  1. Cards: every spec is composed independently and concurrently. A
//     failing card is recorded in its result and never stops the others.
//     Rendered cards are cached by content fingerprint.
//  2. Pages: the rendered cards are tiled onto pages, the pages are
//     rendered concurrently, and a PDF of all pages is produced. Any
//     tiling error fails the whole stage.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	results := runner.RenderCards(ctx, composer, specs)
//	for _, f := range pipeline.Failed(results) {
//	    logger.Warn("card failed", "id", f.Spec.ID, "err", f.Err)
//	}
//	sheet, err := runner.TilePages(ctx, pipeline.Items(results), pageCfg)
package pipeline

import (
	"image"
	"time"

	"github.com/matzehuels/cardpress/pkg/render/card"
	"github.com/matzehuels/cardpress/pkg/render/page"
)

// Composer renders cards and fingerprints their inputs.
// It is implemented by *card.Composer.
type Composer interface {
	Compose(spec card.Spec) (*card.Rendered, error)
	Fingerprint(spec card.Spec) (string, error)
}

// CardResult is the outcome of rendering one spec.
// Exactly one of Card and Err is set.
type CardResult struct {
	Spec     card.Spec
	Card     *card.Rendered
	Err      error
	Cached   bool // served from the cache; Card.Layout is empty
	Duration time.Duration
}

// OK reports whether the card rendered.
func (r CardResult) OK() bool { return r.Err == nil && r.Card != nil }

// Items returns the rendered cards of results as tiling items, in order.
// Failed cards are left out.
func Items(results []CardResult) []page.Item {
	items := make([]page.Item, 0, len(results))
	for _, r := range results {
		if r.OK() {
			items = append(items, page.Item{ID: r.Card.ID, Image: r.Card.Image})
		}
	}
	return items
}

// Failed returns the results that carry an error.
func Failed(results []CardResult) []CardResult {
	var out []CardResult
	for _, r := range results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// Sheet is a tiled print run.
type Sheet struct {
	Grid   page.Grid
	Pages  []page.Page
	Images []*image.NRGBA // one per page, in page order
	PDF    []byte
}

// Instances returns the number of card instances placed on all pages.
func (s *Sheet) Instances() int {
	n := 0
	for _, p := range s.Pages {
		n += len(p.Placements)
	}
	return n
}
