package page

import (
	"context"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

// Render draws p on a white page of the grid's size. Every card is resized
// to exactly the cell size and composited over the page, so transparent
// card corners print white.
func Render(g Grid, p Page) *image.NRGBA {
	canvas := imaging.New(g.PageW, g.PageH, color.White)

	// Copies of a card are adjacent, so one resize usually serves several slots.
	var last image.Image
	var resized *image.NRGBA
	for _, pl := range p.Placements {
		if resized == nil || pl.Item.Image != last {
			resized = imaging.Resize(pl.Item.Image, g.CardW, g.CardH, imaging.Lanczos)
			last = pl.Item.Image
		}
		canvas = imaging.Overlay(canvas, resized, pl.Point, 1.0)
	}
	return canvas
}

// RenderAll renders pages concurrently with at most workers goroutines and
// returns the images in page order. It stops early when ctx is cancelled.
func RenderAll(ctx context.Context, g Grid, pages []Page, workers int) ([]*image.NRGBA, error) {
	out := make([]*image.NRGBA, len(pages))

	eg, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for i, p := range pages {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = Render(g, p)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
