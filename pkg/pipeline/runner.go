package pipeline

import (
	"bytes"
	"context"
	"image"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cardpress/pkg/cache"
	"github.com/matzehuels/cardpress/pkg/observability"
	"github.com/matzehuels/cardpress/pkg/render/card"
	"github.com/matzehuels/cardpress/pkg/render/page"
	"github.com/matzehuels/cardpress/pkg/render/sink"
)

// Runner executes pipeline stages with caching.
// Both CLI and API use it so that caching and logging behave the same.
//
// The Runner holds no per-run state. Multiple goroutines can use the same
// Runner concurrently.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Workers int // concurrent cards or pages; <= 0 means GOMAXPROCS
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

func (r *Runner) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// RenderCards composes every spec and returns one result per spec in input
// order. Per-card failures are reported in the results; cancelling ctx marks
// the cards that had not started as failed with ctx.Err().
func (r *Runner) RenderCards(ctx context.Context, c Composer, specs []card.Spec) []CardResult {
	results := make([]CardResult, len(specs))

	var eg errgroup.Group
	eg.SetLimit(r.workers())
	for i, spec := range specs {
		eg.Go(func() error {
			results[i] = r.renderCard(ctx, c, spec)
			return nil
		})
	}
	_ = eg.Wait()

	failed := len(Failed(results))
	r.Logger.Info("rendered cards", "ok", len(specs)-failed, "failed", failed)
	return results
}

func (r *Runner) renderCard(ctx context.Context, c Composer, spec card.Spec) (res CardResult) {
	res.Spec = spec
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	start := time.Now()
	observability.Render().OnComposeStart(ctx, spec.ID)
	defer func() {
		res.Duration = time.Since(start)
		observability.Render().OnComposeComplete(ctx, spec.ID, res.Duration, res.Err)
	}()

	fp, err := c.Fingerprint(spec)
	if err != nil {
		res.Err = err
		r.Logger.Warn("card failed", "id", spec.ID, "err", err)
		return res
	}
	key := r.Keyer.CardKey(fp)

	if img, ok := r.cachedCard(ctx, key); ok {
		res.Card = &card.Rendered{ID: spec.ID, Image: img}
		res.Cached = true
		r.Logger.Debug("card from cache", "id", spec.ID)
		return res
	}

	rendered, err := c.Compose(spec)
	if err != nil {
		res.Err = err
		r.Logger.Warn("card failed", "id", spec.ID, "err", err)
		return res
	}
	res.Card = rendered
	for _, line := range rendered.Layout.Overlong {
		r.Logger.Warn("word wider than its text box", "id", spec.ID, "line", line)
	}

	var buf bytes.Buffer
	if err := sink.EncodePNG(&buf, rendered.Image); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLCard); err == nil {
			observability.Cache().OnCacheSet(ctx, "card", buf.Len())
		}
	}
	r.Logger.Debug("rendered card", "id", spec.ID, "slack", rendered.Layout.Slack)
	return res
}

func (r *Runner) cachedCard(ctx context.Context, key string) (img *image.NRGBA, ok bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "card")
		return nil, false
	}
	decoded, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		// Unreadable entries are re-rendered and overwritten.
		observability.Cache().OnCacheMiss(ctx, "card")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "card")
	return imaging.Clone(decoded), true
}

// TilePages lays out copies of items on pages, renders the pages and builds
// the combined PDF.
func (r *Runner) TilePages(ctx context.Context, items []page.Item, cfg page.Config) (sheet *Sheet, err error) {
	start := time.Now()
	observability.Render().OnTileStart(ctx, len(items))
	defer func() {
		pages := 0
		if sheet != nil {
			pages = len(sheet.Pages)
		}
		observability.Render().OnTileComplete(ctx, pages, time.Since(start), err)
	}()

	grid, pages, err := page.Tile(items, cfg)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("computed grid", "cols", grid.Cols, "rows", grid.Rows, "capacity", grid.Capacity())

	images, err := page.RenderAll(ctx, grid, pages, r.workers())
	if err != nil {
		return nil, err
	}

	sheet = &Sheet{Grid: grid, Pages: pages, Images: images}
	if len(images) > 0 {
		var buf bytes.Buffer
		if err := sink.WritePDF(&buf, images, cfg.PageWidthMM, cfg.PageHeightMM); err != nil {
			return nil, err
		}
		sheet.PDF = buf.Bytes()
	}

	r.Logger.Info("tiled pages",
		"cards", len(items),
		"instances", sheet.Instances(),
		"pages", len(pages),
		"duration", time.Since(start).Round(time.Millisecond))
	return sheet, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
