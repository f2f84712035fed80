package card

import (
	"bytes"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/cardpress/pkg/cache"
	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/fonts"
	"github.com/matzehuels/cardpress/pkg/resource"
)

// Composer renders cards with a fixed configuration.
// It is safe for concurrent use.
type Composer struct {
	cfg    Config
	images resource.Resolver
	header *fonts.Font
	body   *fonts.Font
}

// NewComposer validates cfg and loads both fonts from lib.
// Foreground images are looked up in images by the name given in each Spec.
func NewComposer(cfg Config, lib *fonts.Library, images resource.Resolver) (*Composer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if lib == nil {
		lib = fonts.NewLibrary(nil)
	}
	header, err := lib.Load(cfg.HeaderFont)
	if err != nil {
		return nil, err
	}
	body, err := lib.Load(cfg.BodyFont)
	if err != nil {
		return nil, err
	}
	return &Composer{cfg: cfg, images: images, header: header, body: body}, nil
}

// Config returns the configuration the composer was created with.
func (c *Composer) Config() Config { return c.cfg }

// Fingerprint returns a content hash of everything that affects the pixels
// of spec: the spec, the configuration, both fonts and the foreground image.
func (c *Composer) Fingerprint(spec Spec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}
	data, err := c.images.Resolve(spec.Image)
	if err != nil {
		return "", err
	}
	return cache.HashParts(spec, c.cfg, c.header.Digest, c.body.Digest, cache.Hash(data)), nil
}

// Compose renders spec. Errors are local to the card: RESOURCE_NOT_FOUND
// for a missing image, INVALID_GEOMETRY for an empty one and
// *errors.OverflowError when the content is too tall.
func (c *Composer) Compose(spec Spec) (*Rendered, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	data, err := c.images.Resolve(spec.Image)
	if err != nil {
		return nil, err
	}
	fg, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "card %q: decode image %s", spec.ID, spec.Image)
	}

	headerFace := c.header.Face(c.cfg.HeaderFontSize)
	bodyFace := c.body.Face(c.cfg.BodyFontSize)

	b := fg.Bounds()
	layout, err := Plan(spec, c.cfg, headerFace, bodyFace, b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(c.cfg.Width, c.cfg.Height)
	DrawFrame(dc, c.cfg, spec.Color)
	drawText(dc, layout.Header, headerFace)

	scaled := imaging.Resize(fg, layout.Foreground.W, layout.Foreground.H, imaging.Lanczos)
	dc.DrawImage(scaled, layout.Foreground.X, layout.Foreground.Y)

	drawText(dc, layout.Body, bodyFace)

	return &Rendered{ID: spec.ID, Image: imaging.Clone(dc.Image()), Layout: layout}, nil
}

// DrawFrame paints the rounded border in the named palette color and the
// black interior inset by one border width.
func DrawFrame(dc *gg.Context, cfg Config, colorName string) {
	w, h := float64(cfg.Width), float64(cfg.Height)
	bw := float64(cfg.BorderWidth)

	border, _ := ColorFor(colorName)
	dc.SetColor(border)
	dc.DrawRoundedRectangle(0, 0, w, h, CornerRadius)
	dc.Fill()

	dc.SetColor(black)
	dc.DrawRoundedRectangle(bw, bw, w-2*bw, h-2*bw, CornerRadius)
	dc.Fill()
}

// drawText paints the white backing box of tb and its lines in black.
// The box is skipped when it has no area.
func drawText(dc *gg.Context, tb TextBlock, face *fonts.Face) {
	if tb.Box.W > 0 && tb.Box.H > 0 {
		dc.SetColor(color.White)
		dc.DrawRectangle(tb.Box.X, tb.Box.Y, tb.Box.W, tb.Box.H)
		dc.Fill()
	}

	dc.SetFontFace(face.FontFace())
	dc.SetColor(color.Black)
	ascent := face.Ascent()
	y := tb.FirstY
	for i, line := range tb.Lines {
		dc.DrawString(line, tb.LineXs[i], y+ascent)
		y += tb.Advance
	}
}
