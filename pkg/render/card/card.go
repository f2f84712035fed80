// Package card composes a single trading card image.
//
// A card is a fixed-size canvas with a rounded frame in the card's palette
// color, a header text block, a foreground illustration scaled to fit, and
// a body text block. Layout runs in one pass from top to bottom:
//
//  1. The header is wrapped to HeaderWidthPercent of the card width and
//     drawn on a white box that is exactly as tall as its text.
//  2. The foreground image is scaled uniformly so it fits both
//     FgWidthPercent of the card width and FgMaxHeight, then centered below
//     the header.
//  3. The body box fills the rest of the card down to the bottom border.
//     Body lines are centered horizontally and the block is centered
//     vertically inside the box.
//
// Geometry is computed by [Plan], which is pure and works on any
// [text.Measurer]. [Composer] resolves fonts and images and draws the plan.
// Content that does not fit is reported as an *errors.OverflowError; the
// compositor never clips.
package card

import (
	"image"
	"strings"

	"github.com/matzehuels/cardpress/pkg/errors"
)

// Spec describes one card. All fields are required.
type Spec struct {
	Header string `json:"header"`
	Body   string `json:"body"`
	Image  string `json:"image"` // foreground image name, resolved without extension
	Color  string `json:"color"` // palette name, unknown names render black
	ID     string `json:"id"`    // output identifier, used as the file name
}

// Validate checks that every field is set and that ID is usable as a file name.
func (s Spec) Validate() error {
	fields := []struct{ name, value string }{
		{"header", s.Header},
		{"body", s.Body},
		{"image", s.Image},
		{"color", s.Color},
		{"id", s.ID},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return errors.New(errors.ErrCodeInvalidInput, "card %q: %s is empty", s.ID, f.name)
		}
	}
	return errors.ValidateOutputID(s.ID)
}

// Rendered is a composed card.
type Rendered struct {
	ID     string
	Image  *image.NRGBA
	Layout Layout
}
