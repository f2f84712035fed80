package card

import (
	"math"

	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/render/fit"
	"github.com/matzehuels/cardpress/pkg/render/text"
)

// Box is an axis-aligned rectangle in card pixels.
type Box struct {
	X, Y, W, H float64
}

// Bottom returns the y coordinate of the lower edge.
func (b Box) Bottom() float64 { return b.Y + b.H }

// TextBlock is a wrapped block of text and the box behind it.
type TextBlock struct {
	Box     Box
	Lines   []string
	LineXs  []float64 // left edge of each line
	FirstY  float64   // top of the first line
	Advance float64   // distance between the tops of consecutive lines
	Height  float64   // height of the text itself
}

// Layout is the computed geometry of one card.
type Layout struct {
	Header     TextBlock
	Foreground Rect
	Body       TextBlock

	// Slack is the vertical space left in the body box after its text.
	// It is never negative in a Layout returned without error.
	Slack float64

	// Overlong lists lines holding a single word wider than its wrap budget.
	Overlong []string
}

// Rect is an integer pixel rectangle.
type Rect struct {
	X, Y int
	W, H int
}

// Plan computes the layout of spec on a card described by cfg. header and
// body measure text in the two fonts, fgW and fgH are the natural size of
// the foreground image.
//
// Plan fails with INVALID_GEOMETRY when the image has no area and with an
// *errors.OverflowError when the body text is taller than the space left
// for it.
func Plan(spec Spec, cfg Config, header, body text.Measurer, fgW, fgH int) (Layout, error) {
	var l Layout
	width := float64(cfg.Width)

	// Header: shrink-to-fit box at HeaderY.
	headerW := cfg.HeaderWidthPercent * width
	l.Header = block(spec.Header, header, headerW, cfg.TextBoxPercent, cfg.HeaderLineSpacing)
	l.Header.Box = Box{
		X: (width - headerW) / 2,
		Y: float64(cfg.HeaderY),
		W: headerW,
		H: l.Header.Height,
	}
	l.Header.FirstY = l.Header.Box.Y
	lineX := (width - headerW*cfg.TextBoxPercent) / 2
	for i := range l.Header.Lines {
		l.Header.LineXs[i] = lineX
	}

	// Foreground: tightest uniform scale, centered below the header.
	w, h, err := fit.Size(fgW, fgH, cfg.FgWidthPercent*width, float64(cfg.FgMaxHeight))
	if err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidGeometry, err, "card %q: foreground %s", spec.ID, spec.Image)
	}
	l.Foreground = Rect{
		X: int(math.Round((width - float64(w)) / 2)),
		Y: int(math.Round(l.Header.Box.Bottom() + float64(cfg.HeaderPad))),
		W: w,
		H: h,
	}

	// Body: fill-to-bottom box, text centered both ways.
	bodyW := cfg.BodyWidthPercent * width
	bodyY := math.Max(float64(l.Foreground.Y+l.Foreground.H+cfg.BodyPad), float64(cfg.BodyY))
	l.Body = block(spec.Body, body, bodyW, cfg.TextBoxPercent, cfg.BodyLineSpacing)
	l.Body.Box = Box{
		X: (width - bodyW) / 2,
		Y: bodyY,
		W: bodyW,
		H: float64(cfg.Height) - bodyY - float64(cfg.BodyPad) - float64(cfg.BorderWidth),
	}
	l.Slack = l.Body.Box.H - l.Body.Height
	if l.Slack < 0 {
		return Layout{}, &errors.OverflowError{Card: spec.ID, Deficit: -l.Slack}
	}
	l.Body.FirstY = l.Body.Box.Y + l.Slack/2
	for i, line := range l.Body.Lines {
		lw, _ := body.Measure(line)
		l.Body.LineXs[i] = (width - lw) / 2
	}

	l.Overlong = append(overlong(l.Header.Lines, header, headerW, cfg.TextBoxPercent),
		overlong(l.Body.Lines, body, bodyW, cfg.TextBoxPercent)...)
	return l, nil
}

func block(s string, m text.Measurer, maxWidth, boxPercent, spacing float64) TextBlock {
	lines := text.Wrap(s, m, maxWidth, boxPercent)
	lh := m.LineHeight()
	return TextBlock{
		Lines:   lines,
		LineXs:  make([]float64, len(lines)),
		Advance: lh * spacing,
		Height:  text.BlockHeight(lh, spacing, len(lines)),
	}
}

func overlong(lines []string, m text.Measurer, maxWidth, boxPercent float64) []string {
	var out []string
	for _, i := range text.Overflows(lines, m, maxWidth, boxPercent) {
		out = append(out, lines[i])
	}
	return out
}
