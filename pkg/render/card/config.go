package card

import (
	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/fonts"
)

// CornerRadius is the radius of the card frame and its fill in pixels.
const CornerRadius = 20

// Config holds the card geometry shared by every card of a run.
// Lengths are in pixels, percents are fractions of the card width.
type Config struct {
	Width       int `toml:"card_width" json:"card_width"`
	Height      int `toml:"card_height" json:"card_height"`
	BorderWidth int `toml:"border_width" json:"border_width"`

	HeaderFont     string  `toml:"header_font" json:"header_font"`
	HeaderFontSize float64 `toml:"header_font_size" json:"header_font_size"`
	BodyFont       string  `toml:"body_font" json:"body_font"`
	BodyFontSize   float64 `toml:"body_font_size" json:"body_font_size"`

	HeaderWidthPercent float64 `toml:"header_width_percent" json:"header_width_percent"`
	BodyWidthPercent   float64 `toml:"body_width_percent" json:"body_width_percent"`
	FgWidthPercent     float64 `toml:"fg_width_percent" json:"fg_width_percent"`
	FgMaxHeight        int     `toml:"fg_maxheight" json:"fg_maxheight"`

	HeaderLineSpacing float64 `toml:"header_line_spacing" json:"header_line_spacing"`
	BodyLineSpacing   float64 `toml:"body_line_spacing" json:"body_line_spacing"`

	HeaderY   int `toml:"header_y" json:"header_y"`
	HeaderPad int `toml:"header_pad" json:"header_pad"`
	BodyPad   int `toml:"body_pad" json:"body_pad"`

	// BodyY is a floor for the top of the body box. With a value below
	// the foreground bottom plus BodyPad it has no effect; a larger value
	// pushes the body box down and leaves less room for body text.
	BodyY int `toml:"body_y" json:"body_y"`

	// TextBoxPercent shrinks both wrap budgets so text keeps a margin
	// inside its backing box.
	TextBoxPercent float64 `toml:"text_percent_box" json:"text_percent_box"`
}

// DefaultConfig returns a 60x90mm card at 300 DPI.
func DefaultConfig() Config {
	return Config{
		Width:              708,
		Height:             1062,
		BorderWidth:        12,
		HeaderFont:         "gobold",
		HeaderFontSize:     48,
		BodyFont:           fonts.Default,
		BodyFontSize:       32,
		HeaderWidthPercent: 0.8,
		BodyWidthPercent:   0.8,
		FgWidthPercent:     0.8,
		FgMaxHeight:        450,
		HeaderLineSpacing:  1.2,
		BodyLineSpacing:    1.2,
		HeaderY:            60,
		HeaderPad:          30,
		BodyPad:            30,
		TextBoxPercent:     0.9,
	}
}

// Validate reports the first field that is out of range.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"card_width", float64(c.Width)},
		{"card_height", float64(c.Height)},
		{"header_font_size", c.HeaderFontSize},
		{"body_font_size", c.BodyFontSize},
		{"fg_maxheight", float64(c.FgMaxHeight)},
		{"header_line_spacing", c.HeaderLineSpacing},
		{"body_line_spacing", c.BodyLineSpacing},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %g", p.name, p.value)
		}
	}

	percents := []struct {
		name  string
		value float64
	}{
		{"header_width_percent", c.HeaderWidthPercent},
		{"body_width_percent", c.BodyWidthPercent},
		{"fg_width_percent", c.FgWidthPercent},
		{"text_percent_box", c.TextBoxPercent},
	}
	for _, p := range percents {
		if p.value <= 0 || p.value > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be in (0,1], got %g", p.name, p.value)
		}
	}

	nonNegative := []struct {
		name  string
		value int
	}{
		{"border_width", c.BorderWidth},
		{"header_y", c.HeaderY},
		{"body_y", c.BodyY},
		{"header_pad", c.HeaderPad},
		{"body_pad", c.BodyPad},
	}
	for _, n := range nonNegative {
		if n.value < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must not be negative, got %d", n.name, n.value)
		}
	}

	if 2*c.BorderWidth >= c.Width || 2*c.BorderWidth >= c.Height {
		return errors.New(errors.ErrCodeInvalidConfig, "border_width %d leaves no room inside a %dx%d card", c.BorderWidth, c.Width, c.Height)
	}
	return nil
}
