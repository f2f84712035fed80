package card

import (
	"image/color"
	"sort"
	"strings"
)

// Palette maps border color names to colors.
var Palette = map[string]color.NRGBA{
	"red":     {R: 255, G: 0, B: 0, A: 255},
	"green":   {R: 0, G: 200, B: 0, A: 255},
	"blue":    {R: 0, G: 100, B: 255, A: 255},
	"orange":  {R: 255, G: 140, B: 0, A: 255},
	"purple":  {R: 160, G: 32, B: 240, A: 255},
	"cyan":    {R: 0, G: 200, B: 200, A: 255},
	"yellow":  {R: 255, G: 215, B: 0, A: 255},
	"magenta": {R: 255, G: 0, B: 200, A: 255},
	"lime":    {R: 150, G: 255, B: 0, A: 255},
}

var black = color.NRGBA{A: 255}

// ColorFor returns the palette color for name. Lookup ignores case and
// surrounding space. Unknown names return black and ok=false.
func ColorFor(name string) (c color.NRGBA, ok bool) {
	c, ok = Palette[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return black, false
	}
	return c, true
}

// ColorNames returns the palette names in sorted order.
func ColorNames() []string {
	names := make([]string, 0, len(Palette))
	for name := range Palette {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
