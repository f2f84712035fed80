package config

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/cardpress/pkg/errors"
)

// ParseFlat reads key=value lines. Blank lines and lines starting with # or
// ; are ignored. Keys and values are trimmed; a value may itself contain =.
func ParseFlat(r io.Reader) (map[string]string, error) {
	m := make(map[string]string)
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "line %d: expected key=value, got %q", n, line)
		}
		m[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	return m, nil
}

// FromMap applies flat keys to the defaults. Values that do not parse as
// their field's type are reported with the key name. Unknown keys are
// ignored so that files carrying settings for other tools still load.
func FromMap(m map[string]string) (File, error) {
	f := Default()
	fields := flatFields(&f)
	for key, value := range m {
		set, ok := fields[key]
		if !ok {
			continue
		}
		if err := set(value); err != nil {
			return File{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config key %s", key)
		}
	}
	return f, nil
}

// flatFields maps every flat key to a setter on f.
func flatFields(f *File) map[string]func(string) error {
	return map[string]func(string) error{
		"input_dir":  str(&f.Paths.InputDir),
		"csv_file":   str(&f.Paths.CSVFile),
		"fonts_dir":  str(&f.Paths.FontsDir),
		"images_dir": str(&f.Paths.ImagesDir),
		"output_dir": str(&f.Paths.OutputDir),
		"layout_dir": str(&f.Paths.LayoutDir),

		"card_width":           integer(&f.Card.Width),
		"card_height":          integer(&f.Card.Height),
		"border_width":         integer(&f.Card.BorderWidth),
		"header_font":          str(&f.Card.HeaderFont),
		"header_font_size":     float(&f.Card.HeaderFontSize),
		"body_font":            str(&f.Card.BodyFont),
		"body_font_size":       float(&f.Card.BodyFontSize),
		"header_width_percent": float(&f.Card.HeaderWidthPercent),
		"body_width_percent":   float(&f.Card.BodyWidthPercent),
		"fg_width_percent":     float(&f.Card.FgWidthPercent),
		"fg_maxheight":         integer(&f.Card.FgMaxHeight),
		"header_line_spacing":  float(&f.Card.HeaderLineSpacing),
		"body_line_spacing":    float(&f.Card.BodyLineSpacing),
		"header_y":             integer(&f.Card.HeaderY),
		"body_y":               integer(&f.Card.BodyY),
		"header_pad":           integer(&f.Card.HeaderPad),
		"body_pad":             integer(&f.Card.BodyPad),
		"text_percent_box":     float(&f.Card.TextBoxPercent),

		"page_width_mm":  float(&f.Page.PageWidthMM),
		"page_height_mm": float(&f.Page.PageHeightMM),
		"dpi":            float(&f.Page.DPI),
		"card_width_mm":  float(&f.Page.CardWidthMM),
		"card_height_mm": float(&f.Page.CardHeightMM),
		"copies":         integer(&f.Page.Copies),
		"pad_mm":         float(&f.Page.PadMM),
		"gap_mm":         float(&f.Page.GapMM),
	}
}

func str(p *string) func(string) error {
	return func(v string) error {
		*p = v
		return nil
	}
}

func integer(p *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*p = n
		return nil
	}
}

func float(p *float64) func(string) error {
	return func(v string) error {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*p = n
		return nil
	}
}
