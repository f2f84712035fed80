// Package fit computes uniform scale factors that fit a rectangle into
// independent width and height ceilings.
//
// The scale is the largest s >= 0 satisfying both s*w <= maxW and
// s*h <= maxH. With only two constraints the optimum is the tighter of the
// two bounds, so it is computed in closed form.
package fit

import (
	"math"

	"github.com/matzehuels/cardpress/pkg/errors"
)

// Scale returns the largest uniform scale factor that keeps a naturalW x
// naturalH rectangle within maxW x maxH. The result may be greater than one
// when the rectangle is smaller than both ceilings.
//
// A zero or negative natural dimension has no defined fit and returns an
// INVALID_GEOMETRY error, as do negative ceilings.
func Scale(naturalW, naturalH, maxW, maxH float64) (float64, error) {
	if naturalW <= 0 || naturalH <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidGeometry,
			"cannot fit %gx%g: natural dimensions must be positive", naturalW, naturalH)
	}
	if maxW < 0 || maxH < 0 {
		return 0, errors.New(errors.ErrCodeInvalidGeometry,
			"cannot fit into %gx%g: ceilings must not be negative", maxW, maxH)
	}
	return math.Min(maxW/naturalW, maxH/naturalH), nil
}

// Size scales a w x h rectangle into maxW x maxH and rounds the result to
// whole pixels. Rounding is downward so a ceiling is never exceeded, and a
// side is never less than one pixel.
func Size(w, h int, maxW, maxH float64) (int, int, error) {
	s, err := Scale(float64(w), float64(h), maxW, maxH)
	if err != nil {
		return 0, 0, err
	}
	return clampPx(float64(w)*s, maxW), clampPx(float64(h)*s, maxH), nil
}

// pxEpsilon absorbs float error so that 99.99999 still rounds to 100.
const pxEpsilon = 1e-6

// clampPx truncates v to whole pixels without exceeding limit.
func clampPx(v, limit float64) int {
	px := math.Min(math.Floor(v+pxEpsilon), math.Floor(limit+pxEpsilon))
	return max(1, int(px))
}
