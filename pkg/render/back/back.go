// Package back renders card backs: the card frame with a QR code in the
// middle. Backs have the same size as card faces so they can be tiled onto
// pages with the same grid.
package back

import (
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/render/card"
)

// Compose renders a back for cards of cfg with a frame in the named palette
// color and a QR code of payload. The code is square and as large as the
// safe area (the frame interior shrunk by one more border width) allows.
func Compose(cfg card.Config, color, payload string) (*image.NRGBA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload) == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "card back payload is empty")
	}

	inset := 2 * cfg.BorderWidth
	side := min(cfg.Width, cfg.Height) - 2*inset
	if side <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "no room for a QR code inside a %dx%d card", cfg.Width, cfg.Height)
	}

	q, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode QR payload")
	}

	dc := gg.NewContext(cfg.Width, cfg.Height)
	card.DrawFrame(dc, cfg, color)
	dc.DrawImage(q.Image(side), (cfg.Width-side)/2, (cfg.Height-side)/2)

	return imaging.Clone(dc.Image()), nil
}
