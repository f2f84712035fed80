package sink

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/cardpress/pkg/errors"
)

// WritePDF writes pages as one PDF with a widthMM x heightMM page per image.
// Each image covers its page edge to edge.
func WritePDF(w io.Writer, pages []*image.NRGBA, widthMM, heightMM float64) error {
	if len(pages) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "pdf needs at least one page")
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: widthMM, Ht: heightMM},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	for i, img := range pages {
		var buf bytes.Buffer
		if err := EncodePNG(&buf, img); err != nil {
			return fmt.Errorf("pdf: encode page %d: %w", i+1, err)
		}
		name := fmt.Sprintf("page-%d", i+1)
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.AddPage()
		pdf.ImageOptions(name, 0, 0, widthMM, heightMM, false, opts, 0, "")
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("pdf: page %d: %w", i+1, err)
		}
	}
	return pdf.Output(w)
}
