package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// wrapPDF builds a one-page PDF the exact size of the bitmap, one point per pixel.
func wrapPDF(bm Bitmap) ([]byte, error) {
	w, h := float64(bm.Width), float64(bm.Height)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("view", opts, bytes.NewReader(bm.PNG))
	pdf.ImageOptions("view", 0, 0, w, h, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
