// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// pdfDocument adapts a ledongthuc/pdf Reader to Document.
type pdfDocument struct {
	r *pdf.Reader
}

// OpenPDF opens path with github.com/ledongthuc/pdf.
func OpenPDF(path string) (Document, io.Closer, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil, nil, fmt.Errorf("opening PDF: %w", err)
	}
	return &pdfDocument{r: r}, f, nil
}

func (d *pdfDocument) NumPages() int { return d.r.NumPage() }

// PageText decodes page i with that page's own font resources. Resource
// names like /F1 are scoped to a page, so the font map is never shared.
func (d *pdfDocument) PageText(i int) (string, error) {
	p := d.r.Page(i)
	if p.V.IsNull() {
		return "", nil
	}
	fonts := make(map[string]*pdf.Font)
	for _, name := range p.Fonts() {
		font := p.Font(name)
		fonts[name] = &font
	}
	return p.GetPlainText(fonts)
}
