// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ValidatePDF runs pdfcpu's relaxed structural validation over path.
func ValidatePDF(path string) error {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return api.ValidateFile(path, cfg)
}
