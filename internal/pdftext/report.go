// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"
)

// Report is the YAML sidecar written next to an extraction.
type Report struct {
	Input       string    `yaml:"input"`
	Output      string    `yaml:"output,omitempty"`
	Status      string    `yaml:"status"`
	Pages       int       `yaml:"pages"`
	Characters  int       `yaml:"characters"`
	ErrorKind   ErrorKind `yaml:"error_kind,omitempty"`
	Error       string    `yaml:"error,omitempty"`
	ExtractedAt time.Time `yaml:"extracted_at"`
}

// NewReport summarises res. output is empty when nothing was written.
func NewReport(res Result, output string) Report {
	r := Report{
		Input:       res.Path,
		Output:      output,
		Status:      "ok",
		Pages:       res.Pages,
		Characters:  utf8.RuneCountInString(res.Text),
		ExtractedAt: time.Now().UTC(),
	}
	if res.Err != nil {
		r.Status = "failed"
		r.Output = ""
		r.ErrorKind = res.Err.Kind
		r.Error = res.Err.Message
	}
	return r
}

// WriteReport marshals r to a YAML file at path.
func WriteReport(path string, r Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
