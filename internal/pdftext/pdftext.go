// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts plain text from PDF documents.
//
// Extraction returns a tagged Result: either the concatenated text of every
// page in document order, or a structured ExtractError. Failures are never
// folded into the text, so callers cannot persist an error message as if it
// were document content.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrorKind classifies an extraction failure.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "not_found"
	KindPermission    ErrorKind = "permission"
	KindInvalidFormat ErrorKind = "invalid_format"
	KindReadFailed    ErrorKind = "read_failed"
	KindWriteFailed   ErrorKind = "write_failed"
)

// ExtractError describes why a document could not be extracted.
type ExtractError struct {
	Kind    ErrorKind
	Path    string
	Page    int // 1-based page that failed; 0 when not page-specific
	Message string
	Err     error
}

func (e *ExtractError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("%s: %s (page %d): %s", e.Kind, e.Path, e.Page, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Path, e.Message)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// Result is the outcome of extracting one document. Exactly one of Text
// (possibly empty) or Err is meaningful: when Err is set, Text is empty.
type Result struct {
	Path  string
	Text  string
	Pages int
	Err   *ExtractError
}

// OK reports whether extraction succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Document is an opened PDF that yields page text in document order.
type Document interface {
	// NumPages returns the number of pages.
	NumPages() int
	// PageText returns the plain text of page i, where 1 <= i <= NumPages().
	PageText(i int) (string, error)
}

// Opener opens the document at path. The returned Closer releases the
// underlying file.
type Opener func(path string) (Document, io.Closer, error)

// Validator checks the structure of the file at path before it is opened.
type Validator func(path string) error

// Extractor extracts text from PDF files.
type Extractor struct {
	// Open opens documents. Defaults to OpenPDF.
	Open Opener

	// Validate, when set, runs before Open. A validation failure is
	// reported as KindInvalidFormat.
	Validate Validator
}

// New returns an Extractor backed by OpenPDF. When strict is true the file
// is structurally validated first.
func New(strict bool) *Extractor {
	e := &Extractor{Open: OpenPDF}
	if strict {
		e.Validate = ValidatePDF
	}
	return e
}

// Extract extracts the text of the document at path with the default opener.
func Extract(path string) Result {
	return New(false).Extract(context.Background(), path)
}

// Extract opens the document at path and concatenates the text of all of
// its pages in order, with no separator between pages. A document with no
// pages yields an empty, successful result. Extract does not panic: parser
// panics on malformed input are reported as KindInvalidFormat.
func (e *Extractor) Extract(ctx context.Context, path string) (res Result) {
	res.Path = path

	defer func() {
		if r := recover(); r != nil {
			res.Text = ""
			res.Err = &ExtractError{
				Kind:    KindInvalidFormat,
				Path:    path,
				Message: fmt.Sprintf("malformed document: %v", r),
			}
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Err = &ExtractError{Kind: KindReadFailed, Path: path, Message: err.Error(), Err: err}
		return res
	}

	if _, err := os.Stat(path); err != nil {
		res.Err = classify(path, err)
		return res
	}

	if e.Validate != nil {
		if err := e.Validate(path); err != nil {
			res.Err = &ExtractError{Kind: KindInvalidFormat, Path: path, Message: err.Error(), Err: err}
			return res
		}
	}

	open := e.Open
	if open == nil {
		open = OpenPDF
	}

	doc, closer, err := open(path)
	if err != nil {
		res.Err = classify(path, err)
		return res
	}
	if closer != nil {
		defer closer.Close()
	}

	text, err := ExtractDocument(doc)
	if err != nil {
		var pe *pageError
		if errors.As(err, &pe) {
			res.Err = &ExtractError{Kind: KindReadFailed, Path: path, Page: pe.page, Message: pe.err.Error(), Err: pe.err}
		} else {
			res.Err = &ExtractError{Kind: KindReadFailed, Path: path, Message: err.Error(), Err: err}
		}
		return res
	}

	res.Text = text
	res.Pages = doc.NumPages()
	return res
}

// pageError records which page failed during ExtractDocument.
type pageError struct {
	page int
	err  error
}

func (p *pageError) Error() string { return fmt.Sprintf("page %d: %v", p.page, p.err) }
func (p *pageError) Unwrap() error { return p.err }

// ExtractDocument concatenates PageText(1..N) of an opened document.
func ExtractDocument(doc Document) (string, error) {
	var b strings.Builder
	n := doc.NumPages()
	for i := 1; i <= n; i++ {
		text, err := doc.PageText(i)
		if err != nil {
			return "", &pageError{page: i, err: err}
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

// classify maps an open error onto an ErrorKind.
func classify(path string, err error) *ExtractError {
	kind := KindInvalidFormat
	switch {
	case errors.Is(err, os.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, os.ErrPermission):
		kind = KindPermission
	}
	return &ExtractError{Kind: kind, Path: path, Message: err.Error(), Err: err}
}

// WriteText writes text to path as UTF-8, replacing any existing content.
func WriteText(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return &ExtractError{Kind: KindWriteFailed, Path: path, Message: err.Error(), Err: err}
	}
	return nil
}
