// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const swapAtoZ = "<< /Type /Encoding /BaseEncoding /WinAnsiEncoding /Differences [65 /Z] >>"

func TestOpenPDF_PageText(t *testing.T) {
	path := writePDF(t, buildPDF([]fixturePage{
		{Text: "A", Encoding: winAnsi},
		{Text: "A", Encoding: swapAtoZ},
	}))

	doc, closer, err := OpenPDF(path)
	require.NoError(t, err)
	defer closer.Close()

	require.Equal(t, 2, doc.NumPages())

	first, err := doc.PageText(1)
	require.NoError(t, err)
	assert.Equal(t, "A", first)

	second, err := doc.PageText(2)
	require.NoError(t, err)
	assert.Equal(t, "Z", second, "page 2 must decode with its own /F1, not page 1's")
}

func TestExtract_RealPDF(t *testing.T) {
	tests := []struct {
		name  string
		pages []fixturePage
		want  string
	}{
		{
			name: "pages concatenated in order",
			pages: []fixturePage{
				{Text: "A", Encoding: winAnsi},
				{Text: "B", Encoding: winAnsi},
				{Text: "C", Encoding: winAnsi},
			},
			want: "ABC",
		},
		{
			name: "same font name with different encodings per page",
			pages: []fixturePage{
				{Text: "A", Encoding: winAnsi},
				{Text: "A", Encoding: swapAtoZ},
			},
			want: "AZ",
		},
		{
			name: "page decoded after a remapped font",
			pages: []fixturePage{
				{Text: "A", Encoding: swapAtoZ},
				{Text: "A", Encoding: winAnsi},
			},
			want: "ZA",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writePDF(t, buildPDF(tc.pages))

			res := Extract(path)
			require.True(t, res.OK(), "unexpected error: %v", res.Err)
			assert.Equal(t, tc.want, res.Text)
			assert.Equal(t, len(tc.pages), res.Pages)
		})
	}
}

func TestStrictExtractor(t *testing.T) {
	data := buildPDF([]fixturePage{
		{Text: "A", Encoding: winAnsi},
		{Text: "B", Encoding: winAnsi},
	})

	t.Run("valid document passes validation", func(t *testing.T) {
		path := writePDF(t, data)

		require.NoError(t, ValidatePDF(path))

		res := New(true).Extract(context.Background(), path)
		require.True(t, res.OK(), "unexpected error: %v", res.Err)
		assert.Equal(t, "AB", res.Text)
	})

	t.Run("truncated document is invalid_format", func(t *testing.T) {
		path := writePDF(t, data[:32])

		assert.Error(t, ValidatePDF(path))

		res := New(true).Extract(context.Background(), path)
		require.NotNil(t, res.Err)
		assert.Equal(t, KindInvalidFormat, res.Err.Kind)
		assert.Empty(t, res.Text)
	})
}
