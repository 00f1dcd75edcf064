package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/devkit/internal/chat"
	"github.com/pdiddy/devkit/internal/pdftext"
	"github.com/pdiddy/devkit/pkg/types"
)

type pagesDoc []string

func (p pagesDoc) NumPages() int                  { return len(p) }
func (p pagesDoc) PageText(i int) (string, error) { return p[i-1], nil }

func stubExtractor(pages ...string) *pdftext.Extractor {
	return &pdftext.Extractor{Open: func(string) (pdftext.Document, io.Closer, error) {
		return pagesDoc(pages), nil, nil
	}}
}

func TestExtractToFile_WritesExactText(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prd.pdf")
	require.NoError(t, os.WriteFile(in, []byte("%PDF-1.4"), 0o644))

	cfg := types.ExtractConfig{
		InputPath:  in,
		OutputPath: filepath.Join(dir, "branding_prd.txt"),
		ReportPath: filepath.Join(dir, "report.yaml"),
	}
	var out, errOut bytes.Buffer

	res, err := extractToFile(context.Background(), stubExtractor("A", "B", "C"), cfg, &out, &errOut)
	require.NoError(t, err)
	assert.True(t, res.OK())

	data, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "ABC", string(data))
	assert.Equal(t, "Done\n", out.String())

	report, err := os.ReadFile(cfg.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "status: ok")
}

func TestExtractToFile_FailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	cfg := types.ExtractConfig{
		InputPath:  filepath.Join(dir, "missing.pdf"),
		OutputPath: filepath.Join(dir, "branding_prd.txt"),
		ReportPath: filepath.Join(dir, "report.yaml"),
	}
	var out, errOut bytes.Buffer

	res, err := extractToFile(context.Background(), pdftext.New(false), cfg, &out, &errOut)

	var ee *pdftext.ExtractError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, pdftext.KindNotFound, ee.Kind)
	assert.False(t, res.OK())

	_, statErr := os.Stat(cfg.OutputPath)
	assert.True(t, os.IsNotExist(statErr), "no output file should be written on failure")
	assert.Contains(t, errOut.String(), "extraction failed [not_found]")
	assert.Empty(t, out.String())

	report, err := os.ReadFile(cfg.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "status: failed")
	assert.Contains(t, string(report), "error_kind: not_found")
}

func TestExtractToFile_OutputWriteFailure(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "prd.pdf")
	require.NoError(t, os.WriteFile(in, []byte("%PDF-1.4"), 0o644))

	cfg := types.ExtractConfig{
		InputPath:  in,
		OutputPath: filepath.Join(dir, "no-such-dir", "out.txt"),
	}
	var out, errOut bytes.Buffer

	_, err := extractToFile(context.Background(), stubExtractor("A"), cfg, &out, &errOut)

	var ee *pdftext.ExtractError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, pdftext.KindWriteFailed, ee.Kind)
	assert.Equal(t, cfg.OutputPath, ee.Path)
	assert.ErrorIs(t, ee, os.ErrNotExist)
	assert.NotContains(t, out.String(), "Done")
	assert.Contains(t, errOut.String(), "extraction failed [write_failed]")
}

func TestProbeEndpoint_MissingKeyFailsBeforeRequest(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	cfg := types.ProbeConfig{BaseURL: ts.URL, Model: "m"}
	var out, errOut bytes.Buffer

	err := probeEndpoint(context.Background(), cfg, ts.Client(), &out, &errOut)

	assert.ErrorIs(t, err, chat.ErrMissingAPIKey)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestProbeEndpoint_ReportsFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"User not found.","code":401}}`)
	}))
	defer ts.Close()

	dir := t.TempDir()
	cfg := types.ProbeConfig{
		BaseURL:        ts.URL,
		Model:          "m",
		APIKey:         "sk-or-v1-secret-value",
		TranscriptPath: filepath.Join(dir, "transcript.yaml"),
	}
	var out, errOut bytes.Buffer

	err := probeEndpoint(context.Background(), cfg, ts.Client(), &out, &errOut)

	var apiErr *chat.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, out.String(), "API Error: first request:")
	assert.Contains(t, errOut.String(), "*chat.APIError")
	assert.NotContains(t, out.String(), "sk-or-v1", "key prefix is not printed by default")

	_, statErr := os.Stat(cfg.TranscriptPath)
	assert.NoError(t, statErr, "transcript is written even when the probe fails")
}

func TestProbeEndpoint_Success(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":"answer %d"}}]}`, n)
	}))
	defer ts.Close()

	cfg := types.ProbeConfig{BaseURL: ts.URL, Model: "m", APIKey: "sk-or-v1-secret-value", ShowKeyPrefix: true}
	var out, errOut bytes.Buffer

	require.NoError(t, probeEndpoint(context.Background(), cfg, ts.Client(), &out, &errOut))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Contains(t, out.String(), "Using API Key: sk-or-v1-s...")
	assert.Contains(t, out.String(), "answer 2")
	assert.Contains(t, out.String(), "API Connection Successful!")
}

func TestPrintErrorChain(t *testing.T) {
	root := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("second request: %w", fmt.Errorf("chat API request: %w", root))

	var buf bytes.Buffer
	printErrorChain(&buf, err)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Contains(t, string(lines[1]), "second request:")
	assert.Contains(t, string(lines[3]), "      *errors.errorString: dial tcp: connection refused")
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unreported error is printed", errors.New(`unknown run kind "x"`), "Error: unknown run kind \"x\"\n"},
		{"reported error is not printed again", reported(errors.New("first request: HTTP 401")), ""},
		{"wrapped reported error", fmt.Errorf("run: %w", reported(errors.New("boom"))), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportError(&buf, tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestProbeEndpoint_FailurePrintedOnce(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"User not found.","code":401}}`)
	}))
	defer ts.Close()

	cfg := types.ProbeConfig{BaseURL: ts.URL, Model: "m", APIKey: "sk-or-v1-secret-value"}
	var out, errOut bytes.Buffer

	err := probeEndpoint(context.Background(), cfg, ts.Client(), &out, &errOut)
	require.Error(t, err)
	reportError(&errOut, err)

	assert.Equal(t, 1, strings.Count(out.String(), "User not found."))
	assert.NotContains(t, errOut.String(), "Error: first request")
}
