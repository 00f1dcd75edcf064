//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Extract builds the CLI and extracts the PDF named by $PDF into $OUT
// (default branding_prd.txt).
func Extract() error {
	pdf := os.Getenv("PDF")
	if pdf == "" {
		return fmt.Errorf("set PDF to the document to extract")
	}
	args := []string{"extract", pdf}
	if out := os.Getenv("OUT"); out != "" {
		args = append(args, "--output", out)
	}
	return runCLI(args...)
}

// Probe builds the CLI and runs the chat-completion connectivity probe.
func Probe() error {
	return runCLI("probe")
}

// runCLI builds bin/devkit and runs it with args.
func runCLI(args ...string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), args...)
}
