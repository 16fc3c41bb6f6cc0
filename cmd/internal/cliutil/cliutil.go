// Package cliutil provides shared helpers for asnr command-line tools.
package cliutil

import (
	"fmt"
	"os"
)

// GetOutput opens the output file or returns stdout.
func GetOutput(outputFile string) (*os.File, func(), error) {
	if outputFile == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// PrintError writes a formatted error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
