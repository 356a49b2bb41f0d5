package app

import (
	"fmt"
	"os"
	"strings"
)

// CheckPDF rejects non-PDF or oversize files before any request is sent.
func CheckPDF(path string, maxMiB int64) error {
	if maxMiB <= 0 {
		maxMiB = 20
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return &ValidationError{Filename: path, Reason: "not a PDF file"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Filename: path, Reason: "file not readable"}
	}
	if info.Size() > maxMiB<<20 {
		return &ValidationError{Filename: path, Reason: fmt.Sprintf("exceeds %d MiB", maxMiB)}
	}
	return nil
}
