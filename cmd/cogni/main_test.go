package main

import (
	"io"
	"os"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fnErr := fn()
	w.Close()
	out, readErr := io.ReadAll(r)
	if fnErr != nil {
		t.Fatalf("captured func: %v", fnErr)
	}
	if readErr != nil {
		t.Fatalf("read pipe: %v", readErr)
	}
	return string(out)
}

func TestGenerateCompletion_KnownShells(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		if err := generateCompletion(shell); err != nil {
			t.Fatalf("generateCompletion(%q) = %v", shell, err)
		}
	}
}

func TestGenerateCompletion_BashCompreplyIsBalanced(t *testing.T) {
	out := captureStdout(t, func() error { return generateCompletion("bash") })

	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "COMPREPLY=(") {
			continue
		}
		opens := strings.Count(line, "(")
		closes := strings.Count(line, ")")
		if opens != closes {
			t.Fatalf("unbalanced parentheses in completion line: %q", line)
		}
		return
	}
	t.Fatal("bash completion output has no COMPREPLY line")
}

func TestGenerateCompletion_UnknownShell(t *testing.T) {
	if err := generateCompletion("powershell"); err == nil {
		t.Fatal("generateCompletion accepted an unsupported shell")
	}
}
