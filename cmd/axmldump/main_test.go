package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunWithArgsTextualXMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "AndroidManifest.xml")
	if err := os.WriteFile(path, []byte(`<manifest package="com.example"/>`), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := runWithArgs([]string{path}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `package="com.example"`) {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestRunWithArgsMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runWithArgs([]string{"/nonexistent/path.xml"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "error reading") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestRunWithArgsWrongArgCount(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runWithArgs([]string{}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}

func TestRunWithArgsUnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runWithArgs([]string{"--not-a-flag"}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}
