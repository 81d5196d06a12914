package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunAcceptsRepositoryQueries(t *testing.T) {
	var stderr bytes.Buffer
	if code := run([]string{"../../sqlinline"}, &stderr); code != 0 {
		t.Fatalf("run = %d: %s", code, stderr.String())
	}
}

func TestRunFlagsMissingAndDuplicateMarkers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "q.go", "package q\n\n"+
		"const QOk = `--sql 11111111-2222-4333-8444-555555555555\nselect 1;`\n"+
		"const QDup = `--sql 11111111-2222-4333-8444-555555555555\nselect 2;`\n"+
		"const QBare = `\nselect 3;`\n"+
		"const Prose = \"We will select the best plan with care.\"\n")

	var stderr bytes.Buffer
	if code := run([]string{dir}, &stderr); code != 1 {
		t.Fatalf("run = %d, want 1", code)
	}
	out := stderr.String()
	if !strings.Contains(out, "marker already used by QOk (QDup)") {
		t.Fatalf("duplicate not reported:\n%s", out)
	}
	if !strings.Contains(out, "missing or invalid --sql <uuid> marker (QBare)") {
		t.Fatalf("missing marker not reported:\n%s", out)
	}
	if strings.Contains(out, "Prose") {
		t.Fatalf("prose flagged as SQL:\n%s", out)
	}
}
