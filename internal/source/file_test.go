package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadStripsBOMAndCRLF(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "input.rs")

	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("line one\r\nline two\n")...)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if string(f.Content) != "line one\nline two\n" {
		t.Fatalf("unexpected normalized content: %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 {
		t.Fatalf("expected FileHadBOM flag, got %v", f.Flags)
	}
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected FileNormalizedCRLF flag, got %v", f.Flags)
	}
	if f.Flags&FileVirtual != 0 {
		t.Fatalf("disk file must not carry FileVirtual")
	}
}

func TestLoadLeavesLoneCRAlone(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "input.rs")

	if err := os.WriteFile(path, []byte("a\rb\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if string(f.Content) != "a\rb\n" {
		t.Fatalf("lone \\r must survive, got %q", f.Content)
	}
	if f.Flags != 0 {
		t.Fatalf("expected no flags, got %v", f.Flags)
	}
}

func TestLoadHashesNormalizedContent(t *testing.T) {
	tmp := t.TempDir()
	crlfPath := filepath.Join(tmp, "crlf.rs")
	lfPath := filepath.Join(tmp, "lf.rs")

	if err := os.WriteFile(crlfPath, []byte("same\r\ntext\r\n"), 0o644); err != nil {
		t.Fatalf("failed to write crlf fixture: %v", err)
	}
	if err := os.WriteFile(lfPath, []byte("same\ntext\n"), 0o644); err != nil {
		t.Fatalf("failed to write lf fixture: %v", err)
	}

	crlf, err := Load(crlfPath)
	if err != nil {
		t.Fatalf("Load crlf returned error: %v", err)
	}
	lf, err := Load(lfPath)
	if err != nil {
		t.Fatalf("Load lf returned error: %v", err)
	}

	if crlf.Hash != lf.Hash {
		t.Fatalf("hash must be computed over normalized bytes")
	}
	if crlf.HashHex() != lf.HashHex() {
		t.Fatalf("hex form must match for identical hashes")
	}
	if len(crlf.HashHex()) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(crlf.HashHex()))
	}
}

func TestNewVirtualKeepsContentVerbatim(t *testing.T) {
	f := NewVirtual("test.rs", []byte("pub const SOURCE: &str = r#\"\n\"#;\n"))

	if f.Flags&FileVirtual == 0 {
		t.Fatalf("expected FileVirtual flag")
	}
	if f.Path != "test.rs" {
		t.Fatalf("unexpected path %q", f.Path)
	}

	lines := f.Lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (incl. trailing empty), got %d: %q", len(lines), lines)
	}
	if lines[1] != "\"#;" {
		t.Fatalf("unexpected second line %q", lines[1])
	}
	if lines[2] != "" {
		t.Fatalf("trailing newline must yield empty final line, got %q", lines[2])
	}
}
