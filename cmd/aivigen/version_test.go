package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRenderVersionPretty(t *testing.T) {
	info := versionInfo{Version: "1.2.3", GitCommit: "", BuildDate: ""}

	var buf bytes.Buffer
	renderVersionPretty(&buf, info, false)
	if got := buf.String(); got != "aivigen 1.2.3\n" {
		t.Fatalf("short output = %q", got)
	}

	buf.Reset()
	renderVersionPretty(&buf, info, true)
	out := buf.String()
	if !strings.Contains(out, "commit: unknown") || !strings.Contains(out, "built:  unknown") {
		t.Fatalf("full output missing placeholders:\n%s", out)
	}
}

func TestRenderVersionJSON(t *testing.T) {
	info := versionInfo{Version: "1.2.3", GitCommit: "deadbeef", BuildDate: "2026-01-01"}

	var buf bytes.Buffer
	if err := renderVersionJSON(&buf, info, true); err != nil {
		t.Fatalf("renderVersionJSON: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload.Tool != "aivigen" || payload.Version != "1.2.3" {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.GitCommit != "deadbeef" || payload.BuildDate != "2026-01-01" {
		t.Fatalf("payload metadata = %+v", payload)
	}

	// Без --full метаданные опускаются.
	buf.Reset()
	if err := renderVersionJSON(&buf, info, false); err != nil {
		t.Fatalf("renderVersionJSON: %v", err)
	}
	if strings.Contains(buf.String(), "git_commit") {
		t.Fatalf("short JSON must omit metadata: %s", buf.String())
	}
}

func TestCollectVersionInfoNeverEmpty(t *testing.T) {
	info := collectVersionInfo()
	if info.Version == "" {
		t.Fatal("version must never be empty")
	}
}

func TestValueOrUnknown(t *testing.T) {
	if valueOrUnknown("") != "unknown" {
		t.Fatal("empty must map to unknown")
	}
	if valueOrUnknown("x") != "x" {
		t.Fatal("non-empty must pass through")
	}
}
