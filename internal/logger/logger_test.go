package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	log.Info().Str("source", "extracto_enero.xml").Msg("decoded statement document")

	out := buf.String()
	if !strings.Contains(out, `"source":"extracto_enero.xml"`) {
		t.Errorf("missing structured field: %s", out)
	}
	if !strings.Contains(out, "decoded statement document") {
		t.Errorf("missing message: %s", out)
	}
}

func TestNew_Levels(t *testing.T) {
	if lvl := New(false).GetLevel(); lvl.String() != "info" {
		t.Errorf("default level: got %s, want info", lvl)
	}
	if lvl := New(true).GetLevel(); lvl.String() != "debug" {
		t.Errorf("debug level: got %s, want debug", lvl)
	}
}
