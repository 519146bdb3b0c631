package parser

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	layout := "02/01/2006"

	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"01/02/2024", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"1/1/2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"5/12/2024", time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC), true},
		{"15/3/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{" 15/12/2023 ", time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"not-a-date", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.in, layout)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDecodeEntities(t *testing.T) {
	in := `A &amp; B NUM_CUENTA=&#34;123&#34; &lt;tag&gt;`
	want := `A & B NUM_CUENTA="123" <tag>`
	if got := DecodeEntities(in); got != want {
		t.Errorf("DecodeEntities: got %q, want %q", got, want)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("ñandú", 3); got != "ñan" {
		t.Errorf("truncateRunes: got %q, want %q", got, "ñan")
	}
	if got := truncateRunes("ok", 10); got != "ok" {
		t.Errorf("truncateRunes: got %q, want %q", got, "ok")
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("uno\ndos"); got != "uno" {
		t.Errorf("firstLine: got %q, want %q", got, "uno")
	}
	if got := firstLine("solo"); got != "solo" {
		t.Errorf("firstLine: got %q, want %q", got, "solo")
	}
}
