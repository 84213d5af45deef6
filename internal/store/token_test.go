package store

import (
	"testing"
	"time"
)

func TestFormatToken(t *testing.T) {
	day := time.Date(2026, 3, 5, 9, 30, 0, 0, time.UTC)
	cases := []struct {
		code string
		seq  int64
		want string
	}{
		{"KLM", 1, "KLM-20260305-001"},
		{"KLM", 42, "KLM-20260305-042"},
		{"TVM", 999, "TVM-20260305-999"},
		{"TVM", 1000, "TVM-20260305-1000"},
	}
	for _, tt := range cases {
		if got := FormatToken(tt.code, day, tt.seq); got != tt.want {
			t.Fatalf("FormatToken(%q, day, %d)=%q, want %q", tt.code, tt.seq, got, tt.want)
		}
	}
}

func TestFormatFileNumber(t *testing.T) {
	if got := FormatFileNumber(7, 2026); got != "7/2026" {
		t.Fatalf("FormatFileNumber(7, 2026)=%q, want %q", got, "7/2026")
	}
	if got := FormatFileNumber(153, 2025); got != "153/2025" {
		t.Fatalf("FormatFileNumber(153, 2025)=%q, want %q", got, "153/2025")
	}
}
