package store

import (
	"testing"

	"github.com/kalathilrainu/vista-project/internal/models"
)

func TestValidTransition(t *testing.T) {
	cases := []struct {
		action string
		from   string
		valid  bool
	}{
		{"assign", models.StatusWaiting, true},
		{"assign", models.StatusRouted, true},
		{"assign", models.StatusInProgress, true},
		{"assign", models.StatusCompleted, false},
		{"attend", models.StatusWaiting, true},
		{"attend", models.StatusRouted, true},
		{"attend", models.StatusInProgress, false},
		{"transfer", models.StatusRouted, true},
		{"transfer", models.StatusInProgress, true},
		{"transfer", models.StatusCancelled, false},
		{"complete", models.StatusRouted, true},
		{"complete", models.StatusInProgress, true},
		{"complete", models.StatusWaiting, false},
		{"cancel", models.StatusWaiting, true},
		{"cancel", models.StatusInProgress, true},
		{"cancel", models.StatusCompleted, false},
		{"unknown", models.StatusWaiting, false},
	}

	for _, tt := range cases {
		if got := ValidTransition(tt.action, tt.from); got != tt.valid {
			t.Fatalf("ValidTransition(%q, %q)=%v, want %v", tt.action, tt.from, got, tt.valid)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if !IsTerminal(models.StatusCompleted) || !IsTerminal(models.StatusCancelled) {
		t.Fatalf("expected completed and cancelled to be terminal")
	}
	if IsTerminal(models.StatusWaiting) || IsTerminal(models.StatusRouted) || IsTerminal(models.StatusInProgress) {
		t.Fatalf("expected live statuses to be non-terminal")
	}
}
