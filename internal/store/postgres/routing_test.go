package postgres

import (
	"testing"
	"time"

	"github.com/kalathilrainu/vista-project/internal/models"
)

func TestIsGeneralDeskName(t *testing.T) {
	cases := []struct {
		name    string
		general bool
	}{
		{"Village Officer", true},
		{"VO", true},
		{"VO Desk", true},
		{"vo desk 2", true},
		{"Asst. Village Officer", true},
		{"Visitor", true},
		{"Revenue Desk", false},
		{"Certificates", false},
		{"", false},
	}
	for _, tt := range cases {
		if got := isGeneralDeskName(tt.name); got != tt.general {
			t.Fatalf("isGeneralDeskName(%q)=%v, want %v", tt.name, got, tt.general)
		}
	}
}

func TestVisitLocation(t *testing.T) {
	if got := visitLocation(models.StatusWaiting, ""); got != "Waiting Area" {
		t.Fatalf("expected Waiting Area, got %q", got)
	}
	if got := visitLocation(models.StatusRouted, "Revenue Desk"); got != "Revenue Desk" {
		t.Fatalf("expected desk name, got %q", got)
	}
	if got := visitLocation(models.StatusCompleted, "Revenue Desk"); got != "Completed" {
		t.Fatalf("expected Completed, got %q", got)
	}
	if got := visitLocation(models.StatusCancelled, ""); got != "Cancelled" {
		t.Fatalf("expected Cancelled, got %q", got)
	}
}

func TestFileLocation(t *testing.T) {
	if got := fileLocation(models.FileStatusClosed, "Revenue Desk"); got != "Record Room" {
		t.Fatalf("expected Record Room, got %q", got)
	}
	if got := fileLocation(models.FileStatusOpen, "Revenue Desk"); got != "Revenue Desk" {
		t.Fatalf("expected desk name, got %q", got)
	}
	if got := fileLocation(models.FileStatusOpen, ""); got != "Record Room/Pending" {
		t.Fatalf("expected Record Room/Pending, got %q", got)
	}
}

func TestFileStatusLabel(t *testing.T) {
	if got := fileStatusLabel(models.FileStatusOpen, "With Tahsildar"); got != "Pending (With Tahsildar)" {
		t.Fatalf("expected interim note appended, got %q", got)
	}
	if got := fileStatusLabel(models.FileStatusOpen, ""); got != "Pending" {
		t.Fatalf("expected plain status, got %q", got)
	}
	if got := fileStatusLabel(models.FileStatusOpen, "Pending"); got != "Pending" {
		t.Fatalf("expected duplicate interim suppressed, got %q", got)
	}
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	at := time.Date(2026, 7, 14, 16, 45, 12, 0, loc)
	start, end := dayBounds(at)
	if !start.Equal(time.Date(2026, 7, 14, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected day start: %v", start)
	}
	if !end.Equal(time.Date(2026, 7, 15, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected day end: %v", end)
	}
}
