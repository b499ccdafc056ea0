package layout

import (
	"strings"
	"testing"
	"time"
)

func TestFormatDue(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}

	tests := []struct {
		name string
		due  *time.Time
		want string
	}{
		{"unset", nil, "-"},
		{"past", at(-time.Hour), "due"},
		{"exactly now", at(0), "due"},
		{"relearn", at(10 * time.Minute), "in 10m"},
		{"hours", at(5 * time.Hour), "in 5h"},
		{"days", at(72 * time.Hour), "in 3d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDue(tt.due, now); got != tt.want {
				t.Errorf("FormatDue = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderHeaderShowsTitleAndUser(t *testing.T) {
	h := RenderHeader("Practice", "demo-user", 80)
	if !strings.Contains(h, "Practice") || !strings.Contains(h, "demo-user") {
		t.Errorf("header missing title or user:\n%s", h)
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) {
		t.Error("expected too small for narrow terminal")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("expected minimum size to be accepted")
	}
}
