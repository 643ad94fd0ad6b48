package window

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlan_SingleDayWindows(t *testing.T) {
	from := date(2025, 9, 1)
	to := date(2025, 9, 3)

	windows := Plan(&from, &to, 1)

	if len(windows) != 3 {
		t.Fatalf("len(windows) = %d, want 3", len(windows))
	}

	want := [][2]string{
		{"2025-09-01", "2025-09-01"},
		{"2025-09-02", "2025-09-02"},
		{"2025-09-03", "2025-09-03"},
	}
	for i, w := range windows {
		if w.FromParam() != want[i][0] || w.ToParam() != want[i][1] {
			t.Errorf("windows[%d] = %s..%s, want %s..%s",
				i, w.FromParam(), w.ToParam(), want[i][0], want[i][1])
		}
	}
}

func TestPlan_CoverageProperties(t *testing.T) {
	tests := []struct {
		name     string
		from, to time.Time
		sizeDays int
	}{
		{"week windows over a month", date(2025, 1, 1), date(2025, 1, 31), 7},
		{"size larger than range", date(2025, 3, 10), date(2025, 3, 12), 30},
		{"exact multiple", date(2025, 6, 1), date(2025, 6, 10), 5},
		{"single day range", date(2025, 2, 28), date(2025, 2, 28), 3},
		{"across a month boundary", date(2025, 4, 25), date(2025, 5, 5), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows := Plan(&tt.from, &tt.to, tt.sizeDays)

			if len(windows) == 0 {
				t.Fatal("Expected at least one window")
			}

			// First and last windows pin the overall bounds exactly.
			if !windows[0].From.Equal(tt.from) {
				t.Errorf("First window starts %v, want %v", windows[0].From, tt.from)
			}
			if !windows[len(windows)-1].To.Equal(tt.to) {
				t.Errorf("Last window ends %v, want %v", windows[len(windows)-1].To, tt.to)
			}

			for i, w := range windows {
				if w.From.After(*w.To) {
					t.Errorf("windows[%d] inverted: %s", i, w)
				}

				// Window width never exceeds the configured size.
				if days := int(w.To.Sub(*w.From).Hours()/24) + 1; days > tt.sizeDays {
					t.Errorf("windows[%d] spans %d days, want <= %d", i, days, tt.sizeDays)
				}

				// Contiguous: each window starts the day after its predecessor ends.
				if i > 0 {
					wantStart := windows[i-1].To.AddDate(0, 0, 1)
					if !w.From.Equal(wantStart) {
						t.Errorf("windows[%d] starts %v, want %v", i, w.From, wantStart)
					}
				}
			}
		})
	}
}

func TestPlan_ClampsWindowSize(t *testing.T) {
	from := date(2025, 9, 1)
	to := date(2025, 9, 2)

	windows := Plan(&from, &to, 0)

	if len(windows) != 2 {
		t.Fatalf("len(windows) = %d, want 2 (size clamped to 1)", len(windows))
	}
}

func TestPlan_OpenBounds(t *testing.T) {
	from := date(2025, 9, 1)

	tests := []struct {
		name     string
		from, to *time.Time
	}{
		{"both open", nil, nil},
		{"open upper", &from, nil},
		{"open lower", nil, &from},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows := Plan(tt.from, tt.to, 7)

			if len(windows) != 1 {
				t.Fatalf("len(windows) = %d, want 1", len(windows))
			}
			if (windows[0].From == nil) != (tt.from == nil) {
				t.Error("From bound not carried through")
			}
			if (windows[0].To == nil) != (tt.to == nil) {
				t.Error("To bound not carried through")
			}
		})
	}
}

func TestWindow_Params(t *testing.T) {
	from := date(2025, 9, 1)
	w := Window{From: &from}

	if w.FromParam() != "2025-09-01" {
		t.Errorf("FromParam() = %q", w.FromParam())
	}
	if w.ToParam() != "" {
		t.Errorf("ToParam() = %q, want empty for open bound", w.ToParam())
	}
	if w.String() != "2025-09-01..*" {
		t.Errorf("String() = %q", w.String())
	}
}

func TestLastDays(t *testing.T) {
	now := time.Date(2025, 9, 24, 15, 30, 0, 0, time.UTC)

	from, to := LastDays(7, now)

	if !to.Equal(date(2025, 9, 24)) {
		t.Errorf("to = %v, want 2025-09-24", to)
	}
	if !from.Equal(date(2025, 9, 18)) {
		t.Errorf("from = %v, want 2025-09-18", from)
	}

	// n=1 means today only.
	from, to = LastDays(1, now)
	if !from.Equal(*to) {
		t.Errorf("n=1: from %v != to %v", from, to)
	}
}
