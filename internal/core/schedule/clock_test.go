package schedule

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseClock_Success(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
	}{
		{"00:00", 0},
		{"08:00", 8},
		{"09:30", 9.5},
		{"17:45", 17.75},
		{"23:59", 23 + 59.0/60},
	}

	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if err != nil {
			t.Fatalf("ParseClock(%q) returned error: %v", tc.in, err)
		}
		if !almostEqual(got, tc.want) {
			t.Fatalf("ParseClock(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseClock_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "9", "09:60", "09:-1", "ab:cd", "09:00:00", "-1:30"} {
		if _, err := ParseClock(in); !errors.Is(err, ErrInvalidClock) {
			t.Fatalf("ParseClock(%q): expected ErrInvalidClock, got %v", in, err)
		}
	}
}

func TestDurationHours_SameDay(t *testing.T) {
	t.Parallel()

	got, err := DurationHours("09:00", "17:00")
	if err != nil {
		t.Fatalf("DurationHours returned error: %v", err)
	}
	if !almostEqual(got, 8) {
		t.Fatalf("expected 8 hours, got %v", got)
	}
}

func TestDurationHours_Overnight(t *testing.T) {
	t.Parallel()

	got, err := DurationHours("22:00", "06:00")
	if err != nil {
		t.Fatalf("DurationHours returned error: %v", err)
	}
	if !almostEqual(got, 8) {
		t.Fatalf("expected 8 hours, got %v", got)
	}
}

func TestDurationHours_ExplicitMidnightEnd(t *testing.T) {
	t.Parallel()

	// 夜勤が 24:00 でなく 00:00 として記録された場合。-19 時間ではなく
	// 5 時間として扱う。
	got, err := DurationHours("19:00", "00:00")
	if err != nil {
		t.Fatalf("DurationHours returned error: %v", err)
	}
	if !almostEqual(got, 5) {
		t.Fatalf("expected 5 hours, got %v", got)
	}
}

func TestDurationHours_MidnightStart(t *testing.T) {
	t.Parallel()

	got, err := DurationHours("00:00", "00:00")
	if err != nil {
		t.Fatalf("DurationHours returned error: %v", err)
	}
	if !almostEqual(got, 0) {
		t.Fatalf("expected 0 hours, got %v", got)
	}
}

func TestDurationHours_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := DurationHours("25時", "08:00"); !errors.Is(err, ErrInvalidClock) {
		t.Fatalf("expected ErrInvalidClock, got %v", err)
	}
	if _, err := DurationHours("08:00", "8pm"); !errors.Is(err, ErrInvalidClock) {
		t.Fatalf("expected ErrInvalidClock, got %v", err)
	}
}
