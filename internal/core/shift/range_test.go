package shift

import (
	"errors"
	"testing"

	"github.com/tasukeai/shift-marketplace/internal/core/schedule"
)

func sampleShifts() []*Shift {
	return []*Shift{
		{ID: "s1", Date: "2024-06-12", Department: DepartmentWard3A},
		{ID: "s2", Date: "2024-06-10", Department: DepartmentWard2A},
		{ID: "s3", Date: "2024-06-10", Department: DepartmentWard3B},
		{ID: "s4", Date: "2024-06-17", Department: DepartmentWard4A},
		{ID: "s5", Date: "2024-06-23", Department: DepartmentWard2A},
		{ID: "s6", Date: "2024-06-24", Department: DepartmentWard2A},
	}
}

func TestFilterRange_Day(t *testing.T) {
	t.Parallel()

	got, err := FilterRange(sampleShifts(), "2024-06-10", schedule.RangeDay)
	if err != nil {
		t.Fatalf("FilterRange returned error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 shifts, got %d", len(got))
	}
	// day モードは元の並び順を保つ。
	if got[0].ID != "s2" || got[1].ID != "s3" {
		t.Fatalf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestFilterRange_WeekSortsByDate(t *testing.T) {
	t.Parallel()

	got, err := FilterRange(sampleShifts(), "2024-06-10", schedule.RangeWeek)
	if err != nil {
		t.Fatalf("FilterRange returned error: %v", err)
	}

	wantIDs := []string{"s2", "s3", "s1"}
	if len(got) != len(wantIDs) {
		t.Fatalf("expected %d shifts, got %d", len(wantIDs), len(got))
	}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, got[i].ID)
		}
	}
}

func TestFilterRange_TwoWeeksIncludesEndDate(t *testing.T) {
	t.Parallel()

	got, err := FilterRange(sampleShifts(), "2024-06-10", schedule.RangeTwoWeeks)
	if err != nil {
		t.Fatalf("FilterRange returned error: %v", err)
	}

	// 2024-06-23 が終端。s5 は含まれ s6 は含まれない。
	ids := make(map[string]bool, len(got))
	for _, s := range got {
		ids[s.ID] = true
	}
	if !ids["s5"] {
		t.Fatalf("expected s5 inside two-week window")
	}
	if ids["s6"] {
		t.Fatalf("s6 is outside the two-week window")
	}
}

func TestFilterRange_DayMatchesSingleDayWeekWindow(t *testing.T) {
	t.Parallel()

	// day モードの結果は、同じ日付を両端とする週ロジックの部分集合選択と
	// 一致する。
	shifts := sampleShifts()

	dayResult, err := FilterRange(shifts, "2024-06-10", schedule.RangeDay)
	if err != nil {
		t.Fatalf("FilterRange(day) returned error: %v", err)
	}

	var windowResult []*Shift
	for _, s := range shifts {
		if s.Date >= "2024-06-10" && s.Date <= "2024-06-10" {
			windowResult = append(windowResult, s)
		}
	}

	if len(dayResult) != len(windowResult) {
		t.Fatalf("expected %d shifts, got %d", len(windowResult), len(dayResult))
	}
	for i := range dayResult {
		if dayResult[i].ID != windowResult[i].ID {
			t.Fatalf("position %d: expected %s, got %s", i, windowResult[i].ID, dayResult[i].ID)
		}
	}
}

func TestFilterRange_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := FilterRange(sampleShifts(), "2024-06-10", schedule.RangeMode("month")); !errors.Is(err, schedule.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := FilterRange(sampleShifts(), "june 10", schedule.RangeWeek); !errors.Is(err, schedule.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestGroupByDate(t *testing.T) {
	t.Parallel()

	sorted, err := FilterRange(sampleShifts(), "2024-06-10", schedule.RangeTwoWeeks)
	if err != nil {
		t.Fatalf("FilterRange returned error: %v", err)
	}

	groups := GroupByDate(sorted)

	wantDates := []string{"2024-06-10", "2024-06-12", "2024-06-17", "2024-06-23"}
	if len(groups) != len(wantDates) {
		t.Fatalf("expected %d groups, got %d", len(wantDates), len(groups))
	}

	total := 0
	for i, g := range groups {
		if g.Date != wantDates[i] {
			t.Fatalf("group %d: expected date %s, got %s", i, wantDates[i], g.Date)
		}
		total += len(g.Shifts)
		for _, s := range g.Shifts {
			if s.Date != g.Date {
				t.Fatalf("shift %s bucketed under %s", s.ID, g.Date)
			}
		}
	}
	if total != len(sorted) {
		t.Fatalf("expected every shift in exactly one group: %d != %d", total, len(sorted))
	}
}
