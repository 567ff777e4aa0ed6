package shift

import (
	"sort"

	"github.com/tasukeai/shift-marketplace/internal/core/schedule"
)

// DateGroup は同一日付のシフトをまとめたバケットです。
type DateGroup struct {
	Date   string
	Shifts []*Shift
}

// FilterRange は表示日と表示期間に該当するシフトを選び出します。
// day モードでは元の並び順を保ったまま該当日のみを返し、week / two_weeks
// モードでは期間内のシフトを日付昇順に安定ソートして返します。
// スナップショットは変更せず、新しいスライスを返します。
func FilterRange(shifts []*Shift, displayDate string, mode schedule.RangeMode) ([]*Shift, error) {
	start, end, err := schedule.RangeBounds(displayDate, mode)
	if err != nil {
		return nil, err
	}

	selected := make([]*Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.Date >= start && s.Date <= end {
			selected = append(selected, s)
		}
	}

	if mode != schedule.RangeDay {
		sort.SliceStable(selected, func(i, j int) bool {
			return selected[i].Date < selected[j].Date
		})
	}

	return selected, nil
}

// GroupByDate はシフト列を日付ごとのバケットに分割します。バケットの順序は
// 入力で日付が最初に現れた順で、各シフトはちょうど 1 つのバケットに
// 属します。
func GroupByDate(shifts []*Shift) []DateGroup {
	groups := make([]DateGroup, 0)
	index := make(map[string]int)

	for _, s := range shifts {
		i, ok := index[s.Date]
		if !ok {
			i = len(groups)
			index[s.Date] = i
			groups = append(groups, DateGroup{Date: s.Date})
		}
		groups[i].Shifts = append(groups[i].Shifts, s)
	}

	return groups
}
