package schedule

import (
	"fmt"
	"time"
)

// RangeMode はダッシュボードの表示期間を表します。
type RangeMode string

const (
	RangeDay      RangeMode = "day"
	RangeWeek     RangeMode = "week"
	RangeTwoWeeks RangeMode = "two_weeks"
)

// Direction は日付送りの向きです。
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

const isoDateLayout = "2006-01-02"

// IsValidRangeMode は既知の表示期間かどうかを返します。
func IsValidRangeMode(mode RangeMode) bool {
	switch mode {
	case RangeDay, RangeWeek, RangeTwoWeeks:
		return true
	default:
		return false
	}
}

// Days は表示期間に含まれる日数を返します。
func (m RangeMode) Days() int {
	switch m {
	case RangeWeek:
		return 7
	case RangeTwoWeeks:
		return 14
	default:
		return 1
	}
}

// AddDays は ISO 日付文字列に暦日ベースで日数を加算します。表示バンドの
// 8 時起点とは無関係に、通常のカレンダー日で繰り上がります。
func AddDays(date string, days int) (string, error) {
	t, err := time.Parse(isoDateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t.AddDate(0, 0, days).Format(isoDateLayout), nil
}

// RangeBounds は表示日と表示期間から対象期間の開始日・終了日（両端含む）を
// 返します。ISO 日付はゼロ埋めされているため、返った両端は辞書順比較で
// そのまま範囲判定に使えます。
func RangeBounds(displayDate string, mode RangeMode) (string, string, error) {
	if !IsValidRangeMode(mode) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRange, mode)
	}

	end, err := AddDays(displayDate, mode.Days()-1)
	if err != nil {
		return "", "", err
	}
	return displayDate, end, nil
}

// MoveDate は表示日を前後に送ります。day モードでは 1 日、week / two_weeks
// モードでは 7 日単位で動かします。週の途中に着地しないための仕様です。
func MoveDate(displayDate string, dir Direction, mode RangeMode) (string, error) {
	if !IsValidRangeMode(mode) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRange, mode)
	}

	step := 1
	if mode != RangeDay {
		step = 7
	}
	return AddDays(displayDate, int(dir)*step)
}
