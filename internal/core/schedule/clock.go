package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClock は "HH:MM" 形式の時刻文字列を 10 進の時間数に変換します。
// 例: "09:30" -> 9.5。コロン区切りが 2 要素でない場合や分が 60 以上の
// 場合は ErrInvalidClock を返します。
func ParseClock(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes >= 60 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	return float64(hours) + float64(minutes)/60, nil
}

// DurationHours は開始・終了時刻から実働時間を計算します。終了が開始より
// 小さい場合は日付をまたいだ勤務として 24 時間を加算します。終了が
// ちょうど "00:00" と記録された午後開始の勤務（24:00 の代わりに 00:00 と
// 入力される運用慣習）も翌日零時として扱います。この 2 つの補正は排他で、
// 重ねて適用することはありません。
func DurationHours(start, end string) (float64, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}

	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}

	if e < s {
		e += 24
	} else if end == "00:00" && s > 12 {
		e += 24
	}

	return e - s, nil
}
