// Package timeline は勤務時間帯を 08:00〜翌 08:00 の 24 時間表示バンド上の
// 位置に変換します。病棟の勤務日は暦日ではなく朝 8 時を起点に区切るため、
// バンドの右端は 32:00（翌朝 8 時）です。
package timeline

import (
	"errors"
	"fmt"

	"github.com/tasukeai/shift-marketplace/internal/core/schedule"
)

var ErrInvalidInterval = errors.New("timeline: invalid interval")

const (
	bandStartHour = 8.0
	bandHours     = 24.0
)

// Position はタイムライン上のバーの位置と幅をパーセントで表します。
type Position struct {
	LeftPercent  float64
	WidthPercent float64
}

// Map は開始・終了時刻をバンド上の位置に写像します。同じ入力は常に同じ
// 出力を返す純粋関数です。補正後も終了が開始以下になる区間は正当な
// 折り返しではなく不正データとして ErrInvalidInterval を返します。
func Map(startTime, endTime string) (Position, error) {
	start, err := schedule.ParseClock(startTime)
	if err != nil {
		return Position{}, err
	}

	end, err := schedule.ParseClock(endTime)
	if err != nil {
		return Position{}, err
	}

	// 8 時より前の開始は翌日の早朝帯としてバンド後半に置く。
	if start < bandStartHour {
		start += 24
	}

	// 終了が開始より前ならバンドの折り返しをまたいでいる。
	if end < start {
		end += 24
	}

	// 夜勤明けの "08:00" は同日朝の 8 時ではなく翌朝の 32:00。
	if end == bandStartHour && start > 12 {
		end = 32
	}

	if end <= start {
		return Position{}, fmt.Errorf("%w: %s-%s", ErrInvalidInterval, startTime, endTime)
	}

	left := (start - bandStartHour) / bandHours * 100
	if left < 0 {
		left = 0
	}

	width := (end - start) / bandHours * 100
	if width > 100 {
		width = 100
	}

	return Position{LeftPercent: left, WidthPercent: width}, nil
}
