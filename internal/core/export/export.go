// Package export は給与連携用の勤務実績出力を組み立てます。行の集計は
// 最新スナップショットに対する純粋な変換で、CSV / XLSX への書き出しと
// 分離されています。
package export

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/tasukeai/shift-marketplace/internal/core/schedule"
	"github.com/tasukeai/shift-marketplace/internal/core/shift"
	"github.com/tasukeai/shift-marketplace/internal/core/user"
)

const (
	statusLabelApproved   = "承認済"
	statusLabelIncomplete = "未完了"

	// DefaultFilePrefix は出力ファイル名の既定の接頭辞です。
	DefaultFilePrefix = "tasukeai"
)

// Headers は出力の 1 行目です。給与システム側の取り込み定義と一致させて
// あるため、列の追加・並び替えは先方との調整が要ります。
var Headers = []string{
	"シフトID", "日付", "部署", "業務名", "職種",
	"担当者ID", "担当者名", "開始時間", "終了時間",
	"実働時間", "手当単価", "手当合計", "ステータス",
}

// Row は 1 シフト分の出力行です。Hours と AllowanceTotal は丸めずに保持し、
// 表示用の整形は書き出し時に行います。
type Row struct {
	ShiftID          string
	Date             string
	Department       shift.Department
	Title            string
	JobRole          shift.JobRole
	AssignedUserID   string
	AssignedUserName string
	StartTime        string
	EndTime          string
	Hours            float64
	HourlyRateBoost  int
	AllowanceTotal   float64
	StatusLabel      string
}

// BuildRows はシフトスナップショットから出力行を組み立てます。元の並び順を
// 保ちます。担当者 ID が名簿に見つからない場合は氏名を空欄にしますが、
// 時刻が壊れているシフトはデータ不整合としてエラーを返し、部分的な出力は
// 行いません。
func BuildRows(shifts []*shift.Shift, users []*user.User) ([]Row, error) {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	rows := make([]Row, 0, len(shifts))
	for _, s := range shifts {
		hours, err := schedule.DurationHours(s.StartTime, s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("shift %s: %w", s.ID, err)
		}

		label := statusLabelIncomplete
		if s.Status == shift.StatusFilled {
			label = statusLabelApproved
		}

		rows = append(rows, Row{
			ShiftID:          s.ID,
			Date:             s.Date,
			Department:       s.Department,
			Title:            s.Title,
			JobRole:          s.JobRole,
			AssignedUserID:   s.AssignedUserID,
			AssignedUserName: names[s.AssignedUserID],
			StartTime:        s.StartTime,
			EndTime:          s.EndTime,
			Hours:            hours,
			HourlyRateBoost:  s.HourlyRateBoost,
			AllowanceTotal:   hours * float64(s.HourlyRateBoost),
			StatusLabel:      label,
		})
	}

	return rows, nil
}

// SumAllowance は手当合計の総和を丸めなしで返します。
func SumAllowance(rows []Row) float64 {
	var total float64
	for _, r := range rows {
		total += r.AllowanceTotal
	}
	return total
}

// Filename は出力日を埋め込んだファイル名を返します。
// 例: tasukeai_export_2024-06-10.csv
func Filename(prefix string, date time.Time, ext string) string {
	if prefix == "" {
		prefix = DefaultFilePrefix
	}
	return fmt.Sprintf("%s_export_%s.%s", prefix, date.Format("2006-01-02"), ext)
}

func (r Row) fields() []string {
	return []string{
		r.ShiftID,
		r.Date,
		string(r.Department),
		r.Title,
		string(r.JobRole),
		r.AssignedUserID,
		r.AssignedUserName,
		r.StartTime,
		r.EndTime,
		strconv.FormatFloat(r.Hours, 'f', 2, 64),
		strconv.Itoa(r.HourlyRateBoost),
		strconv.FormatFloat(r.AllowanceTotal, 'f', -1, 64),
		r.StatusLabel,
	}
}

// Aggregator はスナップショット取得と行組み立てをまとめた補助です。
type Aggregator struct {
	shifts shift.Repository
	users  user.Repository
}

// NewAggregator は Aggregator を生成します。
func NewAggregator(shifts shift.Repository, users user.Repository) *Aggregator {
	return &Aggregator{shifts: shifts, users: users}
}

// Rows は最新スナップショットから出力行を組み立てます。
func (a *Aggregator) Rows(ctx context.Context) ([]Row, error) {
	shifts, err := a.shifts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	users, err := a.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildRows(shifts, users)
}
