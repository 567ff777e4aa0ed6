package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tasukeai/shift-marketplace/internal/core/shift"
)

// SeedDemoShifts はデモ用の募集を投入します。既に募集が存在する場合は
// 何もせず 0 を返します。
func SeedDemoShifts(ctx context.Context, repo shift.Repository, date string, now time.Time) (int, error) {
	existing, err := repo.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	demo := []*shift.Shift{
		{
			Title:           "入浴介助ヘルプ",
			Department:      shift.DepartmentWard2A,
			JobRole:         shift.JobRoleAssistant,
			Date:            date,
			StartTime:       "09:00",
			EndTime:         "12:00",
			HourlyRateBoost: 500,
			Description:     "午前の入浴介助の応援をお願いします。",
		},
		{
			Title:           "準夜帯フリー業務",
			Department:      shift.DepartmentWard3A,
			JobRole:         shift.JobRoleNurse,
			Date:            date,
			StartTime:       "18:00",
			EndTime:         "22:00",
			HourlyRateBoost: 800,
			Description:     "準夜帯の各病棟フォローに入っていただきます。",
		},
	}

	for _, s := range demo {
		s.ID = uuid.NewString()
		s.Status = shift.StatusOpen
		s.ApplicantIDs = []string{}
		s.CreatedAt = now
		s.UpdatedAt = now
		if _, err := repo.Create(ctx, s); err != nil {
			return 0, err
		}
	}

	return len(demo), nil
}
