// Package postgres は PostgreSQL を利用したリポジトリ実装を提供します。
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tasukeai/shift-marketplace/internal/core/shift"
	pgdb "github.com/tasukeai/shift-marketplace/internal/platform/db/postgres"
)

// ShiftRepository は PostgreSQL を利用したシフト永続化の実装です。
type ShiftRepository struct {
	pool pgdb.Queryer
}

// NewShiftRepository は ShiftRepository を生成します。
func NewShiftRepository(pool pgdb.Queryer) *ShiftRepository {
	return &ShiftRepository{pool: pool}
}

const shiftColumns = `id, title, department, job_role, shift_date, start_time, end_time,
               hourly_rate_boost, description, requirements, status, applicant_ids,
               assigned_user_id, created_at, updated_at`

// Create はシフトを新規作成します。
func (r *ShiftRepository) Create(ctx context.Context, s *shift.Shift) (*shift.Shift, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO shifts (id, title, department, job_role, shift_date, start_time, end_time,
                            hourly_rate_boost, description, requirements, status, applicant_ids,
                            assigned_user_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        RETURNING `+shiftColumns,
		s.ID,
		s.Title,
		string(s.Department),
		string(s.JobRole),
		s.Date,
		s.StartTime,
		s.EndTime,
		s.HourlyRateBoost,
		s.Description,
		s.Requirements,
		string(s.Status),
		s.ApplicantIDs,
		nullableString(s.AssignedUserID),
		s.CreatedAt,
		s.UpdatedAt,
	)

	created, err := scanShift(row)
	if err != nil {
		return nil, translateShiftPgError(err)
	}
	return created, nil
}

// Update はシフトを更新します。
func (r *ShiftRepository) Update(ctx context.Context, s *shift.Shift) (*shift.Shift, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE shifts
           SET title = $1,
               department = $2,
               job_role = $3,
               shift_date = $4,
               start_time = $5,
               end_time = $6,
               hourly_rate_boost = $7,
               description = $8,
               requirements = $9,
               status = $10,
               applicant_ids = $11,
               assigned_user_id = $12,
               updated_at = $13
         WHERE id = $14
        RETURNING `+shiftColumns,
		s.Title,
		string(s.Department),
		string(s.JobRole),
		s.Date,
		s.StartTime,
		s.EndTime,
		s.HourlyRateBoost,
		s.Description,
		s.Requirements,
		string(s.Status),
		s.ApplicantIDs,
		nullableString(s.AssignedUserID),
		s.UpdatedAt,
		s.ID,
	)

	updated, err := scanShift(row)
	if err != nil {
		return nil, translateShiftPgError(err)
	}
	return updated, nil
}

// Delete はシフトを削除します。
func (r *ShiftRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return translateShiftPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// FindByID は ID でシフトを取得します。
func (r *ShiftRepository) FindByID(ctx context.Context, id string) (*shift.Shift, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+shiftColumns+`
          FROM shifts
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanShift(row)
	if err != nil {
		return nil, translateShiftPgError(err)
	}
	return found, nil
}

// List はフィルタ条件に合うシフトの一覧を取得します。
func (r *ShiftRepository) List(ctx context.Context, filter shift.ListShiftsFilter) ([]*shift.Shift, string, error) {
	if filter.Limit <= 0 {
		return nil, "", shift.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", shift.ErrInvalidPageToken
	}

	limitWithBuffer := filter.Limit + 1

	args := make([]any, 0, 6)
	conditions := make([]string, 0, 4)

	if filter.FromDate != "" {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "shift_date >= "+placeholder)
		args = append(args, filter.FromDate)
	}
	if filter.ToDate != "" {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "shift_date <= "+placeholder)
		args = append(args, filter.ToDate)
	}
	if filter.Status != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "status = "+placeholder)
		args = append(args, string(*filter.Status))
	}
	if filter.Department != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "department = "+placeholder)
		args = append(args, string(*filter.Department))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limitPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, limitWithBuffer)
	offsetPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, filter.Offset)

	query := `
        SELECT ` + shiftColumns + `
          FROM shifts` + whereClause + `
         ORDER BY shift_date ASC, start_time ASC, id ASC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder + `
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateShiftPgError(err)
	}
	defer rows.Close()

	shifts := make([]*shift.Shift, 0, filter.Limit)
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, "", translateShiftPgError(err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, "", translateShiftPgError(err)
	}

	var nextToken string
	if len(shifts) == limitWithBuffer {
		shifts = shifts[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}

	return shifts, nextToken, nil
}

// ListAll は全シフトを日付・開始時刻順で取得します。スナップショット
// 配信と給与連携出力が利用します。
func (r *ShiftRepository) ListAll(ctx context.Context) ([]*shift.Shift, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+shiftColumns+`
          FROM shifts
         ORDER BY shift_date ASC, start_time ASC, id ASC
    `)
	if err != nil {
		return nil, translateShiftPgError(err)
	}
	defer rows.Close()

	shifts := make([]*shift.Shift, 0)
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, translateShiftPgError(err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translateShiftPgError(err)
	}

	return shifts, nil
}

func scanShift(row pgx.Row) (*shift.Shift, error) {
	var (
		id              string
		title           string
		department      string
		jobRole         string
		date            string
		startTime       string
		endTime         string
		hourlyRateBoost int
		description     string
		requirements    string
		status          string
		applicantIDs    []string
		assignedUserID  sql.NullString
		createdAt       time.Time
		updatedAt       time.Time
	)

	if err := row.Scan(
		&id,
		&title,
		&department,
		&jobRole,
		&date,
		&startTime,
		&endTime,
		&hourlyRateBoost,
		&description,
		&requirements,
		&status,
		&applicantIDs,
		&assignedUserID,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shift.ErrShiftNotFound
		}
		return nil, err
	}

	if applicantIDs == nil {
		applicantIDs = []string{}
	}

	return &shift.Shift{
		ID:              id,
		Title:           title,
		Department:      shift.Department(department),
		JobRole:         shift.JobRole(jobRole),
		Date:            date,
		StartTime:       startTime,
		EndTime:         endTime,
		HourlyRateBoost: hourlyRateBoost,
		Description:     description,
		Requirements:    requirements,
		Status:          shift.Status(status),
		ApplicantIDs:    applicantIDs,
		AssignedUserID:  assignedUserID.String,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}, nil
}

func translateShiftPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return shift.ErrShiftNotFound
	}
	return err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
