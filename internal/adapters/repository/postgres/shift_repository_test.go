package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/tasukeai/shift-marketplace/internal/core/shift"
)

type stubRow struct {
	scanFn func(dest ...interface{}) error
}

func (s stubRow) Scan(dest ...interface{}) error {
	return s.scanFn(dest...)
}

func shiftRowValues(id string) []any {
	now := time.Now().UTC()
	return []any{
		id, "入浴介助ヘルプ", string(shift.DepartmentWard2A), string(shift.JobRoleAssistant),
		"2024-06-10", "09:00", "12:00", 500, "", "", string(shift.StatusOpen),
		[]string{}, nil, now, now,
	}
}

func TestScanShift_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	_, err := scanShift(row)
	if !errors.Is(err, shift.ErrShiftNotFound) {
		t.Fatalf("expected ErrShiftNotFound, got %v", err)
	}
}

func TestShiftRepository_FindByID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewShiftRepository(mock)

	rows := pgxmock.NewRows(shiftColumnNames()).AddRow(shiftRowValues("shift-1")...)
	mock.ExpectQuery(`FROM shifts\s+WHERE id = \$1`).
		WithArgs("shift-1").
		WillReturnRows(rows)

	found, err := repo.FindByID(context.Background(), "shift-1")
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found.ID != "shift-1" || found.Department != shift.DepartmentWard2A {
		t.Fatalf("unexpected shift %+v", found)
	}
	if found.ApplicantIDs == nil {
		t.Fatalf("applicant ids must be non-nil")
	}
	if found.AssignedUserID != "" {
		t.Fatalf("expected unassigned shift, got %q", found.AssignedUserID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestShiftRepository_List_WithNextToken(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewShiftRepository(mock)

	rows := pgxmock.NewRows(shiftColumnNames()).
		AddRow(shiftRowValues("shift-1")...).
		AddRow(shiftRowValues("shift-2")...).
		AddRow(shiftRowValues("shift-3")...)

	mock.ExpectQuery(`FROM shifts\s+ORDER BY shift_date ASC`).
		WithArgs(3, 0).
		WillReturnRows(rows)

	shifts, nextToken, err := repo.List(context.Background(), shift.ListShiftsFilter{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(shifts) != 2 {
		t.Fatalf("expected 2 shifts, got %d", len(shifts))
	}
	if nextToken != "2" {
		t.Fatalf("expected next token '2', got %s", nextToken)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestShiftRepository_List_WithDateAndStatusFilter(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewShiftRepository(mock)
	open := shift.StatusOpen

	rows := pgxmock.NewRows(shiftColumnNames()).AddRow(shiftRowValues("shift-1")...)

	mock.ExpectQuery(regexp.QuoteMeta("shift_date >= $1 AND shift_date <= $2 AND status = $3")).
		WithArgs("2024-06-10", "2024-06-16", string(open), 51, 0).
		WillReturnRows(rows)

	shifts, nextToken, err := repo.List(context.Background(), shift.ListShiftsFilter{
		FromDate: "2024-06-10",
		ToDate:   "2024-06-16",
		Status:   &open,
		Limit:    50,
		Offset:   0,
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(shifts) != 1 {
		t.Fatalf("expected 1 shift, got %d", len(shifts))
	}
	if nextToken != "" {
		t.Fatalf("expected empty next token, got %s", nextToken)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestShiftRepository_List_InvalidArguments(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewShiftRepository(mock)

	if _, _, err := repo.List(context.Background(), shift.ListShiftsFilter{Limit: 0}); !errors.Is(err, shift.ErrInvalidPageSize) {
		t.Fatalf("expected ErrInvalidPageSize, got %v", err)
	}
	if _, _, err := repo.List(context.Background(), shift.ListShiftsFilter{Limit: 1, Offset: -1}); !errors.Is(err, shift.ErrInvalidPageToken) {
		t.Fatalf("expected ErrInvalidPageToken, got %v", err)
	}
}

func TestShiftRepository_Delete_NotFound(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewShiftRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM shifts WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, shift.ErrShiftNotFound) {
		t.Fatalf("expected ErrShiftNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func shiftColumnNames() []string {
	return []string{
		"id", "title", "department", "job_role", "shift_date", "start_time", "end_time",
		"hourly_rate_boost", "description", "requirements", "status", "applicant_ids",
		"assigned_user_id", "created_at", "updated_at",
	}
}
