package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tasukeai/shift-marketplace/internal/core/shift"
	"github.com/tasukeai/shift-marketplace/internal/core/user"
)

func newShift(id, date, start string) *shift.Shift {
	now := time.Now().UTC()
	return &shift.Shift{
		ID:              id,
		Title:           "入浴介助ヘルプ",
		Department:      shift.DepartmentWard2A,
		JobRole:         shift.JobRoleAssistant,
		Date:            date,
		StartTime:       start,
		EndTime:         "12:00",
		HourlyRateBoost: 500,
		Status:          shift.StatusOpen,
		ApplicantIDs:    []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestShiftRepository_CRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewShiftRepository()

	created, err := repo.Create(ctx, newShift("s1", "2024-06-10", "09:00"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// 返却値は内部状態と独立している。
	created.Title = "変更してみる"
	found, err := repo.FindByID(ctx, "s1")
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if found.Title != "入浴介助ヘルプ" {
		t.Fatalf("stored shift mutated through returned pointer")
	}

	found.Status = shift.StatusFilled
	if _, err := repo.Update(ctx, found); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if err := repo.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := repo.FindByID(ctx, "s1"); !errors.Is(err, shift.ErrShiftNotFound) {
		t.Fatalf("expected ErrShiftNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "s1"); !errors.Is(err, shift.ErrShiftNotFound) {
		t.Fatalf("expected ErrShiftNotFound on second delete, got %v", err)
	}
}

func TestShiftRepository_ListOrderingAndPaging(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewShiftRepository()

	for _, s := range []*shift.Shift{
		newShift("s3", "2024-06-12", "09:00"),
		newShift("s1", "2024-06-10", "18:00"),
		newShift("s2", "2024-06-10", "09:00"),
	} {
		if _, err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	shifts, nextToken, err := repo.List(ctx, shift.ListShiftsFilter{Limit: 2})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(shifts) != 2 || shifts[0].ID != "s2" || shifts[1].ID != "s1" {
		t.Fatalf("unexpected page order: %+v", shifts)
	}
	if nextToken != "2" {
		t.Fatalf("expected next token '2', got %s", nextToken)
	}

	rest, nextToken, err := repo.List(ctx, shift.ListShiftsFilter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(rest) != 1 || rest[0].ID != "s3" {
		t.Fatalf("unexpected second page: %+v", rest)
	}
	if nextToken != "" {
		t.Fatalf("expected empty next token, got %s", nextToken)
	}
}

func TestShiftRepository_ListFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewShiftRepository()

	s1 := newShift("s1", "2024-06-10", "09:00")
	s2 := newShift("s2", "2024-06-12", "09:00")
	s2.Department = shift.DepartmentWard3A
	s2.Status = shift.StatusFilled
	for _, s := range []*shift.Shift{s1, s2} {
		if _, err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	filled := shift.StatusFilled
	shifts, _, err := repo.List(ctx, shift.ListShiftsFilter{Status: &filled, Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(shifts) != 1 || shifts[0].ID != "s2" {
		t.Fatalf("unexpected status filter result: %+v", shifts)
	}

	shifts, _, err = repo.List(ctx, shift.ListShiftsFilter{FromDate: "2024-06-11", ToDate: "2024-06-13", Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(shifts) != 1 || shifts[0].ID != "s2" {
		t.Fatalf("unexpected date filter result: %+v", shifts)
	}
}

func TestUserRepository_CRUDAndCount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewUserRepository()

	now := time.Now().UTC()
	u := &user.User{ID: "NS001", Name: "看護師1", Department: shift.DepartmentWard2A, Role: user.RoleEmployee, Password: "0000", CreatedAt: now, UpdatedAt: now}

	if _, err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := repo.Create(ctx, u); !errors.Is(err, user.ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}

	found, err := repo.FindByID(ctx, "NS001")
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	found.Name = "改名"
	if _, err := repo.Update(ctx, found); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	admin := user.RoleHRAdmin
	users, _, err := repo.List(ctx, user.ListUsersFilter{Role: &admin, Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected no admins, got %d", len(users))
	}
}

func TestSeedDemoShifts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewShiftRepository()

	now := time.Now().UTC()
	seeded, err := SeedDemoShifts(ctx, repo, "2024-06-10", now)
	if err != nil {
		t.Fatalf("SeedDemoShifts returned error: %v", err)
	}
	if seeded != 2 {
		t.Fatalf("expected 2 seeded shifts, got %d", seeded)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	for _, s := range all {
		if s.Status != shift.StatusOpen {
			t.Fatalf("seeded shift must be open, got %s", s.Status)
		}
		if s.ID == "" {
			t.Fatalf("seeded shift missing id")
		}
	}

	// 既にデータがあれば何もしない。
	seeded, err = SeedDemoShifts(ctx, repo, "2024-06-10", now)
	if err != nil {
		t.Fatalf("SeedDemoShifts returned error: %v", err)
	}
	if seeded != 0 {
		t.Fatalf("expected no reseed, got %d", seeded)
	}
}
