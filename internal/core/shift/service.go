package shift

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tasukeai/shift-marketplace/internal/core/schedule"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// SnapshotPublisher は更新後の全件スナップショットを購読者へ配信します。
type SnapshotPublisher interface {
	Publish(shifts []*Shift)
}

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

// Service はシフト募集に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
	feed  SnapshotPublisher
}

// UseCase はシフトユースケースの公開インターフェースです。
type UseCase interface {
	CreateShift(ctx context.Context, in CreateShiftInput) (*Shift, error)
	GetShift(ctx context.Context, in GetShiftInput) (*Shift, error)
	ListShifts(ctx context.Context, in ListShiftsInput) (*ListShiftsResult, error)
	UpdateShift(ctx context.Context, in UpdateShiftInput) (*Shift, error)
	DeleteShift(ctx context.Context, in DeleteShiftInput) error
	Apply(ctx context.Context, in ApplyInput) (*Shift, error)
	Approve(ctx context.Context, in ApproveInput) (*Shift, error)
	Complete(ctx context.Context, in CompleteInput) (*Shift, error)
}

// NewService は Service を生成します。feed は nil でもよく、その場合は
// スナップショット配信を行いません。
func NewService(repo Repository, clock Clock, tx TransactionManager, feed SnapshotPublisher) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx, feed: feed}
}

// CreateShiftInput はシフト作成時の入力です。
type CreateShiftInput struct {
	Title           string
	Department      Department
	JobRole         JobRole
	Date            string
	StartTime       string
	EndTime         string
	HourlyRateBoost int
	Description     string
	Requirements    string
}

// UpdateShiftInput はシフト更新時の入力です。nil のフィールドは変更しません。
type UpdateShiftInput struct {
	ID              string
	Title           *string
	Department      *Department
	JobRole         *JobRole
	Date            *string
	StartTime       *string
	EndTime         *string
	HourlyRateBoost *int
	Description     *string
	Requirements    *string
}

// DeleteShiftInput はシフト削除時の入力です。
type DeleteShiftInput struct {
	ID string
}

// GetShiftInput はシフト取得時の入力です。
type GetShiftInput struct {
	ID string
}

// ListShiftsInput は一覧取得時の入力です。
type ListShiftsInput struct {
	FromDate   string
	ToDate     string
	Status     *Status
	Department *Department
	PageSize   int
	PageToken  string
}

// ListShiftsResult は一覧取得結果を表します。
type ListShiftsResult struct {
	Shifts        []*Shift
	NextPageToken string
}

// ApplyInput は応募時の入力です。
type ApplyInput struct {
	ShiftID string
	UserID  string
}

// ApproveInput は承認時の入力です。
type ApproveInput struct {
	ShiftID string
	UserID  string
}

// CompleteInput は完了記録時の入力です。
type CompleteInput struct {
	ShiftID string
}

// CreateShift は新しい募集を作成します。状態は常に OPEN、応募者は空で
// 初期化されます。
func (s *Service) CreateShift(ctx context.Context, in CreateShiftInput) (*Shift, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if !isValidDepartment(in.Department) {
		return nil, ErrInvalidDepartment
	}
	if !isValidJobRole(in.JobRole) {
		return nil, ErrInvalidJobRole
	}
	if err := validateDate(in.Date); err != nil {
		return nil, err
	}
	if _, err := schedule.ParseClock(in.StartTime); err != nil {
		return nil, err
	}
	if _, err := schedule.ParseClock(in.EndTime); err != nil {
		return nil, err
	}
	if in.HourlyRateBoost < 0 {
		return nil, ErrInvalidRateBoost
	}

	var created *Shift
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()
		sh := &Shift{
			ID:              uuid.NewString(),
			Title:           title,
			Department:      in.Department,
			JobRole:         in.JobRole,
			Date:            in.Date,
			StartTime:       in.StartTime,
			EndTime:         in.EndTime,
			HourlyRateBoost: in.HourlyRateBoost,
			Description:     strings.TrimSpace(in.Description),
			Requirements:    strings.TrimSpace(in.Requirements),
			Status:          StatusOpen,
			ApplicantIDs:    []string{},
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		result, err := s.repo.Create(txCtx, sh)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.publishSnapshot(ctx)
	return created, nil
}

// GetShift はシフトを取得します。
func (s *Service) GetShift(ctx context.Context, in GetShiftInput) (*Shift, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Shift
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListShifts はシフトの一覧を取得します。
func (s *Service) ListShifts(ctx context.Context, in ListShiftsInput) (*ListShiftsResult, error) {
	if in.FromDate != "" {
		if err := validateDate(in.FromDate); err != nil {
			return nil, err
		}
	}
	if in.ToDate != "" {
		if err := validateDate(in.ToDate); err != nil {
			return nil, err
		}
	}

	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	var statusPtr *Status
	if in.Status != nil {
		if !isValidStatus(*in.Status) {
			return nil, ErrInvalidStatus
		}
		status := *in.Status
		statusPtr = &status
	}

	var deptPtr *Department
	if in.Department != nil {
		if !isValidDepartment(*in.Department) {
			return nil, ErrInvalidDepartment
		}
		dept := *in.Department
		deptPtr = &dept
	}

	var (
		shifts    []*Shift
		nextToken string
	)
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, token, err := s.repo.List(txCtx, ListShiftsFilter{
			FromDate:   in.FromDate,
			ToDate:     in.ToDate,
			Status:     statusPtr,
			Department: deptPtr,
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			return err
		}
		shifts = result
		nextToken = token
		return nil
	}); err != nil {
		return nil, err
	}

	return &ListShiftsResult{Shifts: shifts, NextPageToken: nextToken}, nil
}

// UpdateShift は募集内容を編集します。状態・応募者・担当者は Apply / Approve /
// Complete 経由でのみ変わります。
func (s *Service) UpdateShift(ctx context.Context, in UpdateShiftInput) (*Shift, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var updated *Shift
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		if in.Title != nil {
			title := strings.TrimSpace(*in.Title)
			if title == "" {
				return ErrInvalidTitle
			}
			existing.Title = title
		}
		if in.Department != nil {
			if !isValidDepartment(*in.Department) {
				return ErrInvalidDepartment
			}
			existing.Department = *in.Department
		}
		if in.JobRole != nil {
			if !isValidJobRole(*in.JobRole) {
				return ErrInvalidJobRole
			}
			existing.JobRole = *in.JobRole
		}
		if in.Date != nil {
			if err := validateDate(*in.Date); err != nil {
				return err
			}
			existing.Date = *in.Date
		}
		if in.StartTime != nil {
			if _, err := schedule.ParseClock(*in.StartTime); err != nil {
				return err
			}
			existing.StartTime = *in.StartTime
		}
		if in.EndTime != nil {
			if _, err := schedule.ParseClock(*in.EndTime); err != nil {
				return err
			}
			existing.EndTime = *in.EndTime
		}
		if in.HourlyRateBoost != nil {
			if *in.HourlyRateBoost < 0 {
				return ErrInvalidRateBoost
			}
			existing.HourlyRateBoost = *in.HourlyRateBoost
		}
		if in.Description != nil {
			existing.Description = strings.TrimSpace(*in.Description)
		}
		if in.Requirements != nil {
			existing.Requirements = strings.TrimSpace(*in.Requirements)
		}

		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.publishSnapshot(ctx)
	return updated, nil
}

// DeleteShift は募集を削除します。
func (s *Service) DeleteShift(ctx context.Context, in DeleteShiftInput) error {
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, in.ID)
	}); err != nil {
		return err
	}

	s.publishSnapshot(ctx)
	return nil
}

// Apply は職員の応募を記録します。同一ユーザーの ID は一度しか追加されません。
func (s *Service) Apply(ctx context.Context, in ApplyInput) (*Shift, error) {
	if strings.TrimSpace(in.ShiftID) == "" {
		return nil, fmt.Errorf("shift id: %w", ErrInvalidID)
	}
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	var updated *Shift
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ShiftID)
		if err != nil {
			return err
		}
		if existing.Status != StatusOpen {
			return ErrShiftNotOpen
		}
		if existing.HasApplicant(userID) {
			return ErrAlreadyApplied
		}

		existing.ApplicantIDs = append(existing.ApplicantIDs, userID)
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.publishSnapshot(ctx)
	return updated, nil
}

// Approve は応募者を承認し、状態を FILLED にして担当者を確定します。
// 応募していないユーザーを割り当てることはできません。
func (s *Service) Approve(ctx context.Context, in ApproveInput) (*Shift, error) {
	if strings.TrimSpace(in.ShiftID) == "" {
		return nil, fmt.Errorf("shift id: %w", ErrInvalidID)
	}
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	var updated *Shift
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ShiftID)
		if err != nil {
			return err
		}
		if existing.Status != StatusOpen {
			return ErrShiftNotOpen
		}
		if !existing.HasApplicant(userID) {
			return ErrNotApplicant
		}

		existing.Status = StatusFilled
		existing.AssignedUserID = userID
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.publishSnapshot(ctx)
	return updated, nil
}

// Complete は割り当て済みの勤務を完了として記録します。
func (s *Service) Complete(ctx context.Context, in CompleteInput) (*Shift, error) {
	if strings.TrimSpace(in.ShiftID) == "" {
		return nil, fmt.Errorf("shift id: %w", ErrInvalidID)
	}

	var updated *Shift
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ShiftID)
		if err != nil {
			return err
		}
		if existing.Status != StatusFilled {
			return ErrShiftNotFilled
		}

		existing.Status = StatusCompleted
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	s.publishSnapshot(ctx)
	return updated, nil
}

// publishSnapshot は書き込み後の全件スナップショットを購読者へ配信します。
// 配信は読み取り側が次のスナップショットで追い付くための補助であり、
// 失敗しても書き込み結果には影響しません。
func (s *Service) publishSnapshot(ctx context.Context) {
	if s.feed == nil {
		return
	}
	snapshot, err := s.repo.ListAll(ctx)
	if err != nil {
		return
	}
	s.feed.Publish(snapshot)
}

func isValidDepartment(d Department) bool {
	switch d {
	case DepartmentWard2A, DepartmentWard3A, DepartmentWard3B, DepartmentWard4A, DepartmentOther:
		return true
	default:
		return false
	}
}

func isValidJobRole(r JobRole) bool {
	switch r {
	case JobRoleNurse, JobRoleAssistant, JobRoleOther:
		return true
	default:
		return false
	}
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusOpen, StatusFilled, StatusCompleted:
		return true
	default:
		return false
	}
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

func normalizePageSize(pageSize int) (int, error) {
	if pageSize <= 0 {
		return defaultListPageSize, nil
	}
	if pageSize > maxListPageSize {
		return 0, ErrInvalidPageSize
	}
	return pageSize, nil
}

func parsePageToken(token string) (int, error) {
	if strings.TrimSpace(token) == "" {
		return 0, nil
	}

	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0, ErrInvalidPageToken
	}

	return offset, nil
}
