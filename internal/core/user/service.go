package user

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tasukeai/shift-marketplace/internal/core/shift"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// SnapshotPublisher は更新後の職員スナップショットを購読者へ配信します。
type SnapshotPublisher interface {
	Publish(users []*User)
}

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

// デモ初期投入の人数構成。管理者 3 名、看護師 70 名、助手 60 名。
const (
	seedAdminCount     = 3
	seedNurseCount     = 70
	seedAssistantCount = 60
)

// Service は職員に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	feed  SnapshotPublisher
}

// UseCase は職員ユースケースの公開インターフェースです。
type UseCase interface {
	Authenticate(ctx context.Context, in AuthenticateInput) (*User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*User, error)
	UpdateUser(ctx context.Context, in UpdateUserInput) (*User, error)
	GetUser(ctx context.Context, in GetUserInput) (*User, error)
	ListUsers(ctx context.Context, in ListUsersInput) (*ListUsersResult, error)
	SeedDemoDirectory(ctx context.Context) (int, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, feed SnapshotPublisher) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, clock: clock, feed: feed}
}

// AuthenticateInput はログイン時の入力です。
type AuthenticateInput struct {
	ID       string
	Password string
}

// CreateUserInput は職員登録時の入力です。
type CreateUserInput struct {
	ID         string
	Name       string
	Department shift.Department
	Role       Role
	Password   string
}

// UpdateUserInput は職員更新時の入力です。nil のフィールドは変更しません。
type UpdateUserInput struct {
	ID         string
	Name       *string
	Department *shift.Department
	Role       *Role
	Password   *string
}

// GetUserInput は職員取得時の入力です。
type GetUserInput struct {
	ID string
}

// ListUsersInput は一覧取得時の入力です。
type ListUsersInput struct {
	Role      *Role
	PageSize  int
	PageToken string
}

// ListUsersResult は一覧取得結果を表します。
type ListUsersResult struct {
	Users         []*User
	NextPageToken string
}

// Authenticate は職員番号とパスワードの組を検証します。比較は保存された
// 文字列との単純一致です。
func (s *Service) Authenticate(ctx context.Context, in AuthenticateInput) (*User, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, ErrInvalidID
	}

	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if found.Password != in.Password {
		return nil, ErrAuthenticationFailed
	}

	return found, nil
}

// CreateUser は新しい職員を登録します。
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, ErrInvalidID
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if !isValidDepartment(in.Department) {
		return nil, ErrInvalidDepartment
	}
	if !isValidRole(in.Role) {
		return nil, ErrInvalidRole
	}

	if _, err := s.repo.FindByID(ctx, id); err == nil {
		return nil, ErrUserAlreadyExists
	}

	now := s.clock.Now()
	u := &User{
		ID:         id,
		Name:       name,
		Department: in.Department,
		Role:       in.Role,
		Password:   in.Password,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return nil, err
	}

	s.publishSnapshot(ctx)
	return created, nil
}

// UpdateUser は職員情報を更新します。
func (s *Service) UpdateUser(ctx context.Context, in UpdateUserInput) (*User, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	existing, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		existing.Name = name
	}
	if in.Department != nil {
		if !isValidDepartment(*in.Department) {
			return nil, ErrInvalidDepartment
		}
		existing.Department = *in.Department
	}
	if in.Role != nil {
		if !isValidRole(*in.Role) {
			return nil, ErrInvalidRole
		}
		existing.Role = *in.Role
	}
	if in.Password != nil {
		existing.Password = *in.Password
	}

	existing.UpdatedAt = s.clock.Now()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.publishSnapshot(ctx)
	return updated, nil
}

// GetUser は職員を取得します。
func (s *Service) GetUser(ctx context.Context, in GetUserInput) (*User, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.repo.FindByID(ctx, in.ID)
}

// ListUsers は職員の一覧を取得します。
func (s *Service) ListUsers(ctx context.Context, in ListUsersInput) (*ListUsersResult, error) {
	limit, err := normalizePageSize(in.PageSize)
	if err != nil {
		return nil, err
	}

	offset, err := parsePageToken(in.PageToken)
	if err != nil {
		return nil, err
	}

	var rolePtr *Role
	if in.Role != nil {
		if !isValidRole(*in.Role) {
			return nil, ErrInvalidRole
		}
		role := *in.Role
		rolePtr = &role
	}

	users, nextToken, err := s.repo.List(ctx, ListUsersFilter{
		Role:   rolePtr,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	return &ListUsersResult{Users: users, NextPageToken: nextToken}, nil
}

// SeedDemoDirectory は職員名簿が空のときにデモ用の名簿を一括投入します。
// 既に 1 件でも登録があれば何もせず 0 を返します。戻り値は投入した件数です。
func (s *Service) SeedDemoDirectory(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	now := s.clock.Now()
	wards := shift.Departments()
	seeded := 0

	create := func(u *User) error {
		u.CreatedAt = now
		u.UpdatedAt = now
		if _, err := s.repo.Create(ctx, u); err != nil {
			return err
		}
		seeded++
		return nil
	}

	for i := 1; i <= seedAdminCount; i++ {
		if err := create(&User{
			ID:         fmt.Sprintf("ADM%03d", i),
			Name:       fmt.Sprintf("管理者%d", i),
			Department: shift.DepartmentOther,
			Role:       RoleHRAdmin,
			Password:   "admin",
		}); err != nil {
			return seeded, err
		}
	}

	for i := 1; i <= seedNurseCount; i++ {
		if err := create(&User{
			ID:         fmt.Sprintf("NS%03d", i),
			Name:       fmt.Sprintf("看護師%d", i),
			Department: wards[i%len(wards)],
			Role:       RoleEmployee,
			Password:   "0000",
		}); err != nil {
			return seeded, err
		}
	}

	for i := 1; i <= seedAssistantCount; i++ {
		if err := create(&User{
			ID:         fmt.Sprintf("AS%03d", i),
			Name:       fmt.Sprintf("助手%d", i),
			Department: wards[i%len(wards)],
			Role:       RoleEmployee,
			Password:   "0000",
		}); err != nil {
			return seeded, err
		}
	}

	s.publishSnapshot(ctx)
	return seeded, nil
}

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

func isValidDepartment(d shift.Department) bool {
	switch d {
	case shift.DepartmentWard2A, shift.DepartmentWard3A, shift.DepartmentWard3B, shift.DepartmentWard4A, shift.DepartmentOther:
		return true
	default:
		return false
	}
}

func isValidRole(r Role) bool {
	switch r {
	case RoleEmployee, RoleHRAdmin:
		return true
	default:
		return false
	}
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
