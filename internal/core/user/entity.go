package user

import (
	"time"

	"github.com/tasukeai/shift-marketplace/internal/core/shift"
)

// Role は職員の権限区分を表します。
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleHRAdmin  Role = "HR_ADMIN"
)

// User は職員エンティティです。ID は職員番号でありログイン ID を兼ねます。
// Password は平文のまま保持・比較します（認証強化はこのシステムの
// 対象外）。
type User struct {
	ID         string
	Name       string
	Department shift.Department
	Role       Role
	Password   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
