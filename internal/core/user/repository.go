package user

import "context"

// Repository は職員永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	Update(ctx context.Context, u *User) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*User, string, error)
	// ListAll は全職員のスナップショットを ID 昇順で返します。
	ListAll(ctx context.Context) ([]*User, error)
	Count(ctx context.Context) (int, error)
}

// ListUsersFilter は一覧取得用フィルタです。
type ListUsersFilter struct {
	Role   *Role
	Limit  int
	Offset int
}
