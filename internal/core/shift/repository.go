package shift

import "context"

// Repository はシフト永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, s *Shift) (*Shift, error)
	Update(ctx context.Context, s *Shift) (*Shift, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Shift, error)
	List(ctx context.Context, filter ListShiftsFilter) ([]*Shift, string, error)
	// ListAll は全件スナップショットを日付昇順で返します。購読者への
	// プッシュ配信と帳票出力が利用します。
	ListAll(ctx context.Context) ([]*Shift, error)
}

// ListShiftsFilter は一覧取得用フィルタです。日付はゼロ埋め ISO 文字列で、
// FromDate <= date <= ToDate の範囲を対象とします。
type ListShiftsFilter struct {
	FromDate   string
	ToDate     string
	Status     *Status
	Department *Department
	Limit      int
	Offset     int
}
