// Package memory はデモ・開発用のインメモリリポジトリを提供します。
// PostgreSQL 実装と同じリポジトリ契約を満たし、プロセス再起動で内容は
// 失われます。
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tasukeai/shift-marketplace/internal/core/shift"
)

// ShiftRepository はインメモリのシフト永続化実装です。
type ShiftRepository struct {
	mu     sync.RWMutex
	shifts map[string]*shift.Shift
}

// NewShiftRepository は ShiftRepository を生成します。
func NewShiftRepository() *ShiftRepository {
	return &ShiftRepository{shifts: make(map[string]*shift.Shift)}
}

// Create はシフトを登録します。
func (r *ShiftRepository) Create(ctx context.Context, s *shift.Shift) (*shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneShift(s)
	r.shifts[stored.ID] = stored
	return cloneShift(stored), nil
}

// Update は既存のシフトを置き換えます。
func (r *ShiftRepository) Update(ctx context.Context, s *shift.Shift) (*shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shifts[s.ID]; !ok {
		return nil, shift.ErrShiftNotFound
	}
	stored := cloneShift(s)
	r.shifts[stored.ID] = stored
	return cloneShift(stored), nil
}

// Delete はシフトを削除します。
func (r *ShiftRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shifts[id]; !ok {
		return shift.ErrShiftNotFound
	}
	delete(r.shifts, id)
	return nil
}

// FindByID は ID でシフトを取得します。
func (r *ShiftRepository) FindByID(ctx context.Context, id string) (*shift.Shift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.shifts[id]
	if !ok {
		return nil, shift.ErrShiftNotFound
	}
	return cloneShift(s), nil
}

// List はフィルタ条件に合うシフトを日付・開始時刻順で返します。
func (r *ShiftRepository) List(ctx context.Context, filter shift.ListShiftsFilter) ([]*shift.Shift, string, error) {
	if filter.Limit <= 0 {
		return nil, "", shift.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", shift.ErrInvalidPageToken
	}

	all := r.sortedShifts()

	matched := make([]*shift.Shift, 0, len(all))
	for _, s := range all {
		if filter.FromDate != "" && s.Date < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && s.Date > filter.ToDate {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		if filter.Department != nil && s.Department != *filter.Department {
			continue
		}
		matched = append(matched, s)
	}

	if filter.Offset >= len(matched) {
		return []*shift.Shift{}, "", nil
	}
	matched = matched[filter.Offset:]

	var nextToken string
	if len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}

	return matched, nextToken, nil
}

// ListAll は全シフトを日付・開始時刻順で返します。
func (r *ShiftRepository) ListAll(ctx context.Context) ([]*shift.Shift, error) {
	return r.sortedShifts(), nil
}

func (r *ShiftRepository) sortedShifts() []*shift.Shift {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*shift.Shift, 0, len(r.shifts))
	for _, s := range r.shifts {
		all = append(all, cloneShift(s))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Date != all[j].Date {
			return all[i].Date < all[j].Date
		}
		if all[i].StartTime != all[j].StartTime {
			return all[i].StartTime < all[j].StartTime
		}
		return strings.Compare(all[i].ID, all[j].ID) < 0
	})
	return all
}

func cloneShift(s *shift.Shift) *shift.Shift {
	clone := *s
	clone.ApplicantIDs = append([]string(nil), s.ApplicantIDs...)
	if clone.ApplicantIDs == nil {
		clone.ApplicantIDs = []string{}
	}
	return &clone
}
