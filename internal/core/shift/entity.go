package shift

import "time"

// Status は募集シフトの状態を表します。
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusFilled    Status = "FILLED"
	StatusCompleted Status = "COMPLETED"
)

// Department は病棟区分を表します。値は画面・帳票にそのまま出力されます。
type Department string

const (
	DepartmentWard2A Department = "2A病棟"
	DepartmentWard3A Department = "3A病棟"
	DepartmentWard3B Department = "3B病棟"
	DepartmentWard4A Department = "4A病棟"
	DepartmentOther  Department = "その他"
)

// JobRole は募集対象の職種を表します。
type JobRole string

const (
	JobRoleNurse     JobRole = "看護師"
	JobRoleAssistant JobRole = "看護補助者"
	JobRoleOther     JobRole = "その他"
)

// Shift は 1 件の勤務募集エンティティです。EndTime が StartTime より小さい
// 場合は日付をまたぐ勤務を意味し、翌日の時刻として解釈します。
// AssignedUserID は承認操作が行われた場合に限り設定され、応募者一覧に
// ID があるだけでは割り当てを意味しません。
type Shift struct {
	ID              string
	Title           string
	Department      Department
	JobRole         JobRole
	Date            string // "YYYY-MM-DD"
	StartTime       string // "HH:MM"
	EndTime         string // "HH:MM"
	HourlyRateBoost int    // 円/時の上乗せ手当
	Description     string
	Requirements    string
	Status          Status
	ApplicantIDs    []string
	AssignedUserID  string // 未割り当てのときは空文字
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Departments は病棟タイムラインの表示順です。
func Departments() []Department {
	return []Department{DepartmentWard2A, DepartmentWard3A, DepartmentWard3B, DepartmentWard4A}
}

// HasApplicant は指定ユーザーが応募済みかどうかを返します。
func (s *Shift) HasApplicant(userID string) bool {
	for _, id := range s.ApplicantIDs {
		if id == userID {
			return true
		}
	}
	return false
}
