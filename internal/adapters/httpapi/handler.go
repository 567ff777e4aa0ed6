// Package httpapi はシフトマーケットプレイスの HTTP/JSON アダプタです。
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/tasukeai/shift-marketplace/internal/core/export"
	"github.com/tasukeai/shift-marketplace/internal/core/schedule"
	"github.com/tasukeai/shift-marketplace/internal/core/shift"
	"github.com/tasukeai/shift-marketplace/internal/core/timeline"
	"github.com/tasukeai/shift-marketplace/internal/core/user"
)

// ダッシュボードは期間内の全シフトを対象にするため、ページを使い切る
// まで取得します。
const dashboardPageSize = 200

// RowSource は給与連携出力の行を提供します。
type RowSource interface {
	Rows(ctx context.Context) ([]export.Row, error)
}

// Config はハンドラの動作設定です。
type Config struct {
	ExportFilePrefix string
	ExportBOM        bool
	Now              func() time.Time
}

// Handler は各ユースケースを HTTP エンドポイントへ結び付けます。
type Handler struct {
	shifts       shift.UseCase
	users        user.UseCase
	rows         RowSource
	feed         ShiftFeed
	exportPrefix string
	exportBOM    bool
	now          func() time.Time
}

// NewHandler は Handler を生成します。feed は nil でもよく、その場合は
// スナップショット配信エンドポイントが 503 を返します。
func NewHandler(shifts shift.UseCase, users user.UseCase, rows RowSource, feed ShiftFeed, cfg Config) *Handler {
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Handler{
		shifts:       shifts,
		users:        users,
		rows:         rows,
		feed:         feed,
		exportPrefix: cfg.ExportFilePrefix,
		exportBOM:    cfg.ExportBOM,
		now:          now,
	}
}

// Routes はルーティング済みの http.Handler を返します。
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("POST /api/login", h.handleLogin)
	mux.HandleFunc("GET /api/users", h.handleListUsers)

	mux.HandleFunc("GET /api/shifts", h.handleListShifts)
	mux.HandleFunc("POST /api/shifts", h.handleCreateShift)
	mux.HandleFunc("GET /api/shifts/stream", h.handleShiftStream)
	mux.HandleFunc("GET /api/shifts/{id}", h.handleGetShift)
	mux.HandleFunc("PATCH /api/shifts/{id}", h.handleUpdateShift)
	mux.HandleFunc("DELETE /api/shifts/{id}", h.handleDeleteShift)
	mux.HandleFunc("POST /api/shifts/{id}/apply", h.handleApply)
	mux.HandleFunc("POST /api/shifts/{id}/approve", h.handleApprove)
	mux.HandleFunc("POST /api/shifts/{id}/complete", h.handleComplete)

	mux.HandleFunc("GET /api/dashboard", h.handleDashboard)
	mux.HandleFunc("GET /api/export", h.handleExport)

	return mux
}

type shiftPayload struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Department      string    `json:"department"`
	JobRole         string    `json:"jobRole"`
	Date            string    `json:"date"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	HourlyRateBoost int       `json:"hourlyRateBoost"`
	Description     string    `json:"description,omitempty"`
	Requirements    string    `json:"requirements,omitempty"`
	Status          string    `json:"status"`
	ApplicantIDs    []string  `json:"applicantIds"`
	AssignedUserID  string    `json:"assignedUserId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toShiftPayload(s *shift.Shift) shiftPayload {
	return shiftPayload{
		ID:              s.ID,
		Title:           s.Title,
		Department:      string(s.Department),
		JobRole:         string(s.JobRole),
		Date:            s.Date,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		HourlyRateBoost: s.HourlyRateBoost,
		Description:     s.Description,
		Requirements:    s.Requirements,
		Status:          string(s.Status),
		ApplicantIDs:    s.ApplicantIDs,
		AssignedUserID:  s.AssignedUserID,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

type userPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

func toUserPayload(u *user.User) userPayload {
	return userPayload{
		ID:         u.ID,
		Name:       u.Name,
		Department: string(u.Department),
		Role:       string(u.Role),
	}
}

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID       string `json:"id"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	u, err := h.users.Authenticate(r.Context(), user.AuthenticateInput{ID: req.ID, Password: req.Password})
	if err != nil {
		// ログインでは ID の存在有無を漏らさない。
		if statusForError(err) == http.StatusNotFound {
			err = user.ErrAuthenticationFailed
		}
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserPayload(u))
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	in := user.ListUsersInput{PageToken: q.Get("pageToken")}
	if raw := q.Get("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			writeUsecaseError(w, user.ErrInvalidPageSize)
			return
		}
		in.PageSize = size
	}
	if raw := q.Get("role"); raw != "" {
		role := user.Role(raw)
		in.Role = &role
	}

	result, err := h.users.ListUsers(r.Context(), in)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	users := make([]userPayload, 0, len(result.Users))
	for _, u := range result.Users {
		users = append(users, toUserPayload(u))
	}

	writeJSON(w, http.StatusOK, struct {
		Users         []userPayload `json:"users"`
		NextPageToken string        `json:"nextPageToken,omitempty"`
	}{Users: users, NextPageToken: result.NextPageToken})
}

func (h *Handler) handleListShifts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	in := shift.ListShiftsInput{
		FromDate:  q.Get("from"),
		ToDate:    q.Get("to"),
		PageToken: q.Get("pageToken"),
	}
	if raw := q.Get("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			writeUsecaseError(w, shift.ErrInvalidPageSize)
			return
		}
		in.PageSize = size
	}
	if raw := q.Get("status"); raw != "" {
		status := shift.Status(raw)
		in.Status = &status
	}
	if raw := q.Get("department"); raw != "" {
		dept := shift.Department(raw)
		in.Department = &dept
	}

	result, err := h.shifts.ListShifts(r.Context(), in)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	shifts := make([]shiftPayload, 0, len(result.Shifts))
	for _, s := range result.Shifts {
		shifts = append(shifts, toShiftPayload(s))
	}

	writeJSON(w, http.StatusOK, struct {
		Shifts        []shiftPayload `json:"shifts"`
		NextPageToken string         `json:"nextPageToken,omitempty"`
	}{Shifts: shifts, NextPageToken: result.NextPageToken})
}

type createShiftRequest struct {
	Title           string `json:"title"`
	Department      string `json:"department"`
	JobRole         string `json:"jobRole"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	HourlyRateBoost int    `json:"hourlyRateBoost"`
	Description     string `json:"description"`
	Requirements    string `json:"requirements"`
}

func (h *Handler) handleCreateShift(w http.ResponseWriter, r *http.Request) {
	var req createShiftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	created, err := h.shifts.CreateShift(r.Context(), shift.CreateShiftInput{
		Title:           req.Title,
		Department:      shift.Department(req.Department),
		JobRole:         shift.JobRole(req.JobRole),
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		HourlyRateBoost: req.HourlyRateBoost,
		Description:     req.Description,
		Requirements:    req.Requirements,
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toShiftPayload(created))
}

func (h *Handler) handleGetShift(w http.ResponseWriter, r *http.Request) {
	found, err := h.shifts.GetShift(r.Context(), shift.GetShiftInput{ID: r.PathValue("id")})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftPayload(found))
}

type updateShiftRequest struct {
	Title           *string `json:"title"`
	Department      *string `json:"department"`
	JobRole         *string `json:"jobRole"`
	Date            *string `json:"date"`
	StartTime       *string `json:"startTime"`
	EndTime         *string `json:"endTime"`
	HourlyRateBoost *int    `json:"hourlyRateBoost"`
	Description     *string `json:"description"`
	Requirements    *string `json:"requirements"`
}

func (h *Handler) handleUpdateShift(w http.ResponseWriter, r *http.Request) {
	var req updateShiftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	in := shift.UpdateShiftInput{
		ID:              r.PathValue("id"),
		Title:           req.Title,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		HourlyRateBoost: req.HourlyRateBoost,
		Description:     req.Description,
		Requirements:    req.Requirements,
	}
	if req.Department != nil {
		dept := shift.Department(*req.Department)
		in.Department = &dept
	}
	if req.JobRole != nil {
		role := shift.JobRole(*req.JobRole)
		in.JobRole = &role
	}

	updated, err := h.shifts.UpdateShift(r.Context(), in)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toShiftPayload(updated))
}

func (h *Handler) handleDeleteShift(w http.ResponseWriter, r *http.Request) {
	if err := h.shifts.DeleteShift(r.Context(), shift.DeleteShiftInput{ID: r.PathValue("id")}); err != nil {
		writeUsecaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type applicantRequest struct {
	UserID string `json:"userId"`
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	var req applicantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	updated, err := h.shifts.Apply(r.Context(), shift.ApplyInput{ShiftID: r.PathValue("id"), UserID: req.UserID})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftPayload(updated))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req applicantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	updated, err := h.shifts.Approve(r.Context(), shift.ApproveInput{ShiftID: r.PathValue("id"), UserID: req.UserID})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftPayload(updated))
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	updated, err := h.shifts.Complete(r.Context(), shift.CompleteInput{ShiftID: r.PathValue("id")})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShiftPayload(updated))
}

type positionPayload struct {
	LeftPercent  float64 `json:"leftPercent"`
	WidthPercent float64 `json:"widthPercent"`
}

type dashboardShift struct {
	shiftPayload
	// Position は時刻が表示バンドに乗らないシフトでは省略されます。
	Position *positionPayload `json:"position,omitempty"`
}

type dashboardDay struct {
	Date   string           `json:"date"`
	Shifts []dashboardShift `json:"shifts"`
}

type dashboardResponse struct {
	Date  string         `json:"date"`
	Range string         `json:"range"`
	Days  []dashboardDay `json:"days"`
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	date := q.Get("date")
	if date == "" {
		date = h.now().Format("2006-01-02")
	}

	mode := schedule.RangeMode(q.Get("range"))
	if mode == "" {
		mode = schedule.RangeDay
	}
	if !schedule.IsValidRangeMode(mode) {
		writeUsecaseError(w, schedule.ErrInvalidRange)
		return
	}

	if move := q.Get("move"); move != "" {
		dir := schedule.Forward
		switch move {
		case "next":
		case "prev":
			dir = schedule.Backward
		default:
			writeError(w, http.StatusBadRequest, "invalid_request", "move must be next or prev")
			return
		}
		moved, err := schedule.MoveDate(date, dir, mode)
		if err != nil {
			writeUsecaseError(w, err)
			return
		}
		date = moved
	}

	from, to, err := schedule.RangeBounds(date, mode)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	window, err := h.collectWindow(r.Context(), from, to)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	selected, err := shift.FilterRange(window, date, mode)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	days := make([]dashboardDay, 0)
	for _, group := range shift.GroupByDate(selected) {
		day := dashboardDay{Date: group.Date, Shifts: make([]dashboardShift, 0, len(group.Shifts))}
		for _, s := range group.Shifts {
			entry := dashboardShift{shiftPayload: toShiftPayload(s)}
			// 時刻が壊れたシフトがあっても他のシフトの表示は続ける。
			if pos, err := timeline.Map(s.StartTime, s.EndTime); err == nil {
				entry.Position = &positionPayload{
					LeftPercent:  pos.LeftPercent,
					WidthPercent: pos.WidthPercent,
				}
			}
			day.Shifts = append(day.Shifts, entry)
		}
		days = append(days, day)
	}

	writeJSON(w, http.StatusOK, dashboardResponse{Date: date, Range: string(mode), Days: days})
}

// collectWindow は期間内のシフトをページトークンを使い切るまで集めます。
// 1 ページで打ち切ると混雑した週の表示が欠けるため、必ず全件を返します。
func (h *Handler) collectWindow(ctx context.Context, from, to string) ([]*shift.Shift, error) {
	var (
		window    []*shift.Shift
		pageToken string
	)
	for {
		result, err := h.shifts.ListShifts(ctx, shift.ListShiftsInput{
			FromDate:  from,
			ToDate:    to,
			PageSize:  dashboardPageSize,
			PageToken: pageToken,
		})
		if err != nil {
			return nil, err
		}
		window = append(window, result.Shifts...)
		if result.NextPageToken == "" {
			return window, nil
		}
		pageToken = result.NextPageToken
	}
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		writeError(w, http.StatusBadRequest, "invalid_request", "format must be csv or xlsx")
		return
	}

	rows, err := h.rows.Rows(r.Context())
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	filename := export.Filename(h.exportPrefix, h.now(), format)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		err = export.WriteCSV(w, rows, export.CSVOptions{BOM: h.exportBOM})
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = export.WriteXLSX(w, rows)
	}
	if err != nil {
		// ヘッダ送信後はステータスを変えられないのでログだけ残す。
		logWriteFailure(r, err)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeUsecaseError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeError(w, status, codeForStatus(status), message)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: responseError{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
