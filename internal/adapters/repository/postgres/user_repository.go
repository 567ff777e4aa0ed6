package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tasukeai/shift-marketplace/internal/core/shift"
	"github.com/tasukeai/shift-marketplace/internal/core/user"
	pgdb "github.com/tasukeai/shift-marketplace/internal/platform/db/postgres"
)

const userUniqueViolationCode = "23505"

// UserRepository は PostgreSQL を利用した職員名簿の実装です。
type UserRepository struct {
	pool pgdb.Queryer
}

// NewUserRepository は UserRepository を生成します。
func NewUserRepository(pool pgdb.Queryer) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, department, role, password, created_at, updated_at`

// Create は職員を新規登録します。
func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO users (id, name, department, role, password, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING `+userColumns,
		u.ID,
		u.Name,
		string(u.Department),
		string(u.Role),
		u.Password,
		u.CreatedAt,
		u.UpdatedAt,
	)

	created, err := scanUser(row)
	if err != nil {
		return nil, translateUserPgError(err)
	}
	return created, nil
}

// Update は職員情報を更新します。
func (r *UserRepository) Update(ctx context.Context, u *user.User) (*user.User, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE users
           SET name = $1,
               department = $2,
               role = $3,
               password = $4,
               updated_at = $5
         WHERE id = $6
        RETURNING `+userColumns,
		u.Name,
		string(u.Department),
		string(u.Role),
		u.Password,
		u.UpdatedAt,
		u.ID,
	)

	updated, err := scanUser(row)
	if err != nil {
		return nil, translateUserPgError(err)
	}
	return updated, nil
}

// FindByID は ID で職員を取得します。
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+userColumns+`
          FROM users
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanUser(row)
	if err != nil {
		return nil, translateUserPgError(err)
	}
	return found, nil
}

// List は職員の一覧を取得します。
func (r *UserRepository) List(ctx context.Context, filter user.ListUsersFilter) ([]*user.User, string, error) {
	if filter.Limit <= 0 {
		return nil, "", user.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", user.ErrInvalidPageToken
	}

	limitWithBuffer := filter.Limit + 1

	args := make([]any, 0, 3)
	conditions := make([]string, 0, 1)

	if filter.Role != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "role = "+placeholder)
		args = append(args, string(*filter.Role))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limitPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, limitWithBuffer)
	offsetPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, filter.Offset)

	query := `
        SELECT ` + userColumns + `
          FROM users` + whereClause + `
         ORDER BY id ASC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder + `
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateUserPgError(err)
	}
	defer rows.Close()

	users := make([]*user.User, 0, filter.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, "", translateUserPgError(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, "", translateUserPgError(err)
	}

	var nextToken string
	if len(users) == limitWithBuffer {
		users = users[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}

	return users, nextToken, nil
}

// ListAll は全職員を ID 順で取得します。
func (r *UserRepository) ListAll(ctx context.Context) ([]*user.User, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+userColumns+`
          FROM users
         ORDER BY id ASC
    `)
	if err != nil {
		return nil, translateUserPgError(err)
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, translateUserPgError(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, translateUserPgError(err)
	}

	return users, nil
}

// Count は登録済み職員数を返します。初期データ投入の要否判定に使います。
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var count int
	if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, translateUserPgError(err)
	}
	return count, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var (
		id         string
		name       string
		department string
		role       string
		password   string
		createdAt  time.Time
		updatedAt  time.Time
	)

	if err := row.Scan(
		&id,
		&name,
		&department,
		&role,
		&password,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}

	return &user.User{
		ID:         id,
		Name:       name,
		Department: shift.Department(department),
		Role:       user.Role(role),
		Password:   password,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}

func translateUserPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return user.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == userUniqueViolationCode {
		return user.ErrUserAlreadyExists
	}

	return err
}
