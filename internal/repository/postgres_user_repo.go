package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `id, username, email, name, role, password_hash,
	failed_login_attempts, locked_at, locked_until, locked_reason,
	created_at, updated_at`

// scanUser は1行分のユーザーレコードを読み取る。
func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var passwordHash sql.NullString
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Name, &user.Role, &passwordHash,
		&user.FailedLoginAttempts, &user.LockedAt, &user.LockedUntil, &user.LockedReason,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = passwordHash.String
	return user, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

// Create はユーザーを作成する。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	var passwordHash sql.NullString
	if user.PasswordHash != "" {
		passwordHash = sql.NullString{String: user.PasswordHash, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, name, role, password_hash,
		                    failed_login_attempts, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID, user.Username, user.Email, user.Name, user.Role, passwordHash,
		user.FailedLoginAttempts, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateLockState はロックアウト関連カラムのみを更新する。
func (r *PostgresUserRepo) UpdateLockState(ctx context.Context, userID string, update LockStateUpdate) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET failed_login_attempts = $2,
		     locked_at = $3,
		     locked_until = $4,
		     locked_reason = $5,
		     updated_at = now()
		 WHERE id = $1`,
		userID, update.FailedAttempts, update.LockedAt, update.LockedUntil, update.LockedReason,
	)
	if err != nil {
		return fmt.Errorf("failed to update lock state: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewUserNotFoundError(userID)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
