package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
)

// PostgresActivityLogRepo はPostgreSQLを使用した活動ログリポジトリ。
type PostgresActivityLogRepo struct {
	db *sql.DB
}

// NewPostgresActivityLogRepo はPostgresActivityLogRepoを生成する。
func NewPostgresActivityLogRepo(db *sql.DB) *PostgresActivityLogRepo {
	return &PostgresActivityLogRepo{db: db}
}

// Create は活動ログを1件追加する。
func (r *PostgresActivityLogRepo) Create(ctx context.Context, log *model.ActivityLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_logs (id, actor_id, action, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		log.ID, log.ActorID, log.Action, log.Detail, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("活動ログの追加に失敗しました: %w", err)
	}
	return nil
}

// ListRecent は新しい順に最大limit件の活動ログを返す。
func (r *PostgresActivityLogRepo) ListRecent(ctx context.Context, limit int) ([]*model.ActivityLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, actor_id, action, detail, created_at
		 FROM activity_logs
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("活動ログの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var logs []*model.ActivityLog
	for rows.Next() {
		log := &model.ActivityLog{}
		if err := rows.Scan(&log.ID, &log.ActorID, &log.Action, &log.Detail, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("活動ログの読み取りに失敗しました: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("活動ログの走査に失敗しました: %w", err)
	}

	return logs, nil
}

// DeleteOlderThan は指定日時より古い活動ログを削除し、削除件数を返す。
func (r *PostgresActivityLogRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM activity_logs WHERE created_at < $1`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("活動ログの削除に失敗しました: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// compile-time interface check
var _ ActivityLogRepository = (*PostgresActivityLogRepo)(nil)
