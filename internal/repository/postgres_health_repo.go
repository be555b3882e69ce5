package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
)

// PostgresHealthRecordRepo はPostgreSQLを使用した健康記録リポジトリ。
type PostgresHealthRecordRepo struct {
	db *sql.DB
}

// NewPostgresHealthRecordRepo はPostgresHealthRecordRepoを生成する。
func NewPostgresHealthRecordRepo(db *sql.DB) *PostgresHealthRecordRepo {
	return &PostgresHealthRecordRepo{db: db}
}

const healthColumns = `id, record_type, record_date, subject_type, subject_id, description, cost, created_at, updated_at`

func scanHealthRecord(scan func(dest ...any) error) (*model.HealthRecord, error) {
	h := &model.HealthRecord{}
	err := scan(&h.ID, &h.RecordType, &h.RecordDate, &h.SubjectType, &h.SubjectID,
		&h.Description, &h.Cost, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// FindByID は指定IDの健康記録を取得する。見つからない場合はnilを返す。
func (r *PostgresHealthRecordRepo) FindByID(ctx context.Context, id string) (*model.HealthRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+healthColumns+` FROM health_records WHERE id = $1`,
		id,
	)
	h, err := scanHealthRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("健康記録の取得に失敗しました: %w", err)
	}
	return h, nil
}

// List は健康記録の一覧を記録日降順で返す。
func (r *PostgresHealthRecordRepo) List(ctx context.Context) ([]*model.HealthRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+healthColumns+` FROM health_records ORDER BY record_date DESC, created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("健康記録一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectHealthRecords(rows)
}

// ListRecent は日付降順で最大limit件の健康記録を返す。
func (r *PostgresHealthRecordRepo) ListRecent(ctx context.Context, limit int) ([]*model.HealthRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+healthColumns+` FROM health_records
		 ORDER BY record_date DESC, created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("直近健康記録の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectHealthRecords(rows)
}

func collectHealthRecords(rows *sql.Rows) ([]*model.HealthRecord, error) {
	var records []*model.HealthRecord
	for rows.Next() {
		h, err := scanHealthRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("健康記録の読み取りに失敗しました: %w", err)
		}
		records = append(records, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("健康記録の走査に失敗しました: %w", err)
	}
	return records, nil
}

// Create は健康記録を作成する。
func (r *PostgresHealthRecordRepo) Create(ctx context.Context, record *model.HealthRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO health_records (id, record_type, record_date, subject_type, subject_id, description, cost, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.ID, record.RecordType, record.RecordDate, record.SubjectType, record.SubjectID,
		record.Description, record.Cost, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("健康記録の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は健康記録を更新する。
func (r *PostgresHealthRecordRepo) Update(ctx context.Context, record *model.HealthRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE health_records
		 SET record_type = $2, record_date = $3, subject_type = $4, subject_id = $5,
		     description = $6, cost = $7, updated_at = now()
		 WHERE id = $1`,
		record.ID, record.RecordType, record.RecordDate, record.SubjectType, record.SubjectID,
		record.Description, record.Cost,
	)
	if err != nil {
		return fmt.Errorf("健康記録の更新に失敗しました: %w", err)
	}
	return requireRowAffected(result, "health record", record.ID)
}

// Delete は指定IDの健康記録を削除する。
func (r *PostgresHealthRecordRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM health_records WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("健康記録の削除に失敗しました: %w", err)
	}
	return requireRowAffected(result, "health record", id)
}

// CountByTypeInRange はrecord_dateが[start, end]に含まれる指定種別の記録数を返す。
func (r *PostgresHealthRecordRepo) CountByTypeInRange(ctx context.Context, recordType model.HealthRecordType, start, end time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM health_records
		 WHERE record_type = $1 AND record_date >= $2 AND record_date <= $3`,
		recordType, start, end,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("期間内健康記録数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ HealthRecordRepository = (*PostgresHealthRecordRepo)(nil)
