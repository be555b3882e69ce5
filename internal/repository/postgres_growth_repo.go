package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
)

// PostgresGrowthRecordRepo はPostgreSQLを使用した成長記録リポジトリ。
type PostgresGrowthRecordRepo struct {
	db *sql.DB
}

// NewPostgresGrowthRecordRepo はPostgresGrowthRecordRepoを生成する。
func NewPostgresGrowthRecordRepo(db *sql.DB) *PostgresGrowthRecordRepo {
	return &PostgresGrowthRecordRepo{db: db}
}

const growthColumns = `id, piglet_id, record_date, weight, adg, created_at, updated_at`

func scanGrowthRecord(scan func(dest ...any) error) (*model.GrowthRecord, error) {
	g := &model.GrowthRecord{}
	err := scan(&g.ID, &g.PigletID, &g.RecordDate, &g.Weight, &g.ADG, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// FindByID は指定IDの成長記録を取得する。見つからない場合はnilを返す。
func (r *PostgresGrowthRecordRepo) FindByID(ctx context.Context, id string) (*model.GrowthRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+growthColumns+` FROM growth_records WHERE id = $1`,
		id,
	)
	g, err := scanGrowthRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("成長記録の取得に失敗しました: %w", err)
	}
	return g, nil
}

// ListByPiglet は指定子豚の成長記録を記録日昇順で返す。
func (r *PostgresGrowthRecordRepo) ListByPiglet(ctx context.Context, pigletID string) ([]*model.GrowthRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+growthColumns+` FROM growth_records
		 WHERE piglet_id = $1
		 ORDER BY record_date`,
		pigletID,
	)
	if err != nil {
		return nil, fmt.Errorf("子豚別成長記録の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectGrowthRecords(rows)
}

// ListByDateRange はrecord_dateが[start, end]に含まれる成長記録を
// 子豚ID・記録日順で返す。
func (r *PostgresGrowthRecordRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.GrowthRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+growthColumns+` FROM growth_records
		 WHERE record_date >= $1 AND record_date <= $2
		 ORDER BY piglet_id, record_date`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("期間内成長記録の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectGrowthRecords(rows)
}

func collectGrowthRecords(rows *sql.Rows) ([]*model.GrowthRecord, error) {
	var records []*model.GrowthRecord
	for rows.Next() {
		g, err := scanGrowthRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("成長記録の読み取りに失敗しました: %w", err)
		}
		records = append(records, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("成長記録の走査に失敗しました: %w", err)
	}
	return records, nil
}

// Create は成長記録を作成する。
func (r *PostgresGrowthRecordRepo) Create(ctx context.Context, record *model.GrowthRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO growth_records (id, piglet_id, record_date, weight, adg, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID, record.PigletID, record.RecordDate, record.Weight, record.ADG,
		record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("成長記録の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は成長記録を更新する。
func (r *PostgresGrowthRecordRepo) Update(ctx context.Context, record *model.GrowthRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE growth_records
		 SET piglet_id = $2, record_date = $3, weight = $4, adg = $5, updated_at = now()
		 WHERE id = $1`,
		record.ID, record.PigletID, record.RecordDate, record.Weight, record.ADG,
	)
	if err != nil {
		return fmt.Errorf("成長記録の更新に失敗しました: %w", err)
	}
	return requireRowAffected(result, "growth record", record.ID)
}

// Delete は指定IDの成長記録を削除する。
func (r *PostgresGrowthRecordRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM growth_records WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("成長記録の削除に失敗しました: %w", err)
	}
	return requireRowAffected(result, "growth record", id)
}

// FindLatestBefore は指定子豚のrecord_dateがdate以前で最新の記録を返す。
// 見つからない場合はnilを返す。
func (r *PostgresGrowthRecordRepo) FindLatestBefore(ctx context.Context, pigletID string, date time.Time) (*model.GrowthRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+growthColumns+` FROM growth_records
		 WHERE piglet_id = $1 AND record_date <= $2
		 ORDER BY record_date DESC
		 LIMIT 1`,
		pigletID, date,
	)
	g, err := scanGrowthRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("直前の成長記録の取得に失敗しました: %w", err)
	}
	return g, nil
}

// compile-time interface check
var _ GrowthRecordRepository = (*PostgresGrowthRecordRepo)(nil)
