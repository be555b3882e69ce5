package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
)

// PostgresFeedConsumptionRepo はPostgreSQLを使用した給餌記録リポジトリ。
type PostgresFeedConsumptionRepo struct {
	db *sql.DB
}

// NewPostgresFeedConsumptionRepo はPostgresFeedConsumptionRepoを生成する。
func NewPostgresFeedConsumptionRepo(db *sql.DB) *PostgresFeedConsumptionRepo {
	return &PostgresFeedConsumptionRepo{db: db}
}

const feedColumns = `id, record_date, pen_id, feed_type, quantity, cost, created_at, updated_at`

func scanFeedConsumption(scan func(dest ...any) error) (*model.FeedConsumption, error) {
	f := &model.FeedConsumption{}
	err := scan(&f.ID, &f.RecordDate, &f.PenID, &f.FeedType, &f.Quantity, &f.Cost, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// FindByID は指定IDの給餌記録を取得する。見つからない場合はnilを返す。
func (r *PostgresFeedConsumptionRepo) FindByID(ctx context.Context, id string) (*model.FeedConsumption, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+feedColumns+` FROM feed_consumptions WHERE id = $1`,
		id,
	)
	f, err := scanFeedConsumption(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("給餌記録の取得に失敗しました: %w", err)
	}
	return f, nil
}

// List は給餌記録の一覧を記録日降順で返す。
func (r *PostgresFeedConsumptionRepo) List(ctx context.Context) ([]*model.FeedConsumption, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+feedColumns+` FROM feed_consumptions ORDER BY record_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("給餌記録一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectFeedConsumptions(rows)
}

// ListByDateRange はrecord_dateが[start, end]に含まれる給餌記録を返す。
func (r *PostgresFeedConsumptionRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.FeedConsumption, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+feedColumns+` FROM feed_consumptions
		 WHERE record_date >= $1 AND record_date <= $2
		 ORDER BY record_date`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("期間内給餌記録の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectFeedConsumptions(rows)
}

func collectFeedConsumptions(rows *sql.Rows) ([]*model.FeedConsumption, error) {
	var records []*model.FeedConsumption
	for rows.Next() {
		f, err := scanFeedConsumption(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("給餌記録の読み取りに失敗しました: %w", err)
		}
		records = append(records, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("給餌記録の走査に失敗しました: %w", err)
	}
	return records, nil
}

// Create は給餌記録を作成する。
func (r *PostgresFeedConsumptionRepo) Create(ctx context.Context, record *model.FeedConsumption) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO feed_consumptions (id, record_date, pen_id, feed_type, quantity, cost, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.ID, record.RecordDate, record.PenID, record.FeedType, record.Quantity, record.Cost,
		record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("給餌記録の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は給餌記録を更新する。
func (r *PostgresFeedConsumptionRepo) Update(ctx context.Context, record *model.FeedConsumption) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE feed_consumptions
		 SET record_date = $2, pen_id = $3, feed_type = $4, quantity = $5, cost = $6, updated_at = now()
		 WHERE id = $1`,
		record.ID, record.RecordDate, record.PenID, record.FeedType, record.Quantity, record.Cost,
	)
	if err != nil {
		return fmt.Errorf("給餌記録の更新に失敗しました: %w", err)
	}
	return requireRowAffected(result, "feed consumption", record.ID)
}

// Delete は指定IDの給餌記録を削除する。
func (r *PostgresFeedConsumptionRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM feed_consumptions WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("給餌記録の削除に失敗しました: %w", err)
	}
	return requireRowAffected(result, "feed consumption", id)
}

// compile-time interface check
var _ FeedConsumptionRepository = (*PostgresFeedConsumptionRepo)(nil)
