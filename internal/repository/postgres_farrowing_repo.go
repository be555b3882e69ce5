package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
)

// PostgresFarrowingRepo はPostgreSQLを使用した分娩記録リポジトリ。
type PostgresFarrowingRepo struct {
	db *sql.DB
}

// NewPostgresFarrowingRepo はPostgresFarrowingRepoを生成する。
func NewPostgresFarrowingRepo(db *sql.DB) *PostgresFarrowingRepo {
	return &PostgresFarrowingRepo{db: db}
}

const farrowingColumns = `id, breeding_id, sow_id, farrowing_date, total_born, born_alive,
	stillborn, mummified, avg_birth_weight, notes, created_at, updated_at`

func scanFarrowing(scan func(dest ...any) error) (*model.Farrowing, error) {
	f := &model.Farrowing{}
	err := scan(&f.ID, &f.BreedingID, &f.SowID, &f.FarrowingDate, &f.TotalBorn, &f.BornAlive,
		&f.Stillborn, &f.Mummified, &f.AvgBirthWeight, &f.Notes, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// FindByID は指定IDの分娩記録を取得する。見つからない場合はnilを返す。
func (r *PostgresFarrowingRepo) FindByID(ctx context.Context, id string) (*model.Farrowing, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+farrowingColumns+` FROM farrowings WHERE id = $1`,
		id,
	)
	f, err := scanFarrowing(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("分娩記録の取得に失敗しました: %w", err)
	}
	return f, nil
}

// FindByBreedingID は交配記録IDで分娩記録を検索する。見つからない場合はnilを返す。
func (r *PostgresFarrowingRepo) FindByBreedingID(ctx context.Context, breedingID string) (*model.Farrowing, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+farrowingColumns+` FROM farrowings WHERE breeding_id = $1`,
		breedingID,
	)
	f, err := scanFarrowing(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("交配IDによる分娩記録の検索に失敗しました: %w", err)
	}
	return f, nil
}

// List は分娩記録の一覧を分娩日降順で返す。
func (r *PostgresFarrowingRepo) List(ctx context.Context) ([]*model.Farrowing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+farrowingColumns+` FROM farrowings ORDER BY farrowing_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("分娩記録一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectFarrowings(rows)
}

// ListByDateRange はfarrowing_dateが[start, end]に含まれる分娩記録を返す。
func (r *PostgresFarrowingRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.Farrowing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+farrowingColumns+` FROM farrowings
		 WHERE farrowing_date >= $1 AND farrowing_date <= $2
		 ORDER BY farrowing_date`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("期間内分娩記録の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectFarrowings(rows)
}

func collectFarrowings(rows *sql.Rows) ([]*model.Farrowing, error) {
	var farrowings []*model.Farrowing
	for rows.Next() {
		f, err := scanFarrowing(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("分娩記録の読み取りに失敗しました: %w", err)
		}
		farrowings = append(farrowings, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("分娩記録の走査に失敗しました: %w", err)
	}
	return farrowings, nil
}

// Create は分娩記録を作成する。
func (r *PostgresFarrowingRepo) Create(ctx context.Context, farrowing *model.Farrowing) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO farrowings (id, breeding_id, sow_id, farrowing_date, total_born, born_alive,
		                         stillborn, mummified, avg_birth_weight, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		farrowing.ID, farrowing.BreedingID, farrowing.SowID, farrowing.FarrowingDate,
		farrowing.TotalBorn, farrowing.BornAlive, farrowing.Stillborn, farrowing.Mummified,
		farrowing.AvgBirthWeight, farrowing.Notes, farrowing.CreatedAt, farrowing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("分娩記録の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は分娩記録を更新する。
func (r *PostgresFarrowingRepo) Update(ctx context.Context, farrowing *model.Farrowing) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE farrowings
		 SET breeding_id = $2, sow_id = $3, farrowing_date = $4, total_born = $5, born_alive = $6,
		     stillborn = $7, mummified = $8, avg_birth_weight = $9, notes = $10, updated_at = now()
		 WHERE id = $1`,
		farrowing.ID, farrowing.BreedingID, farrowing.SowID, farrowing.FarrowingDate,
		farrowing.TotalBorn, farrowing.BornAlive, farrowing.Stillborn, farrowing.Mummified,
		farrowing.AvgBirthWeight, farrowing.Notes,
	)
	if err != nil {
		return fmt.Errorf("分娩記録の更新に失敗しました: %w", err)
	}
	return requireRowAffected(result, "farrowing", farrowing.ID)
}

// Delete は指定IDの分娩記録を削除する。
func (r *PostgresFarrowingRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM farrowings WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("分娩記録の削除に失敗しました: %w", err)
	}
	return requireRowAffected(result, "farrowing", id)
}

// compile-time interface check
var _ FarrowingRepository = (*PostgresFarrowingRepo)(nil)
