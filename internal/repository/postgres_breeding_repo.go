package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
)

// PostgresBreedingRepo はPostgreSQLを使用した交配記録リポジトリ。
type PostgresBreedingRepo struct {
	db *sql.DB
}

// NewPostgresBreedingRepo はPostgresBreedingRepoを生成する。
func NewPostgresBreedingRepo(db *sql.DB) *PostgresBreedingRepo {
	return &PostgresBreedingRepo{db: db}
}

const breedingColumns = `id, sow_id, boar_id, breeding_date, success, expected_farrow_date, notes, created_at, updated_at`

func scanBreeding(scan func(dest ...any) error) (*model.Breeding, error) {
	b := &model.Breeding{}
	err := scan(&b.ID, &b.SowID, &b.BoarID, &b.BreedingDate, &b.Success, &b.ExpectedFarrowDate,
		&b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// FindByID は指定IDの交配記録を取得する。見つからない場合はnilを返す。
func (r *PostgresBreedingRepo) FindByID(ctx context.Context, id string) (*model.Breeding, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+breedingColumns+` FROM breedings WHERE id = $1`,
		id,
	)
	b, err := scanBreeding(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("交配記録の取得に失敗しました: %w", err)
	}
	return b, nil
}

// List は交配記録の一覧を交配日降順で返す。
func (r *PostgresBreedingRepo) List(ctx context.Context) ([]*model.Breeding, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+breedingColumns+` FROM breedings ORDER BY breeding_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("交配記録一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectBreedings(rows)
}

// ListByDateRange はbreeding_dateが[start, end]に含まれる交配記録を返す。
func (r *PostgresBreedingRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.Breeding, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+breedingColumns+` FROM breedings
		 WHERE breeding_date >= $1 AND breeding_date <= $2
		 ORDER BY breeding_date`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("期間内交配記録の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return collectBreedings(rows)
}

func collectBreedings(rows *sql.Rows) ([]*model.Breeding, error) {
	var breedings []*model.Breeding
	for rows.Next() {
		b, err := scanBreeding(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("交配記録の読み取りに失敗しました: %w", err)
		}
		breedings = append(breedings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("交配記録の走査に失敗しました: %w", err)
	}
	return breedings, nil
}

// Create は交配記録を作成する。
func (r *PostgresBreedingRepo) Create(ctx context.Context, breeding *model.Breeding) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO breedings (id, sow_id, boar_id, breeding_date, success, expected_farrow_date, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		breeding.ID, breeding.SowID, breeding.BoarID, breeding.BreedingDate, breeding.Success,
		breeding.ExpectedFarrowDate, breeding.Notes, breeding.CreatedAt, breeding.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("交配記録の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は交配記録を更新する。
func (r *PostgresBreedingRepo) Update(ctx context.Context, breeding *model.Breeding) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE breedings
		 SET sow_id = $2, boar_id = $3, breeding_date = $4, success = $5,
		     expected_farrow_date = $6, notes = $7, updated_at = now()
		 WHERE id = $1`,
		breeding.ID, breeding.SowID, breeding.BoarID, breeding.BreedingDate, breeding.Success,
		breeding.ExpectedFarrowDate, breeding.Notes,
	)
	if err != nil {
		return fmt.Errorf("交配記録の更新に失敗しました: %w", err)
	}
	return requireRowAffected(result, "breeding", breeding.ID)
}

// Delete は指定IDの交配記録を削除する。
func (r *PostgresBreedingRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM breedings WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("交配記録の削除に失敗しました: %w", err)
	}
	return requireRowAffected(result, "breeding", id)
}

// ListUpcomingFarrowings はexpected_farrow_dateが[from, until]に含まれ、
// まだ分娩記録が紐付いていない交配記録を予定日昇順で最大limit件返す。
func (r *PostgresBreedingRepo) ListUpcomingFarrowings(ctx context.Context, from, until time.Time, limit int) ([]*UpcomingFarrowing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.sow_id, s.tag_number, b.breeding_date, b.expected_farrow_date
		 FROM breedings b
		 JOIN sows s ON s.id = b.sow_id
		 WHERE b.expected_farrow_date >= $1
		   AND b.expected_farrow_date <= $2
		   AND NOT EXISTS (SELECT 1 FROM farrowings f WHERE f.breeding_id = b.id)
		 ORDER BY b.expected_farrow_date
		 LIMIT $3`,
		from, until, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("分娩予定の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var upcoming []*UpcomingFarrowing
	for rows.Next() {
		u := &UpcomingFarrowing{}
		if err := rows.Scan(&u.BreedingID, &u.SowID, &u.SowTagNumber, &u.BreedingDate, &u.ExpectedFarrowDate); err != nil {
			return nil, fmt.Errorf("分娩予定の読み取りに失敗しました: %w", err)
		}
		upcoming = append(upcoming, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("分娩予定の走査に失敗しました: %w", err)
	}

	return upcoming, nil
}

// compile-time interface check
var _ BreedingRepository = (*PostgresBreedingRepo)(nil)
