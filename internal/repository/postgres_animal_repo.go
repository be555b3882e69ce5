package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
)

// PostgresSowRepo はPostgreSQLを使用した母豚リポジトリ。
type PostgresSowRepo struct {
	db *sql.DB
}

// NewPostgresSowRepo はPostgresSowRepoを生成する。
func NewPostgresSowRepo(db *sql.DB) *PostgresSowRepo {
	return &PostgresSowRepo{db: db}
}

const sowColumns = `id, tag_number, breed, birth_date, status, pen_id, notes, created_at, updated_at`

// FindByID は指定IDの母豚を取得する。見つからない場合はnilを返す。
func (r *PostgresSowRepo) FindByID(ctx context.Context, id string) (*model.Sow, error) {
	sow := &model.Sow{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+sowColumns+` FROM sows WHERE id = $1`,
		id,
	).Scan(&sow.ID, &sow.TagNumber, &sow.Breed, &sow.BirthDate, &sow.Status, &sow.PenID, &sow.Notes, &sow.CreatedAt, &sow.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("母豚の取得に失敗しました: %w", err)
	}

	return sow, nil
}

// List は母豚の一覧を耳標番号順で返す。
func (r *PostgresSowRepo) List(ctx context.Context) ([]*model.Sow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sowColumns+` FROM sows ORDER BY tag_number`,
	)
	if err != nil {
		return nil, fmt.Errorf("母豚一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var sows []*model.Sow
	for rows.Next() {
		sow := &model.Sow{}
		if err := rows.Scan(&sow.ID, &sow.TagNumber, &sow.Breed, &sow.BirthDate, &sow.Status, &sow.PenID, &sow.Notes, &sow.CreatedAt, &sow.UpdatedAt); err != nil {
			return nil, fmt.Errorf("母豚の読み取りに失敗しました: %w", err)
		}
		sows = append(sows, sow)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("母豚一覧の走査に失敗しました: %w", err)
	}

	return sows, nil
}

// Create は母豚を作成する。
func (r *PostgresSowRepo) Create(ctx context.Context, sow *model.Sow) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sows (id, tag_number, breed, birth_date, status, pen_id, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sow.ID, sow.TagNumber, sow.Breed, sow.BirthDate, sow.Status, sow.PenID, sow.Notes, sow.CreatedAt, sow.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("母豚の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は母豚情報を更新する。
func (r *PostgresSowRepo) Update(ctx context.Context, sow *model.Sow) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sows
		 SET tag_number = $2, breed = $3, birth_date = $4, status = $5, pen_id = $6, notes = $7, updated_at = now()
		 WHERE id = $1`,
		sow.ID, sow.TagNumber, sow.Breed, sow.BirthDate, sow.Status, sow.PenID, sow.Notes,
	)
	if err != nil {
		return fmt.Errorf("母豚の更新に失敗しました: %w", err)
	}
	return requireRowAffected(result, "sow", sow.ID)
}

// Delete は指定IDの母豚を削除する。
func (r *PostgresSowRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sows WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("母豚の削除に失敗しました: %w", err)
	}
	return requireRowAffected(result, "sow", id)
}

// CountActive はDEADを除く母豚の頭数を返す。
func (r *PostgresSowRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sows WHERE status <> 'DEAD'`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("母豚数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountByStatus はDEADを除く母豚のステータス別頭数を返す。
func (r *PostgresSowRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	return countByStatus(ctx, r.db, "sows")
}

// compile-time interface check
var _ SowRepository = (*PostgresSowRepo)(nil)

// PostgresBoarRepo はPostgreSQLを使用した種雄豚リポジトリ。
type PostgresBoarRepo struct {
	db *sql.DB
}

// NewPostgresBoarRepo はPostgresBoarRepoを生成する。
func NewPostgresBoarRepo(db *sql.DB) *PostgresBoarRepo {
	return &PostgresBoarRepo{db: db}
}

// FindByID は指定IDの種雄豚を取得する。見つからない場合はnilを返す。
func (r *PostgresBoarRepo) FindByID(ctx context.Context, id string) (*model.Boar, error) {
	boar := &model.Boar{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, tag_number, breed, birth_date, status, pen_id, notes, created_at, updated_at
		 FROM boars WHERE id = $1`,
		id,
	).Scan(&boar.ID, &boar.TagNumber, &boar.Breed, &boar.BirthDate, &boar.Status, &boar.PenID, &boar.Notes, &boar.CreatedAt, &boar.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("種雄豚の取得に失敗しました: %w", err)
	}

	return boar, nil
}

// List は種雄豚の一覧を耳標番号順で返す。
func (r *PostgresBoarRepo) List(ctx context.Context) ([]*model.Boar, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tag_number, breed, birth_date, status, pen_id, notes, created_at, updated_at
		 FROM boars ORDER BY tag_number`,
	)
	if err != nil {
		return nil, fmt.Errorf("種雄豚一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var boars []*model.Boar
	for rows.Next() {
		boar := &model.Boar{}
		if err := rows.Scan(&boar.ID, &boar.TagNumber, &boar.Breed, &boar.BirthDate, &boar.Status, &boar.PenID, &boar.Notes, &boar.CreatedAt, &boar.UpdatedAt); err != nil {
			return nil, fmt.Errorf("種雄豚の読み取りに失敗しました: %w", err)
		}
		boars = append(boars, boar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("種雄豚一覧の走査に失敗しました: %w", err)
	}

	return boars, nil
}

// Create は種雄豚を作成する。
func (r *PostgresBoarRepo) Create(ctx context.Context, boar *model.Boar) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO boars (id, tag_number, breed, birth_date, status, pen_id, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		boar.ID, boar.TagNumber, boar.Breed, boar.BirthDate, boar.Status, boar.PenID, boar.Notes, boar.CreatedAt, boar.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("種雄豚の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は種雄豚情報を更新する。
func (r *PostgresBoarRepo) Update(ctx context.Context, boar *model.Boar) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE boars
		 SET tag_number = $2, breed = $3, birth_date = $4, status = $5, pen_id = $6, notes = $7, updated_at = now()
		 WHERE id = $1`,
		boar.ID, boar.TagNumber, boar.Breed, boar.BirthDate, boar.Status, boar.PenID, boar.Notes,
	)
	if err != nil {
		return fmt.Errorf("種雄豚の更新に失敗しました: %w", err)
	}
	return requireRowAffected(result, "boar", boar.ID)
}

// Delete は指定IDの種雄豚を削除する。
func (r *PostgresBoarRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM boars WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("種雄豚の削除に失敗しました: %w", err)
	}
	return requireRowAffected(result, "boar", id)
}

// CountActive はDEADを除く種雄豚の頭数を返す。
func (r *PostgresBoarRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM boars WHERE status <> 'DEAD'`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("種雄豚数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ BoarRepository = (*PostgresBoarRepo)(nil)

// PostgresPigletRepo はPostgreSQLを使用した子豚リポジトリ。
type PostgresPigletRepo struct {
	db *sql.DB
}

// NewPostgresPigletRepo はPostgresPigletRepoを生成する。
func NewPostgresPigletRepo(db *sql.DB) *PostgresPigletRepo {
	return &PostgresPigletRepo{db: db}
}

const pigletColumns = `id, tag_number, farrowing_id, sow_id, birth_date, birth_weight, sex, status, pen_id, created_at, updated_at`

// FindByID は指定IDの子豚を取得する。見つからない場合はnilを返す。
func (r *PostgresPigletRepo) FindByID(ctx context.Context, id string) (*model.Piglet, error) {
	piglet := &model.Piglet{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+pigletColumns+` FROM piglets WHERE id = $1`,
		id,
	).Scan(&piglet.ID, &piglet.TagNumber, &piglet.FarrowingID, &piglet.SowID, &piglet.BirthDate,
		&piglet.BirthWeight, &piglet.Sex, &piglet.Status, &piglet.PenID, &piglet.CreatedAt, &piglet.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("子豚の取得に失敗しました: %w", err)
	}

	return piglet, nil
}

// List は子豚の一覧を耳標番号順で返す。
func (r *PostgresPigletRepo) List(ctx context.Context) ([]*model.Piglet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+pigletColumns+` FROM piglets ORDER BY tag_number`,
	)
	if err != nil {
		return nil, fmt.Errorf("子豚一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var piglets []*model.Piglet
	for rows.Next() {
		piglet := &model.Piglet{}
		if err := rows.Scan(&piglet.ID, &piglet.TagNumber, &piglet.FarrowingID, &piglet.SowID, &piglet.BirthDate,
			&piglet.BirthWeight, &piglet.Sex, &piglet.Status, &piglet.PenID, &piglet.CreatedAt, &piglet.UpdatedAt); err != nil {
			return nil, fmt.Errorf("子豚の読み取りに失敗しました: %w", err)
		}
		piglets = append(piglets, piglet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("子豚一覧の走査に失敗しました: %w", err)
	}

	return piglets, nil
}

// Create は子豚を作成する。
func (r *PostgresPigletRepo) Create(ctx context.Context, piglet *model.Piglet) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO piglets (id, tag_number, farrowing_id, sow_id, birth_date, birth_weight, sex, status, pen_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		piglet.ID, piglet.TagNumber, piglet.FarrowingID, piglet.SowID, piglet.BirthDate,
		piglet.BirthWeight, piglet.Sex, piglet.Status, piglet.PenID, piglet.CreatedAt, piglet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("子豚の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は子豚情報を更新する。
func (r *PostgresPigletRepo) Update(ctx context.Context, piglet *model.Piglet) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE piglets
		 SET tag_number = $2, farrowing_id = $3, sow_id = $4, birth_date = $5,
		     birth_weight = $6, sex = $7, status = $8, pen_id = $9, updated_at = now()
		 WHERE id = $1`,
		piglet.ID, piglet.TagNumber, piglet.FarrowingID, piglet.SowID, piglet.BirthDate,
		piglet.BirthWeight, piglet.Sex, piglet.Status, piglet.PenID,
	)
	if err != nil {
		return fmt.Errorf("子豚の更新に失敗しました: %w", err)
	}
	return requireRowAffected(result, "piglet", piglet.ID)
}

// Delete は指定IDの子豚を削除する。
func (r *PostgresPigletRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM piglets WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("子豚の削除に失敗しました: %w", err)
	}
	return requireRowAffected(result, "piglet", id)
}

// CountActive はDEADを除く子豚の頭数を返す。
func (r *PostgresPigletRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM piglets WHERE status <> 'DEAD'`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("子豚数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// CountByStatus はDEADを除く子豚のステータス別頭数を返す。
func (r *PostgresPigletRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	return countByStatus(ctx, r.db, "piglets")
}

// compile-time interface check
var _ PigletRepository = (*PostgresPigletRepo)(nil)

// countByStatus は指定テーブルのDEADを除くステータス別件数を集計する。
// tableは本パッケージ内の固定文字列のみを渡すこと。
func countByStatus(ctx context.Context, db *sql.DB, table string) (map[string]int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM `+table+` WHERE status <> 'DEAD' GROUP BY status`,
	)
	if err != nil {
		return nil, fmt.Errorf("ステータス別頭数の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("ステータス別頭数の読み取りに失敗しました: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ステータス別頭数の走査に失敗しました: %w", err)
	}

	return counts, nil
}
