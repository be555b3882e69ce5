package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
)

// PostgresPenRepo はPostgreSQLを使用した豚房リポジトリ。
type PostgresPenRepo struct {
	db *sql.DB
}

// NewPostgresPenRepo はPostgresPenRepoを生成する。
func NewPostgresPenRepo(db *sql.DB) *PostgresPenRepo {
	return &PostgresPenRepo{db: db}
}

// FindByID は指定IDの豚房を取得する。見つからない場合はnilを返す。
func (r *PostgresPenRepo) FindByID(ctx context.Context, id string) (*model.Pen, error) {
	pen := &model.Pen{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, pen_type, capacity, notes, created_at, updated_at
		 FROM pens WHERE id = $1`,
		id,
	).Scan(&pen.ID, &pen.Name, &pen.PenType, &pen.Capacity, &pen.Notes, &pen.CreatedAt, &pen.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("豚房の取得に失敗しました: %w", err)
	}

	return pen, nil
}

// List は豚房の一覧を名前順で返す。
func (r *PostgresPenRepo) List(ctx context.Context) ([]*model.Pen, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, pen_type, capacity, notes, created_at, updated_at
		 FROM pens ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("豚房一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var pens []*model.Pen
	for rows.Next() {
		pen := &model.Pen{}
		if err := rows.Scan(&pen.ID, &pen.Name, &pen.PenType, &pen.Capacity, &pen.Notes, &pen.CreatedAt, &pen.UpdatedAt); err != nil {
			return nil, fmt.Errorf("豚房の読み取りに失敗しました: %w", err)
		}
		pens = append(pens, pen)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("豚房一覧の走査に失敗しました: %w", err)
	}

	return pens, nil
}

// Create は豚房を作成する。
func (r *PostgresPenRepo) Create(ctx context.Context, pen *model.Pen) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pens (id, name, pen_type, capacity, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		pen.ID, pen.Name, pen.PenType, pen.Capacity, pen.Notes, pen.CreatedAt, pen.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("豚房の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は豚房情報を更新する。
func (r *PostgresPenRepo) Update(ctx context.Context, pen *model.Pen) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE pens
		 SET name = $2, pen_type = $3, capacity = $4, notes = $5, updated_at = now()
		 WHERE id = $1`,
		pen.ID, pen.Name, pen.PenType, pen.Capacity, pen.Notes,
	)
	if err != nil {
		return fmt.Errorf("豚房の更新に失敗しました: %w", err)
	}
	return requireRowAffected(result, "pen", pen.ID)
}

// Delete は指定IDの豚房を削除する。
func (r *PostgresPenRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM pens WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("豚房の削除に失敗しました: %w", err)
	}
	return requireRowAffected(result, "pen", id)
}

// Count は豚房の総数を返す。
func (r *PostgresPenRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pens`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("豚房数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// requireRowAffected は更新・削除が1件も対象に当たらなかった場合にエラーを返す。
func requireRowAffected(result sql.Result, kind, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewRecordNotFoundError(kind, id)
	}
	return nil
}

// compile-time interface check
var _ PenRepository = (*PostgresPenRepo)(nil)
