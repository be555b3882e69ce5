// Package activity は監査用活動ログのベストエフォート記録を提供する。
package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
	"github.com/hs6uej/farmpigs-sub001/internal/repository"
)

// Recorder は活動ログを記録する。
// 記録の失敗はログ出力のみで握りつぶし、本処理の成否に影響させない。
type Recorder struct {
	repo repository.ActivityLogRepository
	now  func() time.Time
}

// NewRecorder はRecorderを生成する。
func NewRecorder(repo repository.ActivityLogRepository) *Recorder {
	return &Recorder{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock は現在時刻の取得関数を差し替えたRecorderを返す。テスト用。
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	clone := *r
	clone.now = now
	return &clone
}

// Record は活動ログを1件記録する。失敗しても呼び出し元にエラーを返さない。
func (r *Recorder) Record(ctx context.Context, actorID string, action model.ActivityAction, detail string) {
	log := &model.ActivityLog{
		ID:        uuid.New().String(),
		ActorID:   actorID,
		Action:    action,
		Detail:    detail,
		CreatedAt: r.now(),
	}

	if err := r.repo.Create(ctx, log); err != nil {
		slog.Error("failed to record activity log",
			slog.String("actor_id", actorID),
			slog.String("action", string(action)),
			slog.String("error", err.Error()),
		)
	}
}

// ListRecent は新しい順に最大limit件の活動ログを返す。
func (r *Recorder) ListRecent(ctx context.Context, limit int) ([]*model.ActivityLog, error) {
	return r.repo.ListRecent(ctx, limit)
}

// Purge は保持期間retentionDaysを超過した活動ログを削除し、削除件数を返す。
func (r *Recorder) Purge(ctx context.Context, retentionDays int) (int64, error) {
	before := r.now().AddDate(0, 0, -retentionDays)

	deleted, err := r.repo.DeleteOlderThan(ctx, before)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		slog.Info("purged old activity logs",
			slog.Int64("deleted", deleted),
			slog.Time("before", before),
		)
	}
	return deleted, nil
}
