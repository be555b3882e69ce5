// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
)

// LockStateUpdate はユーザーのロックアウト関連カラムの更新内容を表す。
// リセット時はFailedAttempts=0かつポインタフィールドをすべてnilにする。
type LockStateUpdate struct {
	FailedAttempts int
	LockedAt       *time.Time
	LockedUntil    *time.Time
	LockedReason   *string
}

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// UpdateLockState はロックアウト関連カラム（failed_login_attempts,
	// locked_at, locked_until, locked_reason）のみを更新する。
	UpdateLockState(ctx context.Context, userID string, update LockStateUpdate) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// ActivityLogRepository は活動ログの永続化インターフェース。
type ActivityLogRepository interface {
	// Create は活動ログを1件追加する。
	Create(ctx context.Context, log *model.ActivityLog) error
	// ListRecent は新しい順に最大limit件の活動ログを返す。
	ListRecent(ctx context.Context, limit int) ([]*model.ActivityLog, error)
	// DeleteOlderThan は指定日時より古い活動ログを削除し、削除件数を返す。
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// PenRepository は豚房データの永続化インターフェース。
type PenRepository interface {
	FindByID(ctx context.Context, id string) (*model.Pen, error)
	List(ctx context.Context) ([]*model.Pen, error)
	Create(ctx context.Context, pen *model.Pen) error
	Update(ctx context.Context, pen *model.Pen) error
	Delete(ctx context.Context, id string) error
	// Count は豚房の総数を返す。
	Count(ctx context.Context) (int, error)
}

// SowRepository は母豚データの永続化インターフェース。
type SowRepository interface {
	FindByID(ctx context.Context, id string) (*model.Sow, error)
	List(ctx context.Context) ([]*model.Sow, error)
	Create(ctx context.Context, sow *model.Sow) error
	Update(ctx context.Context, sow *model.Sow) error
	Delete(ctx context.Context, id string) error
	// CountActive はDEADを除く母豚の頭数を返す。
	CountActive(ctx context.Context) (int, error)
	// CountByStatus はDEADを除く母豚のステータス別頭数を返す。
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// BoarRepository は種雄豚データの永続化インターフェース。
type BoarRepository interface {
	FindByID(ctx context.Context, id string) (*model.Boar, error)
	List(ctx context.Context) ([]*model.Boar, error)
	Create(ctx context.Context, boar *model.Boar) error
	Update(ctx context.Context, boar *model.Boar) error
	Delete(ctx context.Context, id string) error
	// CountActive はDEADを除く種雄豚の頭数を返す。
	CountActive(ctx context.Context) (int, error)
}

// PigletRepository は子豚データの永続化インターフェース。
type PigletRepository interface {
	FindByID(ctx context.Context, id string) (*model.Piglet, error)
	List(ctx context.Context) ([]*model.Piglet, error)
	Create(ctx context.Context, piglet *model.Piglet) error
	Update(ctx context.Context, piglet *model.Piglet) error
	Delete(ctx context.Context, id string) error
	// CountActive はDEADを除く子豚の頭数を返す。
	CountActive(ctx context.Context) (int, error)
	// CountByStatus はDEADを除く子豚のステータス別頭数を返す。
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// UpcomingFarrowing は分娩予定の交配記録と母豚情報を結合した構造体。
type UpcomingFarrowing struct {
	BreedingID         string
	SowID              string
	SowTagNumber       string
	BreedingDate       time.Time
	ExpectedFarrowDate time.Time
}

// BreedingRepository は交配記録の永続化インターフェース。
type BreedingRepository interface {
	FindByID(ctx context.Context, id string) (*model.Breeding, error)
	List(ctx context.Context) ([]*model.Breeding, error)
	Create(ctx context.Context, breeding *model.Breeding) error
	Update(ctx context.Context, breeding *model.Breeding) error
	Delete(ctx context.Context, id string) error

	// ListByDateRange はbreeding_dateが[start, end]に含まれる交配記録を返す。
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.Breeding, error)

	// ListUpcomingFarrowings はexpected_farrow_dateが[from, until]に含まれ、
	// まだ分娩記録が紐付いていない交配記録を予定日昇順で最大limit件返す。
	ListUpcomingFarrowings(ctx context.Context, from, until time.Time, limit int) ([]*UpcomingFarrowing, error)
}

// FarrowingRepository は分娩記録の永続化インターフェース。
type FarrowingRepository interface {
	FindByID(ctx context.Context, id string) (*model.Farrowing, error)
	FindByBreedingID(ctx context.Context, breedingID string) (*model.Farrowing, error)
	List(ctx context.Context) ([]*model.Farrowing, error)
	Create(ctx context.Context, farrowing *model.Farrowing) error
	Update(ctx context.Context, farrowing *model.Farrowing) error
	Delete(ctx context.Context, id string) error

	// ListByDateRange はfarrowing_dateが[start, end]に含まれる分娩記録を返す。
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.Farrowing, error)
}

// HealthRecordRepository は健康記録の永続化インターフェース。
type HealthRecordRepository interface {
	FindByID(ctx context.Context, id string) (*model.HealthRecord, error)
	List(ctx context.Context) ([]*model.HealthRecord, error)
	Create(ctx context.Context, record *model.HealthRecord) error
	Update(ctx context.Context, record *model.HealthRecord) error
	Delete(ctx context.Context, id string) error

	// CountByTypeInRange はrecord_dateが[start, end]に含まれる指定種別の記録数を返す。
	CountByTypeInRange(ctx context.Context, recordType model.HealthRecordType, start, end time.Time) (int, error)

	// ListRecent は日付降順で最大limit件の健康記録を返す。期間指定の影響を受けない。
	ListRecent(ctx context.Context, limit int) ([]*model.HealthRecord, error)
}

// GrowthRecordRepository は成長記録の永続化インターフェース。
type GrowthRecordRepository interface {
	FindByID(ctx context.Context, id string) (*model.GrowthRecord, error)
	ListByPiglet(ctx context.Context, pigletID string) ([]*model.GrowthRecord, error)
	Create(ctx context.Context, record *model.GrowthRecord) error
	Update(ctx context.Context, record *model.GrowthRecord) error
	Delete(ctx context.Context, id string) error

	// ListByDateRange はrecord_dateが[start, end]に含まれる成長記録を返す。
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.GrowthRecord, error)

	// FindLatestBefore は指定子豚のrecord_dateがdate以前で最新の記録を返す。
	// 見つからない場合はnilを返す。ADGの導出に使用する。
	FindLatestBefore(ctx context.Context, pigletID string, date time.Time) (*model.GrowthRecord, error)
}

// FeedConsumptionRepository は給餌記録の永続化インターフェース。
type FeedConsumptionRepository interface {
	FindByID(ctx context.Context, id string) (*model.FeedConsumption, error)
	List(ctx context.Context) ([]*model.FeedConsumption, error)
	Create(ctx context.Context, record *model.FeedConsumption) error
	Update(ctx context.Context, record *model.FeedConsumption) error
	Delete(ctx context.Context, id string) error

	// ListByDateRange はrecord_dateが[start, end]に含まれる給餌記録を返す。
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.FeedConsumption, error)
}
