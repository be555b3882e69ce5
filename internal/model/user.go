// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの権限区分を表す。
type Role string

const (
	// RoleAdmin は全操作（ユーザー管理・アカウントロック解除を含む）が可能な管理者。
	RoleAdmin Role = "ADMIN"
	// RoleManager は農場データの全CRUD操作が可能な農場管理者。
	RoleManager Role = "MANAGER"
	// RoleWorker は日常記録の入力を行う作業者。
	RoleWorker Role = "WORKER"
)

// User はサービス利用ユーザーを表す。
// ログイン失敗回数とロック状態（failed_login_attempts, locked_at,
// locked_until, locked_reason）はロックアウト処理のみが更新する。
type User struct {
	ID           string
	Username     string
	Email        string
	Name         string
	Role         Role
	PasswordHash string

	FailedLoginAttempts int
	LockedAt            *time.Time
	LockedUntil         *time.Time
	LockedReason        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LockState はユーザーのロックアウト状態を表す。
type LockState string

const (
	// LockStateActive はロックされていない状態。
	LockStateActive LockState = "ACTIVE"
	// LockStateLocked はロック中（無期限または期限未到来）の状態。
	LockStateLocked LockState = "LOCKED"
	// LockStateExpired はlocked_untilが過去のロック。次回の参照時にACTIVEへ戻す。
	LockStateExpired LockState = "EXPIRED_LOCK"
)

// LockStateAt は基準時刻nowにおけるユーザーのロック状態を判定する。
// locked_atが未設定ならACTIVE。locked_untilが設定済みかつ過去なら
// EXPIRED_LOCK、それ以外（期限未到来または無期限）はLOCKED。
func (u *User) LockStateAt(now time.Time) LockState {
	if u.LockedAt == nil {
		return LockStateActive
	}
	if u.LockedUntil != nil && u.LockedUntil.Before(now) {
		return LockStateExpired
	}
	return LockStateLocked
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ActivityLog は監査用の活動ログを表す。
// 記録はベストエフォートであり、本処理の成否には影響しない。
type ActivityLog struct {
	ID        string
	ActorID   string
	Action    ActivityAction
	Detail    string
	CreatedAt time.Time
}

// ActivityAction は活動ログの操作種別を表す。
type ActivityAction string

const (
	// ActionLoginFailed はパスワード不一致またはユーザー不在によるログイン失敗。
	ActionLoginFailed ActivityAction = "LOGIN_FAILED"
	// ActionLoginBlocked はロック中アカウントへのログイン試行。
	ActionLoginBlocked ActivityAction = "LOGIN_BLOCKED"
	// ActionAccountLocked は失敗回数が上限に達しアカウントをロックした事象。
	ActionAccountLocked ActivityAction = "ACCOUNT_LOCKED"
	// ActionLoginSuccess はログイン成功。
	ActionLoginSuccess ActivityAction = "LOGIN_SUCCESS"
	// ActionUserUnlocked は管理者によるロック解除。
	ActionUserUnlocked ActivityAction = "USER_UNLOCKED"
)

// UnknownActorID はユーザーを特定できないログイン失敗を記録する際の
// 合成アクターID。
const UnknownActorID = "unknown"
