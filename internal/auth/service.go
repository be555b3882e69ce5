// Package auth はパスワード認証、アカウントロックアウト、セッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
	"github.com/hs6uej/farmpigs-sub001/internal/repository"
)

// ActivitySink は活動ログのベストエフォート記録先。
// 記録の失敗は呼び出し元に伝播しない。
type ActivitySink interface {
	Record(ctx context.Context, actorID string, action model.ActivityAction, detail string)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	MaxLoginAttempts int           // アカウントロックまでの失敗回数上限
	LockoutDuration  time.Duration // ロックの自動解除までの期間
	SessionMaxAge    int           // セッション有効期間（秒）
}

// CheckResult は認証試行の判定結果。
// OK=falseの場合、Codeに結果コード、必要に応じて残り試行回数と
// ロック解除予定時刻が入る。
type CheckResult struct {
	OK                bool
	Code              string
	RemainingAttempts int
	LockedUntil       *time.Time
}

// Service はパスワード認証とロックアウトのビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	activity    ActivitySink
	config      ServiceConfig
	now         func() time.Time
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	activity ActivitySink,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		activity:    activity,
		config:      config,
		now:         time.Now,
	}
}

// WithClock は現在時刻の取得関数を差し替えたServiceを返す。テスト用。
func (s *Service) WithClock(now func() time.Time) *Service {
	clone := *s
	clone.now = now
	return &clone
}

// CheckLogin は認証情報を検証し、ロックアウト状態遷移を適用する。
// セッションは発行しない（事前チェック用）。
//
// 結果コード:
//   - INVALID_CREDENTIALS: ユーザー不在またはパスワード未設定
//   - ACCOUNT_LOCKED:      ロック中アカウントへの試行
//   - ACCOUNT_LOCKED_NOW:  この試行で失敗回数が上限に達しロックした
//   - INVALID_PASSWORD:    パスワード不一致（上限未到達）
//
// データベースエラーはerrorとして返し、結果コードSERVER_ERRORとして
// ハンドラー層で扱う。
func (s *Service) CheckLogin(ctx context.Context, username, password string) (*CheckResult, error) {
	_, result, err := s.verify(ctx, username, password)
	return result, err
}

// Login は認証情報を検証し、成功した場合セッションを発行する。
// 失敗時の状態遷移はCheckLoginと同一。成功時は失敗回数をリセットする。
func (s *Service) Login(ctx context.Context, username, password string) (*model.Session, *CheckResult, error) {
	user, result, err := s.verify(ctx, username, password)
	if err != nil {
		return nil, nil, err
	}
	if !result.OK {
		return nil, result, nil
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.activity.Record(ctx, user.ID, model.ActionLoginSuccess,
		fmt.Sprintf("ログイン成功: username=%s", user.Username))
	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return session, result, nil
}

// verify は認証とロックアウト遷移の本体。
// 読み取り・判定・更新の間に他の試行が割り込む可能性はあるが、
// 失敗回数が多少前後するだけで実害がないため補償しない。
func (s *Service) verify(ctx context.Context, username, password string) (*model.User, *CheckResult, error) {
	now := s.now()

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	// ユーザー不在とパスワード未設定は同一コードで返し、
	// アカウントの存在有無を外部に漏らさない。
	if user == nil || user.PasswordHash == "" {
		s.activity.Record(ctx, model.UnknownActorID, model.ActionLoginFailed,
			fmt.Sprintf("ログイン失敗（ユーザー不明）: username=%s", username))
		return nil, &CheckResult{Code: model.ErrCodeInvalidCredentials}, nil
	}

	switch user.LockStateAt(now) {
	case model.LockStateLocked:
		s.activity.Record(ctx, user.ID, model.ActionLoginBlocked,
			fmt.Sprintf("ロック中アカウントへのログイン試行: username=%s", username))
		return nil, &CheckResult{
			Code:        model.ErrCodeAccountLocked,
			LockedUntil: user.LockedUntil,
		}, nil

	case model.LockStateExpired:
		// 期限切れロックは参照時に解除する（遅延リセット）
		if err := s.userRepo.UpdateLockState(ctx, user.ID, repository.LockStateUpdate{}); err != nil {
			return nil, nil, fmt.Errorf("failed to reset expired lock: %w", err)
		}
		user.FailedLoginAttempts = 0
		user.LockedAt = nil
		user.LockedUntil = nil
		user.LockedReason = nil
		slog.Info("expired lock reset",
			slog.String("user_id", user.ID),
			slog.String("username", username),
		)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return s.handlePasswordMismatch(ctx, user, now)
	}

	// 認証成功。残っている失敗カウントはここでリセットする。
	if user.FailedLoginAttempts > 0 || user.LockedAt != nil {
		if err := s.userRepo.UpdateLockState(ctx, user.ID, repository.LockStateUpdate{}); err != nil {
			return nil, nil, fmt.Errorf("failed to reset failed attempts: %w", err)
		}
	}

	return user, &CheckResult{OK: true}, nil
}

// handlePasswordMismatch はパスワード不一致時の失敗回数加算とロック判定を行う。
func (s *Service) handlePasswordMismatch(ctx context.Context, user *model.User, now time.Time) (*model.User, *CheckResult, error) {
	newFailed := user.FailedLoginAttempts + 1

	if newFailed >= s.config.MaxLoginAttempts {
		lockedUntil := now.Add(s.config.LockoutDuration)
		reason := fmt.Sprintf("Too many failed login attempts (%d)", newFailed)

		update := repository.LockStateUpdate{
			FailedAttempts: newFailed,
			LockedAt:       &now,
			LockedUntil:    &lockedUntil,
			LockedReason:   &reason,
		}
		if err := s.userRepo.UpdateLockState(ctx, user.ID, update); err != nil {
			return nil, nil, fmt.Errorf("failed to lock account: %w", err)
		}

		s.activity.Record(ctx, user.ID, model.ActionAccountLocked,
			fmt.Sprintf("アカウントをロックしました: username=%s 失敗回数=%d", user.Username, newFailed))
		slog.Warn("account locked",
			slog.String("user_id", user.ID),
			slog.String("username", user.Username),
			slog.Int("failed_attempts", newFailed),
			slog.Time("locked_until", lockedUntil),
		)

		return nil, &CheckResult{
			Code:        model.ErrCodeAccountLockedNow,
			LockedUntil: &lockedUntil,
		}, nil
	}

	update := repository.LockStateUpdate{FailedAttempts: newFailed}
	if err := s.userRepo.UpdateLockState(ctx, user.ID, update); err != nil {
		return nil, nil, fmt.Errorf("failed to increment failed attempts: %w", err)
	}

	s.activity.Record(ctx, user.ID, model.ActionLoginFailed,
		fmt.Sprintf("ログイン失敗: username=%s (%d回目)", user.Username, newFailed))

	return nil, &CheckResult{
		Code:              model.ErrCodeInvalidPassword,
		RemainingAttempts: s.config.MaxLoginAttempts - newFailed,
	}, nil
}

// Unlock は管理者によるアカウントロックの手動解除。
// ロックされていないユーザーに対してはUSER_NOT_LOCKEDエラーを返す。
func (s *Service) Unlock(ctx context.Context, actorID, targetUserID string) error {
	user, err := s.userRepo.FindByID(ctx, targetUserID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError(targetUserID)
	}
	if user.LockedAt == nil {
		return model.NewUserNotLockedError(targetUserID)
	}

	priorAttempts := user.FailedLoginAttempts
	if err := s.userRepo.UpdateLockState(ctx, user.ID, repository.LockStateUpdate{}); err != nil {
		return fmt.Errorf("failed to unlock user: %w", err)
	}

	s.activity.Record(ctx, actorID, model.ActionUserUnlocked,
		fmt.Sprintf("ロック解除: username=%s 解除前失敗回数=%d", user.Username, priorAttempts))
	slog.Info("user unlocked",
		slog.String("actor_id", actorID),
		slog.String("user_id", user.ID),
		slog.Int("prior_failed_attempts", priorAttempts),
	)

	return nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はセッションから現在のユーザーを取得する。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session not found or expired")
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	return user, nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := s.now()
	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
