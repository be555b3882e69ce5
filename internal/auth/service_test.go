package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
	"github.com/hs6uej/farmpigs-sub001/internal/repository"
)

type mockUserRepo struct {
	findByIDFunc        func(ctx context.Context, id string) (*model.User, error)
	findByUsernameFunc  func(ctx context.Context, username string) (*model.User, error)
	createFunc          func(ctx context.Context, user *model.User) error
	updateLockStateFunc func(ctx context.Context, userID string, update repository.LockStateUpdate) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.findByUsernameFunc(ctx, username)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.createFunc(ctx, user)
}

func (m *mockUserRepo) UpdateLockState(ctx context.Context, userID string, update repository.LockStateUpdate) error {
	return m.updateLockStateFunc(ctx, userID, update)
}

type mockSessionRepo struct {
	createFunc         func(ctx context.Context, session *model.Session) error
	findByIDFunc       func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFunc     func(ctx context.Context, id string) error
	deleteByUserIDFunc func(ctx context.Context, userID string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	return m.createFunc(ctx, session)
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	return m.deleteByIDFunc(ctx, id)
}

func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return m.deleteByUserIDFunc(ctx, userID)
}

// recordedActivity は記録された活動ログ1件。
type recordedActivity struct {
	ActorID string
	Action  model.ActivityAction
	Detail  string
}

type mockActivitySink struct {
	records []recordedActivity
}

func (m *mockActivitySink) Record(ctx context.Context, actorID string, action model.ActivityAction, detail string) {
	m.records = append(m.records, recordedActivity{ActorID: actorID, Action: action, Detail: detail})
}

var testNow = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func testPasswordHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

func testConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts: 5,
		LockoutDuration:  30 * time.Minute,
		SessionMaxAge:    86400,
	}
}

func newTestUser(t *testing.T, password string) *model.User {
	t.Helper()
	return &model.User{
		ID:           "user-1",
		Username:     "tanaka",
		Role:         model.RoleWorker,
		PasswordHash: testPasswordHash(t, password),
	}
}

// ユーザー不在の場合INVALID_CREDENTIALSが返り、
// 合成アクターID "unknown" で失敗が記録されることを検証
func TestCheckLogin_UnknownUser(t *testing.T) {
	sink := &mockActivitySink{}
	userRepo := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return nil, nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, sink, testConfig())

	result, err := svc.CheckLogin(context.Background(), "nobody", "password")
	if err != nil {
		t.Fatalf("CheckLogin failed: %v", err)
	}

	if result.OK {
		t.Error("expected OK=false")
	}
	if result.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("Code = %s, want %s", result.Code, model.ErrCodeInvalidCredentials)
	}
	if len(sink.records) != 1 {
		t.Fatalf("activity records = %d, want 1", len(sink.records))
	}
	if sink.records[0].ActorID != model.UnknownActorID {
		t.Errorf("ActorID = %s, want %s", sink.records[0].ActorID, model.UnknownActorID)
	}
	if sink.records[0].Action != model.ActionLoginFailed {
		t.Errorf("Action = %s, want %s", sink.records[0].Action, model.ActionLoginFailed)
	}
}

// パスワード未設定のユーザーもユーザー不在と同じコードになることを検証
// （アカウントの存在有無を漏らさない）
func TestCheckLogin_UserWithoutPassword(t *testing.T) {
	user := &model.User{ID: "user-1", Username: "tanaka", PasswordHash: ""}
	userRepo := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return user, nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, &mockActivitySink{}, testConfig())

	result, err := svc.CheckLogin(context.Background(), "tanaka", "password")
	if err != nil {
		t.Fatalf("CheckLogin failed: %v", err)
	}
	if result.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("Code = %s, want %s", result.Code, model.ErrCodeInvalidCredentials)
	}
}

// パスワード不一致（上限未到達）でINVALID_PASSWORDと
// 残り試行回数が返り、失敗回数が加算されることを検証
func TestCheckLogin_WrongPasswordIncrementsCounter(t *testing.T) {
	user := newTestUser(t, "correct-password")
	user.FailedLoginAttempts = 2

	var gotUpdate repository.LockStateUpdate
	sink := &mockActivitySink{}
	userRepo := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return user, nil
		},
		updateLockStateFunc: func(ctx context.Context, userID string, update repository.LockStateUpdate) error {
			gotUpdate = update
			return nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, sink, testConfig()).
		WithClock(func() time.Time { return testNow })

	result, err := svc.CheckLogin(context.Background(), "tanaka", "wrong-password")
	if err != nil {
		t.Fatalf("CheckLogin failed: %v", err)
	}

	if result.Code != model.ErrCodeInvalidPassword {
		t.Errorf("Code = %s, want %s", result.Code, model.ErrCodeInvalidPassword)
	}
	if result.RemainingAttempts != 2 {
		t.Errorf("RemainingAttempts = %d, want 2", result.RemainingAttempts)
	}
	if gotUpdate.FailedAttempts != 3 {
		t.Errorf("FailedAttempts = %d, want 3", gotUpdate.FailedAttempts)
	}
	if gotUpdate.LockedAt != nil {
		t.Error("expected LockedAt to remain nil below threshold")
	}
	if len(sink.records) != 1 || sink.records[0].Action != model.ActionLoginFailed {
		t.Errorf("expected single LOGIN_FAILED record, got %+v", sink.records)
	}
}

// 失敗回数が上限に達した試行でACCOUNT_LOCKED_NOWが返り、
// ロック関連カラムがすべて設定されることを検証
func TestCheckLogin_LockAtThreshold(t *testing.T) {
	user := newTestUser(t, "correct-password")
	user.FailedLoginAttempts = 4 // 次の失敗で5回目

	var gotUpdate repository.LockStateUpdate
	sink := &mockActivitySink{}
	userRepo := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return user, nil
		},
		updateLockStateFunc: func(ctx context.Context, userID string, update repository.LockStateUpdate) error {
			gotUpdate = update
			return nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, sink, testConfig()).
		WithClock(func() time.Time { return testNow })

	result, err := svc.CheckLogin(context.Background(), "tanaka", "wrong-password")
	if err != nil {
		t.Fatalf("CheckLogin failed: %v", err)
	}

	if result.Code != model.ErrCodeAccountLockedNow {
		t.Errorf("Code = %s, want %s", result.Code, model.ErrCodeAccountLockedNow)
	}
	if result.RemainingAttempts != 0 {
		t.Errorf("RemainingAttempts = %d, want 0", result.RemainingAttempts)
	}

	wantUntil := testNow.Add(30 * time.Minute)
	if result.LockedUntil == nil || !result.LockedUntil.Equal(wantUntil) {
		t.Errorf("LockedUntil = %v, want %v", result.LockedUntil, wantUntil)
	}

	if gotUpdate.FailedAttempts != 5 {
		t.Errorf("FailedAttempts = %d, want 5", gotUpdate.FailedAttempts)
	}
	if gotUpdate.LockedAt == nil || !gotUpdate.LockedAt.Equal(testNow) {
		t.Errorf("LockedAt = %v, want %v", gotUpdate.LockedAt, testNow)
	}
	if gotUpdate.LockedUntil == nil || !gotUpdate.LockedUntil.Equal(wantUntil) {
		t.Errorf("LockedUntil = %v, want %v", gotUpdate.LockedUntil, wantUntil)
	}
	if gotUpdate.LockedReason == nil || *gotUpdate.LockedReason != "Too many failed login attempts (5)" {
		t.Errorf("LockedReason = %v, want 'Too many failed login attempts (5)'", gotUpdate.LockedReason)
	}

	if len(sink.records) != 1 || sink.records[0].Action != model.ActionAccountLocked {
		t.Errorf("expected single ACCOUNT_LOCKED record, got %+v", sink.records)
	}
}

// ロック中アカウントへの試行がACCOUNT_LOCKEDを返し、
// 失敗カウントを変更しないことを検証（正しいパスワードでも同じ）
func TestCheckLogin_LockedAccount(t *testing.T) {
	lockedAt := testNow.Add(-10 * time.Minute)
	lockedUntil := testNow.Add(20 * time.Minute)
	reason := "Too many failed login attempts (5)"

	user := newTestUser(t, "correct-password")
	user.FailedLoginAttempts = 5
	user.LockedAt = &lockedAt
	user.LockedUntil = &lockedUntil
	user.LockedReason = &reason

	updateCalled := false
	sink := &mockActivitySink{}
	userRepo := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return user, nil
		},
		updateLockStateFunc: func(ctx context.Context, userID string, update repository.LockStateUpdate) error {
			updateCalled = true
			return nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, sink, testConfig()).
		WithClock(func() time.Time { return testNow })

	// 正しいパスワードでもロック中は拒否される
	result, err := svc.CheckLogin(context.Background(), "tanaka", "correct-password")
	if err != nil {
		t.Fatalf("CheckLogin failed: %v", err)
	}

	if result.Code != model.ErrCodeAccountLocked {
		t.Errorf("Code = %s, want %s", result.Code, model.ErrCodeAccountLocked)
	}
	if result.LockedUntil == nil || !result.LockedUntil.Equal(lockedUntil) {
		t.Errorf("LockedUntil = %v, want %v", result.LockedUntil, lockedUntil)
	}
	if updateCalled {
		t.Error("expected no lock state update for locked account")
	}
	if len(sink.records) != 1 || sink.records[0].Action != model.ActionLoginBlocked {
		t.Errorf("expected single LOGIN_BLOCKED record, got %+v", sink.records)
	}
}

// 期限切れロックが参照時にリセットされ、その後の認証が
// 新規アカウントと同様に処理されることを検証
func TestCheckLogin_ExpiredLockReset(t *testing.T) {
	lockedAt := testNow.Add(-2 * time.Hour)
	lockedUntil := testNow.Add(-90 * time.Minute)
	reason := "Too many failed login attempts (5)"

	user := newTestUser(t, "correct-password")
	user.FailedLoginAttempts = 5
	user.LockedAt = &lockedAt
	user.LockedUntil = &lockedUntil
	user.LockedReason = &reason

	var updates []repository.LockStateUpdate
	userRepo := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return user, nil
		},
		updateLockStateFunc: func(ctx context.Context, userID string, update repository.LockStateUpdate) error {
			updates = append(updates, update)
			return nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, &mockActivitySink{}, testConfig()).
		WithClock(func() time.Time { return testNow })

	result, err := svc.CheckLogin(context.Background(), "tanaka", "correct-password")
	if err != nil {
		t.Fatalf("CheckLogin failed: %v", err)
	}

	if !result.OK {
		t.Errorf("expected OK=true after expired lock reset, got code %s", result.Code)
	}

	// 最初の更新が期限切れロックのリセット（ゼロ値）であること
	if len(updates) == 0 {
		t.Fatal("expected lock state reset update")
	}
	first := updates[0]
	if first.FailedAttempts != 0 || first.LockedAt != nil || first.LockedUntil != nil || first.LockedReason != nil {
		t.Errorf("expected zero-value reset, got %+v", first)
	}
}

// 期限切れロックのリセット後のパスワード不一致は
// 1回目の失敗として扱われることを検証
func TestCheckLogin_ExpiredLockThenWrongPassword(t *testing.T) {
	lockedAt := testNow.Add(-2 * time.Hour)
	lockedUntil := testNow.Add(-90 * time.Minute)

	user := newTestUser(t, "correct-password")
	user.FailedLoginAttempts = 5
	user.LockedAt = &lockedAt
	user.LockedUntil = &lockedUntil

	var updates []repository.LockStateUpdate
	userRepo := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return user, nil
		},
		updateLockStateFunc: func(ctx context.Context, userID string, update repository.LockStateUpdate) error {
			updates = append(updates, update)
			return nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, &mockActivitySink{}, testConfig()).
		WithClock(func() time.Time { return testNow })

	result, err := svc.CheckLogin(context.Background(), "tanaka", "wrong-password")
	if err != nil {
		t.Fatalf("CheckLogin failed: %v", err)
	}

	if result.Code != model.ErrCodeInvalidPassword {
		t.Errorf("Code = %s, want %s", result.Code, model.ErrCodeInvalidPassword)
	}
	if result.RemainingAttempts != 4 {
		t.Errorf("RemainingAttempts = %d, want 4", result.RemainingAttempts)
	}
	if len(updates) != 2 {
		t.Fatalf("updates = %d, want 2 (reset + increment)", len(updates))
	}
	if updates[1].FailedAttempts != 1 {
		t.Errorf("FailedAttempts = %d, want 1", updates[1].FailedAttempts)
	}
}

// 認証成功時に失敗カウントがリセットされ、セッションが発行されることを検証
func TestLogin_SuccessResetsCounterAndIssuesSession(t *testing.T) {
	user := newTestUser(t, "correct-password")
	user.FailedLoginAttempts = 3

	var gotUpdate *repository.LockStateUpdate
	var createdSession *model.Session
	sink := &mockActivitySink{}
	userRepo := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return user, nil
		},
		updateLockStateFunc: func(ctx context.Context, userID string, update repository.LockStateUpdate) error {
			gotUpdate = &update
			return nil
		},
	}
	sessionRepo := &mockSessionRepo{
		createFunc: func(ctx context.Context, session *model.Session) error {
			createdSession = session
			return nil
		},
	}

	svc := NewService(userRepo, sessionRepo, sink, testConfig()).
		WithClock(func() time.Time { return testNow })

	session, result, err := svc.Login(context.Background(), "tanaka", "correct-password")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if !result.OK {
		t.Fatalf("expected OK=true, got code %s", result.Code)
	}
	if session == nil || session.ID == "" {
		t.Fatal("expected session with non-empty ID")
	}
	if createdSession == nil || createdSession.ID != session.ID {
		t.Error("session was not persisted")
	}
	if !session.ExpiresAt.Equal(testNow.Add(86400 * time.Second)) {
		t.Errorf("ExpiresAt = %v, want %v", session.ExpiresAt, testNow.Add(86400*time.Second))
	}

	if gotUpdate == nil {
		t.Fatal("expected failed attempts reset")
	}
	if gotUpdate.FailedAttempts != 0 || gotUpdate.LockedAt != nil {
		t.Errorf("expected zero-value reset, got %+v", *gotUpdate)
	}

	if len(sink.records) != 1 || sink.records[0].Action != model.ActionLoginSuccess {
		t.Errorf("expected single LOGIN_SUCCESS record, got %+v", sink.records)
	}
}

// 失敗カウント0のユーザーの成功ログインでは不要な更新を行わないことを検証
func TestLogin_SuccessWithoutPriorFailuresSkipsUpdate(t *testing.T) {
	user := newTestUser(t, "correct-password")

	updateCalled := false
	userRepo := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return user, nil
		},
		updateLockStateFunc: func(ctx context.Context, userID string, update repository.LockStateUpdate) error {
			updateCalled = true
			return nil
		},
	}
	sessionRepo := &mockSessionRepo{
		createFunc: func(ctx context.Context, session *model.Session) error { return nil },
	}

	svc := NewService(userRepo, sessionRepo, &mockActivitySink{}, testConfig())

	_, result, err := svc.Login(context.Background(), "tanaka", "correct-password")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !result.OK {
		t.Fatalf("expected OK=true, got code %s", result.Code)
	}
	if updateCalled {
		t.Error("expected no lock state update when counters are already clean")
	}
}

// ログイン失敗時はセッションが発行されないことを検証
func TestLogin_FailureDoesNotIssueSession(t *testing.T) {
	user := newTestUser(t, "correct-password")

	userRepo := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return user, nil
		},
		updateLockStateFunc: func(ctx context.Context, userID string, update repository.LockStateUpdate) error {
			return nil
		},
	}
	sessionRepo := &mockSessionRepo{
		createFunc: func(ctx context.Context, session *model.Session) error {
			t.Error("session must not be created on failed login")
			return nil
		},
	}

	svc := NewService(userRepo, sessionRepo, &mockActivitySink{}, testConfig())

	session, result, err := svc.Login(context.Background(), "tanaka", "wrong-password")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if session != nil {
		t.Error("expected nil session")
	}
	if result.Code != model.ErrCodeInvalidPassword {
		t.Errorf("Code = %s, want %s", result.Code, model.ErrCodeInvalidPassword)
	}
}

// データベースエラーはerrorとして伝播することを検証
func TestCheckLogin_RepositoryError(t *testing.T) {
	dbErr := errors.New("connection refused")
	userRepo := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return nil, dbErr
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, &mockActivitySink{}, testConfig())

	_, err := svc.CheckLogin(context.Background(), "tanaka", "password")
	if !errors.Is(err, dbErr) {
		t.Errorf("expected error chain to contain repository error, got %v", err)
	}
}

// ロック中ユーザーの解除が成功し、解除前の失敗回数が記録されることを検証
func TestUnlock_LockedUser(t *testing.T) {
	lockedAt := testNow.Add(-10 * time.Minute)
	user := newTestUser(t, "password")
	user.FailedLoginAttempts = 5
	user.LockedAt = &lockedAt

	var gotUpdate *repository.LockStateUpdate
	sink := &mockActivitySink{}
	userRepo := &mockUserRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return user, nil
		},
		updateLockStateFunc: func(ctx context.Context, userID string, update repository.LockStateUpdate) error {
			gotUpdate = &update
			return nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, sink, testConfig())

	if err := svc.Unlock(context.Background(), "admin-1", "user-1"); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	if gotUpdate == nil {
		t.Fatal("expected lock state update")
	}
	if gotUpdate.FailedAttempts != 0 || gotUpdate.LockedAt != nil || gotUpdate.LockedUntil != nil || gotUpdate.LockedReason != nil {
		t.Errorf("expected zero-value reset, got %+v", *gotUpdate)
	}

	if len(sink.records) != 1 {
		t.Fatalf("activity records = %d, want 1", len(sink.records))
	}
	rec := sink.records[0]
	if rec.Action != model.ActionUserUnlocked {
		t.Errorf("Action = %s, want %s", rec.Action, model.ActionUserUnlocked)
	}
	if rec.ActorID != "admin-1" {
		t.Errorf("ActorID = %s, want admin-1", rec.ActorID)
	}
}

// ロックされていないユーザーへの解除操作がUSER_NOT_LOCKEDになることを検証
func TestUnlock_NotLockedUser(t *testing.T) {
	user := newTestUser(t, "password")

	userRepo := &mockUserRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return user, nil
		},
		updateLockStateFunc: func(ctx context.Context, userID string, update repository.LockStateUpdate) error {
			t.Error("lock state must not be updated for non-locked user")
			return nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, &mockActivitySink{}, testConfig())

	err := svc.Unlock(context.Background(), "admin-1", "user-1")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeUserNotLocked {
		t.Errorf("Code = %s, want %s", apiErr.Code, model.ErrCodeUserNotLocked)
	}
}

// 存在しないユーザーへの解除操作がUSER_NOT_FOUNDになることを検証
func TestUnlock_UserNotFound(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, &mockActivitySink{}, testConfig())

	err := svc.Unlock(context.Background(), "admin-1", "ghost")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("Code = %s, want %s", apiErr.Code, model.ErrCodeUserNotFound)
	}
}

// 期限切れロックのユーザーも手動解除の対象になることを検証
func TestUnlock_ExpiredLockStillUnlockable(t *testing.T) {
	lockedAt := testNow.Add(-2 * time.Hour)
	lockedUntil := testNow.Add(-1 * time.Hour)
	user := newTestUser(t, "password")
	user.FailedLoginAttempts = 5
	user.LockedAt = &lockedAt
	user.LockedUntil = &lockedUntil

	userRepo := &mockUserRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return user, nil
		},
		updateLockStateFunc: func(ctx context.Context, userID string, update repository.LockStateUpdate) error {
			return nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, &mockActivitySink{}, testConfig())

	if err := svc.Unlock(context.Background(), "admin-1", "user-1"); err != nil {
		t.Errorf("Unlock failed: %v", err)
	}
}

// GetCurrentUser がセッションからユーザーを解決することを検証
func TestGetCurrentUser(t *testing.T) {
	user := newTestUser(t, "password")
	sessionRepo := &mockSessionRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			if id != "session-1" {
				t.Errorf("session ID = %s, want session-1", id)
			}
			return &model.Session{ID: "session-1", UserID: user.ID}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return user, nil
		},
	}

	svc := NewService(userRepo, sessionRepo, &mockActivitySink{}, testConfig())

	got, err := svc.GetCurrentUser(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("user ID = %s, want %s", got.ID, user.ID)
	}
}

// 期限切れまたは不在のセッションではエラーになることを検証
func TestGetCurrentUser_SessionNotFound(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			return nil, nil
		},
	}

	svc := NewService(&mockUserRepo{}, sessionRepo, &mockActivitySink{}, testConfig())

	if _, err := svc.GetCurrentUser(context.Background(), "expired"); err == nil {
		t.Error("expected error for missing session")
	}
}

// Logout がセッションを削除することを検証
func TestLogout(t *testing.T) {
	deleted := ""
	sessionRepo := &mockSessionRepo{
		deleteByIDFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	svc := NewService(&mockUserRepo{}, sessionRepo, &mockActivitySink{}, testConfig())

	if err := svc.Logout(context.Background(), "session-1"); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if deleted != "session-1" {
		t.Errorf("deleted session = %s, want session-1", deleted)
	}
}

func TestLogout_EmptySessionID(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{}, &mockActivitySink{}, testConfig())
	if err := svc.Logout(context.Background(), ""); err == nil {
		t.Error("expected error for empty session ID")
	}
}
