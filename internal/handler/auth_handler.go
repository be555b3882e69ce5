// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hs6uej/farmpigs-sub001/internal/auth"
	"github.com/hs6uej/farmpigs-sub001/internal/model"
)

const sessionCookieName = "session_id"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	CheckLogin(ctx context.Context, username, password string) (*auth.CheckResult, error)
	Login(ctx context.Context, username, password string) (*model.Session, *auth.CheckResult, error)
	Logout(ctx context.Context, sessionID string) error
	GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error)
}

// LoginMetrics はログイン関連メトリクスの記録先。nil許容。
type LoginMetrics interface {
	RecordLoginSuccess()
	RecordLoginFailure(code string)
	RecordAccountLocked()
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はパスワード認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	metrics LoginMetrics
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。metricsはnil許容。
func NewAuthHandler(service AuthServiceInterface, metrics LoginMetrics, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		metrics: metrics,
		config:  config,
	}
}

// loginRequest はログイン・事前チェックリクエストのボディ。
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginFailureResponse は認証失敗レスポンス。
// 統一エラーフォーマットに残り試行回数とロック解除予定時刻を加える。
type loginFailureResponse struct {
	apiErrorResponse
	RemainingAttempts *int       `json:"remaining_attempts,omitempty"`
	LockedUntil       *time.Time `json:"locked_until,omitempty"`
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// LoginCheck は認証情報の事前チェックを処理する。セッションは発行しない。
// POST /auth/login/check
func (h *AuthHandler) LoginCheck(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLoginRequest(w, r)
	if !ok {
		return
	}

	result, err := h.service.CheckLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		slog.Error("login check failed", slog.String("error", err.Error()))
		h.recordFailure(model.ErrCodeServerError)
		handleServiceError(w, err)
		return
	}

	if !result.OK {
		h.writeLoginFailure(w, result)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Login は認証情報を検証し、成功時にセッションCookieを発行する。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLoginRequest(w, r)
	if !ok {
		return
	}

	session, result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		slog.Error("login failed", slog.String("error", err.Error()))
		h.recordFailure(model.ErrCodeServerError)
		handleServiceError(w, err)
		return
	}

	if !result.OK {
		h.writeLoginFailure(w, result)
		return
	}

	// セッションCookieを設定（HTTP Only）
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	if h.metrics != nil {
		h.metrics.RecordLoginSuccess()
	}

	user, err := h.service.GetCurrentUser(r.Context(), session.ID)
	if err != nil {
		slog.Error("failed to load user after login", slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Logout はセッションを破棄する。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// セッションCookieの取得
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		// セッションをDBから削除
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
			// ログアウト失敗してもCookieはクリアする
		}
	}

	// セッションCookieをクリア
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

// Me は現在のログインユーザー情報を返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), cookie.Value)
	if err != nil {
		slog.Error("failed to get current user", slog.String("error", err.Error()))
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// decodeLoginRequest はログインリクエストのボディを解析し検証する。
func (h *AuthHandler) decodeLoginRequest(w http.ResponseWriter, r *http.Request) (*loginRequest, bool) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return nil, false
	}
	if req.Username == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("username"))
		return nil, false
	}
	if req.Password == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("password"))
		return nil, false
	}
	return &req, true
}

// writeLoginFailure は認証失敗の結果コードに応じたレスポンスを書き込む。
func (h *AuthHandler) writeLoginFailure(w http.ResponseWriter, result *auth.CheckResult) {
	h.recordFailure(result.Code)

	var apiErr *model.APIError
	resp := loginFailureResponse{LockedUntil: result.LockedUntil}

	switch result.Code {
	case model.ErrCodeInvalidCredentials:
		apiErr = model.NewInvalidCredentialsError()
	case model.ErrCodeAccountLocked:
		apiErr = model.NewAccountLockedError()
	case model.ErrCodeAccountLockedNow:
		apiErr = model.NewAccountLockedNowError()
		// この試行でロックされたため残り試行回数は明示的に0を返す
		zero := 0
		resp.RemainingAttempts = &zero
		if h.metrics != nil {
			h.metrics.RecordAccountLocked()
		}
	case model.ErrCodeInvalidPassword:
		apiErr = model.NewInvalidPasswordError()
		remaining := result.RemainingAttempts
		resp.RemainingAttempts = &remaining
	default:
		writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
			Code:     model.ErrCodeServerError,
			Message:  "内部エラーが発生しました。",
			Category: "system",
			Action:   "しばらく待ってから再度お試しください。",
		})
		return
	}

	resp.apiErrorResponse = apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	}
	writeJSON(w, mapAPIErrorToHTTPStatus(apiErr), resp)
}

// recordFailure はメトリクスにログイン失敗を記録する。
func (h *AuthHandler) recordFailure(code string) {
	if h.metrics != nil {
		h.metrics.RecordLoginFailure(code)
	}
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Role:     string(user.Role),
	}
}
