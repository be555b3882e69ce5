package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hs6uej/farmpigs-sub001/internal/middleware"
	"github.com/hs6uej/farmpigs-sub001/internal/model"
)

// UserServiceInterface はユーザー管理ハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Unlock は管理者によるアカウントロックの手動解除。
	Unlock(ctx context.Context, actorID, targetUserID string) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// Unlock はアカウントロックの手動解除を処理する。ADMIN専用。
// ロックされていないユーザーに対しては409 Conflictを返す。
// POST /api/users/{id}/unlock
func (h *UserHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	actorID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, &model.APIError{
			Code:     "UNAUTHORIZED",
			Message:  "認証が必要です。",
			Category: "auth",
			Action:   "ログインしてください。",
		})
		return
	}

	targetUserID := chi.URLParam(r, "id")

	if err := h.service.Unlock(r.Context(), actorID, targetUserID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
