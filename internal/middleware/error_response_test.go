package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
)

// TestWriteErrorResponse は統一エラーフォーマットの出力を検証する。
func TestWriteErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()

	WriteErrorResponse(w, http.StatusConflict, model.NewUserNotLockedError("user-1"))

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s, want application/json", ct)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Code != model.ErrCodeUserNotLocked {
		t.Errorf("Code = %s, want %s", body.Code, model.ErrCodeUserNotLocked)
	}
	if body.Category != "auth" {
		t.Errorf("Category = %s, want auth", body.Category)
	}
	if body.Message == "" || body.Action == "" {
		t.Error("expected non-empty message and action")
	}
}

// TestWriteInternalServerError は500の統一レスポンスを検証する。
func TestWriteInternalServerError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteInternalServerError(w)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Code != model.ErrCodeServerError {
		t.Errorf("Code = %s, want %s", body.Code, model.ErrCodeServerError)
	}
	if body.Category != "system" {
		t.Errorf("Category = %s, want system", body.Category)
	}
}

// TestRecoveryMiddleware_RecoversPanic はpanicが500に変換されることを検証する。
func TestRecoveryMiddleware_RecoversPanic(t *testing.T) {
	handler := NewRecoveryMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
