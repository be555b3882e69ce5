package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

// parseLogLine は1行のJSONログをパースして返す。
func parseLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log line %q: %v", buf.String(), err)
	}
	return entry
}

// TestLoggingMiddleware_LogsRequest はリクエストログにmethod、path、
// status、duration_msが含まれることを検証する。
func TestLoggingMiddleware_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := NewLoggingMiddleware(logger, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entry := parseLogLine(t, &buf)
	if entry["method"] != "GET" {
		t.Errorf("method = %v, want GET", entry["method"])
	}
	if entry["path"] != "/api/dashboard" {
		t.Errorf("path = %v, want /api/dashboard", entry["path"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("status = %v, want 200", entry["status"])
	}
	if _, ok := entry["duration_ms"]; !ok {
		t.Error("expected duration_ms in log")
	}
	if entry["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", entry["level"])
	}
}

// TestLoggingMiddleware_IncludesUserID は認証済みコンテキストの
// ユーザーIDがログに含まれることを検証する。
func TestLoggingMiddleware_IncludesUserID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := NewLoggingMiddleware(logger, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/sows", nil)
	req = req.WithContext(ContextWithUserID(req.Context(), "user-1"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entry := parseLogLine(t, &buf)
	if entry["user_id"] != "user-1" {
		t.Errorf("user_id = %v, want user-1", entry["user_id"])
	}
}

// TestLoggingMiddleware_LevelByStatus はステータスコードに応じて
// ログレベルが変わることを検証する。
func TestLoggingMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		status    int
		wantLevel string
	}{
		{status: http.StatusOK, wantLevel: "INFO"},
		{status: http.StatusForbidden, wantLevel: "WARN"},
		{status: http.StatusInternalServerError, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		handler := NewLoggingMiddleware(logger, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/sows", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		entry := parseLogLine(t, &buf)
		if entry["level"] != tt.wantLevel {
			t.Errorf("status %d: level = %v, want %s", tt.status, entry["level"], tt.wantLevel)
		}
	}
}

// TestLoggingMiddleware_NotifiesStatus はonStatusコールバックに
// ステータスコードが通知されることを検証する。
func TestLoggingMiddleware_NotifiesStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var gotStatus int
	handler := NewLoggingMiddleware(logger, func(statusCode int) {
		gotStatus = statusCode
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/users/u1/unlock", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotStatus != http.StatusConflict {
		t.Errorf("notified status = %d, want %d", gotStatus, http.StatusConflict)
	}
}
