package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestCORSMiddleware_SetsHeaders はCORSヘッダーが付与されることを検証する。
func TestCORSMiddleware_SetsHeaders(t *testing.T) {
	handler := NewCORSMiddleware("https://farm.example.com")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://farm.example.com" {
		t.Errorf("Allow-Origin = %s, want https://farm.example.com", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %s, want true", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, X-CSRF-Token" {
		t.Errorf("Allow-Headers = %s, want 'Content-Type, X-CSRF-Token'", got)
	}
}

// TestCORSMiddleware_PreflightReturns204 はOPTIONSプリフライトに
// 204で応答することを検証する。
func TestCORSMiddleware_PreflightReturns204(t *testing.T) {
	handlerCalled := false
	handler := NewCORSMiddleware("https://farm.example.com")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/sows", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if handlerCalled {
		t.Error("next handler must not run for preflight")
	}
}

// TestSecurityHeadersMiddleware はセキュリティヘッダーが付与されることを検証する。
func TestSecurityHeadersMiddleware(t *testing.T) {
	handler := NewSecurityHeadersMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	wantHeaders := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for name, want := range wantHeaders {
		if got := w.Header().Get(name); got != want {
			t.Errorf("%s = %s, want %s", name, got, want)
		}
	}
}
