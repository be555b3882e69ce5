package handler

import (
	"net/http"
	"time"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
)

// parseRequiredBodyDate はリクエストボディの必須日付フィールドを解析する。
// 未指定は400 MISSING_FIELD、形式不正は400 INVALID_DATEを返す。
func parseRequiredBodyDate(w http.ResponseWriter, name, value string) (time.Time, bool) {
	if value == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError(name))
		return time.Time{}, false
	}

	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidDateError(name, value))
		return time.Time{}, false
	}
	return parsed, true
}

// parseOptionalBodyDate はリクエストボディの任意日付フィールドを解析する。
// 未指定はnil、形式不正は400 INVALID_DATEを返す。
func parseOptionalBodyDate(w http.ResponseWriter, name, value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}

	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidDateError(name, value))
		return nil, false
	}
	return &parsed, true
}

// formatDatePtr は日付ポインタをYYYY-MM-DD文字列ポインタに変換する。
func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
