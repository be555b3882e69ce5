// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, farm, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	// 認証・ロックアウト
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeAccountLocked      = "ACCOUNT_LOCKED"
	ErrCodeAccountLockedNow   = "ACCOUNT_LOCKED_NOW"
	ErrCodeInvalidPassword    = "INVALID_PASSWORD"
	ErrCodeServerError        = "SERVER_ERROR"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeUserNotLocked      = "USER_NOT_LOCKED"
	ErrCodeForbidden          = "FORBIDDEN"

	// バリデーション・農場データ
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeInvalidDate       = "INVALID_DATE"
	ErrCodeRecordNotFound    = "RECORD_NOT_FOUND"
	ErrCodeInvalidLitterSize = "INVALID_LITTER_SIZE"
)

// NewInvalidCredentialsError はユーザー不在またはパスワード未設定のエラーを生成する。
// 攻撃者にユーザーの存在有無を漏らさないよう、メッセージは意図的に曖昧にする。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewAccountLockedError はロック中アカウントへのログイン試行エラーを生成する。
func NewAccountLockedError() *APIError {
	return &APIError{
		Code:     ErrCodeAccountLocked,
		Message:  "アカウントがロックされています。",
		Category: "auth",
		Action:   "管理者にロック解除を依頼するか、ロック期限が切れるまでお待ちください。",
	}
}

// NewAccountLockedNowError はこの試行で失敗回数が上限に達しロックした場合の
// エラーを生成する。
func NewAccountLockedNowError() *APIError {
	return &APIError{
		Code:     ErrCodeAccountLockedNow,
		Message:  "ログイン失敗回数が上限に達したため、アカウントをロックしました。",
		Category: "auth",
		Action:   "管理者にロック解除を依頼するか、ロック期限が切れるまでお待ちください。",
	}
}

// NewInvalidPasswordError はパスワード不一致（ロック上限未到達）のエラーを生成する。
func NewInvalidPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPassword,
		Message:  "パスワードが正しくありません。",
		Category: "auth",
		Action:   "パスワードを確認して再度お試しください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", userID),
		Category: "auth",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewUserNotLockedError はロックされていないアカウントへのロック解除操作エラーを生成する。
func NewUserNotLockedError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotLocked,
		Message:  fmt.Sprintf("指定されたユーザーはロックされていません: %s", userID),
		Category: "auth",
		Action:   "ロック中のユーザーに対してのみ実行できます。",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作を行う権限がありません。",
		Category: "auth",
		Action:   "管理者権限を持つアカウントでログインしてください。",
	}
}

// NewMissingFieldError は必須フィールド未指定エラーを生成する。
func NewMissingFieldError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingField,
		Message:  fmt.Sprintf("必須フィールドが指定されていません: %s", field),
		Category: "validation",
		Action:   fmt.Sprintf("%s を指定してください。", field),
	}
}

// NewInvalidDateError は日付形式エラーを生成する。
func NewInvalidDateError(field, value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDate,
		Message:  fmt.Sprintf("日付の形式が正しくありません: %s=%q", field, value),
		Category: "validation",
		Action:   "YYYY-MM-DD形式で指定してください。",
	}
}

// NewRecordNotFoundError はレコード未検出エラーを生成する。
func NewRecordNotFoundError(kind, id string) *APIError {
	return &APIError{
		Code:     ErrCodeRecordNotFound,
		Message:  fmt.Sprintf("指定された%sが見つかりません: %s", kind, id),
		Category: "farm",
		Action:   "IDを確認してください。",
	}
}

// NewInvalidLitterSizeError は生存頭数が総産子数を超える場合のエラーを生成する。
func NewInvalidLitterSizeError(bornAlive, totalBorn int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidLitterSize,
		Message:  fmt.Sprintf("生存頭数（%d）が総産子数（%d）を超えています。", bornAlive, totalBorn),
		Category: "validation",
		Action:   "生存頭数は総産子数以下で入力してください。",
	}
}
