// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService は記録の自由記述フィールド（備考、投薬内容、説明等）を
// サニタイズし、保存されたタグがUIで解釈されることによるXSSを防ぐ。
// bluemondayのStrictPolicyを使用し、HTMLタグを一切許可しない。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService は自由記述テキストのサニタイズ機能のインターフェースを定義する。
// 記録の作成・更新時に備考等のフィールドへ適用される。
type TextSanitizerService interface {
	// Sanitize はテキストからHTMLタグをすべて除去し、前後の空白を取り除いて返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicy（全タグ除去）を使用する。農場記録の自由記述は
// プレーンテキストとして扱い、マークアップは保存しない。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はテキストからHTMLタグをすべて除去して返す。
func (s *textSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
