// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer はユーザーが入力する自由記述テキスト（セッションやプロジェクトの説明）から
// HTMLマークアップを除去し、プレーンテキストとして保存する。
// bluemondayのStrictPolicyを使用し、すべてのタグと属性を取り除く。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer は自由記述テキストのサニタイズ機能のインターフェースを定義する。
type TextSanitizer interface {
	// Sanitize はテキストからマークアップを除去し、前後の空白を取り除いた文字列を返す。
	// エスケープされた文字参照は元の文字に戻す（&amp; → &）。
	Sanitize(raw string) string

	// SanitizeOptional はnil許容のテキストをサニタイズする。
	// 入力がnil、またはサニタイズ後に空になる場合はnilを返す。
	SanitizeOptional(raw *string) *string
}

// textSanitizer はTextSanitizerの実装。
// bluemondayのポリシーはスレッドセーフなため、1インスタンスを共有する。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はテキストからマークアップを除去する。
func (s *textSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	// StrictPolicyは本文をHTMLエスケープして返すため、JSONで返す前に元に戻す
	stripped := html.UnescapeString(s.policy.Sanitize(raw))
	return strings.TrimSpace(stripped)
}

// SanitizeOptional はnil許容のテキストをサニタイズする。
func (s *textSanitizer) SanitizeOptional(raw *string) *string {
	if raw == nil {
		return nil
	}
	cleaned := s.Sanitize(*raw)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// compile-time interface check
var _ TextSanitizer = (*textSanitizer)(nil)
