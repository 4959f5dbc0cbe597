// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: not_found, conflict, validation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeProjectNotFound      = "PROJECT_NOT_FOUND"
	ErrCodeSessionNotFound      = "SESSION_NOT_FOUND"
	ErrCodeUserAlreadyExists    = "USER_ALREADY_EXISTS"
	ErrCodeProjectAlreadyExists = "PROJECT_ALREADY_EXISTS"
	ErrCodeSessionAlreadyEnded  = "SESSION_ALREADY_ENDED"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
	ErrCodeDataIntegrity        = "DATA_INTEGRITY"
)

// エラーカテゴリ
const (
	CategoryNotFound   = "not_found"
	CategoryConflict   = "conflict"
	CategoryValidation = "validation"
	CategorySystem     = "system"
)

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError(username string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("ユーザーが見つかりません: %s", username),
		Category: CategoryNotFound,
		Action:   "ユーザー名を確認してください。",
	}
}

// NewProjectNotFoundError はプロジェクトが見つからない場合のエラーを生成する。
func NewProjectNotFoundError(projectName string) *APIError {
	return &APIError{
		Code:     ErrCodeProjectNotFound,
		Message:  fmt.Sprintf("プロジェクトが見つかりません: %s", projectName),
		Category: CategoryNotFound,
		Action:   "プロジェクト名と所有ユーザーを確認してください。",
	}
}

// NewSessionNotFoundError はセッションが見つからない場合のエラーを生成する。
func NewSessionNotFoundError(sessionID string) *APIError {
	return &APIError{
		Code:     ErrCodeSessionNotFound,
		Message:  fmt.Sprintf("セッションが見つかりません: %s", sessionID),
		Category: CategoryNotFound,
		Action:   "セッションIDを確認してください。",
	}
}

// NewUserAlreadyExistsError は同名ユーザーが既に存在する場合のエラーを生成する。
func NewUserAlreadyExistsError(username string) *APIError {
	return &APIError{
		Code:     ErrCodeUserAlreadyExists,
		Message:  fmt.Sprintf("ユーザーは既に存在します: %s", username),
		Category: CategoryConflict,
		Action:   "別のユーザー名を指定してください。",
	}
}

// NewProjectAlreadyExistsError は同一ユーザー内で同名プロジェクトが既に存在する場合のエラーを生成する。
func NewProjectAlreadyExistsError(projectName string) *APIError {
	return &APIError{
		Code:     ErrCodeProjectAlreadyExists,
		Message:  fmt.Sprintf("プロジェクトは既に存在します: %s", projectName),
		Category: CategoryConflict,
		Action:   "別のプロジェクト名を指定してください。",
	}
}

// NewSessionAlreadyEndedError は終了済みセッションを再度終了しようとした場合のエラーを生成する。
func NewSessionAlreadyEndedError(sessionID string) *APIError {
	return &APIError{
		Code:     ErrCodeSessionAlreadyEnded,
		Message:  fmt.Sprintf("セッションは既に終了しています: %s", sessionID),
		Category: CategoryConflict,
		Action:   "セッションの状態を確認してください。終了は1回のみ可能です。",
	}
}

// NewInvalidRequestError はリクエスト内容が不正な場合のエラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: CategoryValidation,
		Action:   "正しいJSON形式と必須項目を確認してください。",
	}
}

// NewDataIntegrityError は保存済みデータの整合性が崩れている場合のエラーを生成する。
// 例: 終了時刻が開始時刻より前のセッション。
func NewDataIntegrityError(detail string) *APIError {
	return &APIError{
		Code:     ErrCodeDataIntegrity,
		Message:  fmt.Sprintf("データの整合性エラーが発生しました: %s", detail),
		Category: CategorySystem,
		Action:   "管理者に連絡してください。",
	}
}

// HasCode はerrがAPIErrorであり、かつ指定コードを持つかを判定する。
func HasCode(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
