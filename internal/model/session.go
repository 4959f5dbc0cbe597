// Package model はドメインモデルを定義する。
package model

import "time"

// SessionStart はセッション開始の事実を表す。
// 1つのセッションIDにつき1件のみ存在し、書き込み後は変更されない。
type SessionStart struct {
	SessionID   string    `db:"session_id"`
	UserID      string    `db:"user_id"`
	ProjectID   string    `db:"project_id"`
	StartTime   time.Time `db:"start_time"`
	Description *string   `db:"description"`
}

// SessionEnd はセッション終了の事実を表す。
// user_id、project_idは開始レコードの非正規化コピー。
// このレコードの存在のみがセッション終了を示す。
type SessionEnd struct {
	SessionID string    `db:"session_id"`
	UserID    string    `db:"user_id"`
	ProjectID string    `db:"project_id"`
	EndTime   time.Time `db:"end_time"`
}

// SessionRecord は開始レコードと（存在すれば）終了レコードを1回の読み取りで結合したもの。
// Endがnilの場合はアクティブなセッション。
type SessionRecord struct {
	Start SessionStart
	End   *SessionEnd
}

// StatusView はセッションの状態と経過時間を表す読み取り専用ビュー。
type StatusView struct {
	UserID      string
	SessionID   string
	ProjectID   string
	StartTime   time.Time
	EndTime     *time.Time
	Description *string
	Hours       int64
	Total       time.Duration
	Active      bool
}
