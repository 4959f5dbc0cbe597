// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/timetrack/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByUsername はユーザー名でユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Create はユーザーを作成する。ユーザー名が重複する場合はErrDuplicateを返す。
	Create(ctx context.Context, user *model.User) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するprojectsはCASCADE削除される。セッション事実は削除されない。
	// 対象が存在しない場合はErrNotFoundを返す。
	DeleteByID(ctx context.Context, id string) error
}

// ProjectRepository はプロジェクトデータの永続化インターフェース。
type ProjectRepository interface {
	// FindByUserAndName は所有ユーザーIDとプロジェクト名で検索する。見つからない場合はnilを返す。
	FindByUserAndName(ctx context.Context, userID, name string) (*model.Project, error)

	// ListByUserID はユーザーの全プロジェクトを作成日時順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Project, error)

	// Create はプロジェクトを作成する。
	// (user_id, name) が重複する場合はErrDuplicate、ユーザーが存在しない場合はErrReferenceMissingを返す。
	Create(ctx context.Context, project *model.Project) error

	// DeleteByID は指定IDのプロジェクトを削除する。対象が存在しない場合はErrNotFoundを返す。
	DeleteByID(ctx context.Context, id string) error
}

// SessionRepository はセッション事実（開始・終了）の永続化インターフェース。
// 両テーブルとも追記専用で、更新・削除操作は持たない。
type SessionRepository interface {
	// CreateStart は開始レコードを追記する。
	CreateStart(ctx context.Context, start *model.SessionStart) error

	// CreateEnd は終了レコードを追記する。
	// 同一セッションの終了レコードが既に存在する場合はErrDuplicateを返す。
	CreateEnd(ctx context.Context, end *model.SessionEnd) error

	// FindStart は開始レコードを取得する。見つからない場合はnilを返す。
	FindStart(ctx context.Context, sessionID string) (*model.SessionStart, error)

	// FindRecord は開始レコードと終了レコードを1回のクエリで取得する。
	// 開始レコードが見つからない場合はnilを返す。
	FindRecord(ctx context.Context, sessionID string) (*model.SessionRecord, error)

	// ListRecordsByProject はプロジェクトの全セッションを開始時刻昇順で返す。
	ListRecordsByProject(ctx context.Context, projectID string) ([]model.SessionRecord, error)

	// CountActive は終了レコードを持たないセッション数を返す。
	CountActive(ctx context.Context) (int, error)
}
