// Package identity は人が読める識別子（ユーザー名、プロジェクト名）を内部IDに解決する。
package identity

import (
	"context"
	"fmt"

	"github.com/hitoshi/timetrack/internal/model"
)

// UserFinder はユーザー名によるユーザー検索インターフェース。
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// ProjectFinder は所有ユーザーとプロジェクト名によるプロジェクト検索インターフェース。
type ProjectFinder interface {
	FindByUserAndName(ctx context.Context, userID, name string) (*model.Project, error)
}

// Resolver は識別子の解決を行う。読み取り専用で状態を持たない。
// 不在はエラーではなくfound=falseで返し、errはストレージ障害のみを表す。
type Resolver struct {
	users    UserFinder
	projects ProjectFinder
}

// NewResolver はResolverの新しいインスタンスを生成する。
func NewResolver(users UserFinder, projects ProjectFinder) *Resolver {
	return &Resolver{
		users:    users,
		projects: projects,
	}
}

// ResolveUser はユーザー名をユーザーIDに解決する。
func (r *Resolver) ResolveUser(ctx context.Context, username string) (string, bool, error) {
	user, err := r.users.FindByUsername(ctx, username)
	if err != nil {
		return "", false, fmt.Errorf("ユーザーの解決に失敗しました: %w", err)
	}
	if user == nil {
		return "", false, nil
	}
	return user.ID, true, nil
}

// ResolveProject はユーザーIDとプロジェクト名をプロジェクトIDに解決する。
// プロジェクト名は所有ユーザー内でのみ一意なため、必ずユーザーIDと組で検索する。
func (r *Resolver) ResolveProject(ctx context.Context, userID, projectName string) (string, bool, error) {
	project, err := r.projects.FindByUserAndName(ctx, userID, projectName)
	if err != nil {
		return "", false, fmt.Errorf("プロジェクトの解決に失敗しました: %w", err)
	}
	if project == nil {
		return "", false, nil
	}
	return project.ID, true, nil
}
