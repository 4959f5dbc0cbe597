// Package project はユーザーが所有するプロジェクトの管理を提供する。
package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/timetrack/internal/model"
	"github.com/hitoshi/timetrack/internal/repository"
	"github.com/hitoshi/timetrack/internal/security"
)

// UserFinder はユーザー名によるユーザー検索インターフェース。
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// Service はプロジェクト管理のサービス層。
// プロジェクト名は所有ユーザー内でのみ一意であり、常にユーザー名と組で扱う。
type Service struct {
	users     UserFinder
	projects  repository.ProjectRepository
	sanitizer security.TextSanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
// sanitizerがnilの場合、説明文はそのまま保存される。
func NewService(users UserFinder, projects repository.ProjectRepository, sanitizer security.TextSanitizer) *Service {
	return &Service{
		users:     users,
		projects:  projects,
		sanitizer: sanitizer,
	}
}

// findOwner はユーザー名から所有ユーザーを取得する。
func (s *Service) findOwner(ctx context.Context, username string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(username)
	}
	return user, nil
}

// ListProjects はユーザーの全プロジェクトを作成日時順で返す。
func (s *Service) ListProjects(ctx context.Context, username string) ([]*model.Project, error) {
	owner, err := s.findOwner(ctx, username)
	if err != nil {
		return nil, err
	}

	projects, err := s.projects.ListByUserID(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("プロジェクト一覧の取得に失敗しました: %w", err)
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	return projects, nil
}

// GetProject はユーザー名とプロジェクト名でプロジェクトを取得する。
func (s *Service) GetProject(ctx context.Context, username, name string) (*model.Project, error) {
	owner, err := s.findOwner(ctx, username)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.FindByUserAndName(ctx, owner.ID, name)
	if err != nil {
		return nil, fmt.Errorf("プロジェクトの取得に失敗しました: %w", err)
	}
	if project == nil {
		return nil, model.NewProjectNotFoundError(name)
	}
	return project, nil
}

// CreateProject はユーザーの新しいプロジェクトを作成する。
// 同一ユーザー内で名前が重複する場合はPROJECT_ALREADY_EXISTS、
// 作成中にユーザーが削除された場合はUSER_NOT_FOUNDを返す。
func (s *Service) CreateProject(ctx context.Context, username, name string, description *string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewInvalidRequestError("nameは必須です")
	}

	owner, err := s.findOwner(ctx, username)
	if err != nil {
		return nil, err
	}

	if s.sanitizer != nil {
		description = s.sanitizer.SanitizeOptional(description)
	}

	project := &model.Project{
		ID:          uuid.New().String(),
		UserID:      owner.ID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := s.projects.Create(ctx, project); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, model.NewProjectAlreadyExistsError(name)
		case errors.Is(err, repository.ErrReferenceMissing):
			return nil, model.NewUserNotFoundError(username)
		}
		return nil, fmt.Errorf("プロジェクトの作成に失敗しました: %w", err)
	}

	slog.Info("プロジェクトを作成しました",
		slog.String("project_id", project.ID),
		slog.String("user_id", owner.ID),
		slog.String("name", name),
	)

	return project, nil
}

// DeleteProject はプロジェクトを削除する。セッションの事実は削除しない。
func (s *Service) DeleteProject(ctx context.Context, username, name string) error {
	project, err := s.GetProject(ctx, username, name)
	if err != nil {
		return err
	}

	if err := s.projects.DeleteByID(ctx, project.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewProjectNotFoundError(name)
		}
		return fmt.Errorf("プロジェクトの削除に失敗しました: %w", err)
	}

	slog.Info("プロジェクトを削除しました",
		slog.String("project_id", project.ID),
		slog.String("user_id", project.UserID),
	)

	return nil
}
