// Package user はユーザー管理のドメインロジックを提供する。
package user

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
)

// Service はユーザー管理のサービス層。
// ユーザーの作成・取得・削除を提供する。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{
		userRepo: userRepo,
	}
}

// CreateUser は新しいユーザーを作成する。
// IDはUUIDで生成し、同名ユーザーが存在する場合はUSER_ALREADY_EXISTSを返す。
func (s *Service) CreateUser(ctx context.Context, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, model.NewInvalidRequestError("usernameは必須です")
	}

	user := &model.User{
		ID:        uuid.New().String(),
		Username:  username,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, model.NewUserAlreadyExistsError(username)
		}
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	slog.Info("ユーザーを作成しました",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// GetUser はユーザー名でユーザーを取得する。
func (s *Service) GetUser(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(username)
	}
	return user, nil
}

// DeleteUser はユーザーを削除する。
// 所有プロジェクトはCASCADE削除されるが、セッションの事実は履歴として残す。
func (s *Service) DeleteUser(ctx context.Context, username string) error {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		return err
	}

	if err := s.userRepo.DeleteByID(ctx, user.ID); err != nil {
		// 取得から削除までの間に他のリクエストで削除された場合
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewUserNotFoundError(username)
		}
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("ユーザーを削除しました",
		slog.String("user_id", user.ID),
		slog.String("username", username),
	)

	return nil
}
