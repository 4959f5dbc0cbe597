package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hitoshi/timetrack/internal/model"
)

// PostgresProjectRepo はPostgreSQLを使用したプロジェクトリポジトリ。
type PostgresProjectRepo struct {
	db *sqlx.DB
}

// NewPostgresProjectRepo はPostgresProjectRepoを生成する。
func NewPostgresProjectRepo(db *sqlx.DB) *PostgresProjectRepo {
	return &PostgresProjectRepo{db: db}
}

// FindByUserAndName は所有ユーザーIDとプロジェクト名で検索する。見つからない場合はnilを返す。
func (r *PostgresProjectRepo) FindByUserAndName(ctx context.Context, userID, name string) (*model.Project, error) {
	project := &model.Project{}
	err := r.db.GetContext(ctx, project,
		`SELECT id, user_id, name, description, created_at
		 FROM projects WHERE user_id = $1 AND name = $2`,
		userID, name,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	return project, nil
}

// ListByUserID はユーザーの全プロジェクトを作成日時順で返す。
func (r *PostgresProjectRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Project, error) {
	var projects []*model.Project
	err := r.db.SelectContext(ctx, &projects,
		`SELECT id, user_id, name, description, created_at
		 FROM projects WHERE user_id = $1 ORDER BY created_at ASC, name ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Create はプロジェクトを作成する。
func (r *PostgresProjectRepo) Create(ctx context.Context, project *model.Project) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO projects (id, user_id, name, description, created_at)
		 VALUES (:id, :user_id, :name, :description, :created_at)`,
		project,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", translateError(err))
	}
	return nil
}

// DeleteByID は指定IDのプロジェクトを削除する。
func (r *PostgresProjectRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

// compile-time interface check
var _ ProjectRepository = (*PostgresProjectRepo)(nil)
