package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/hitoshi/timetrack/internal/metrics"
	"github.com/hitoshi/timetrack/internal/model"
	"github.com/hitoshi/timetrack/internal/repository"
	"github.com/hitoshi/timetrack/internal/security"
)

// IdentityResolver はユーザー名・プロジェクト名を内部IDに解決するインターフェース。
type IdentityResolver interface {
	ResolveUser(ctx context.Context, username string) (string, bool, error)
	ResolveProject(ctx context.Context, userID, projectName string) (string, bool, error)
}

// Service はセッションの開始・終了・状態照会を提供するサービス層。
// ドメイン状態はすべてストアが保持し、Service自体は状態を持たない。
type Service struct {
	resolver  IdentityResolver
	repo      repository.SessionRepository
	metrics   metrics.MetricsCollector
	sanitizer security.TextSanitizer
	logger    *slog.Logger

	Now   func() time.Time // 評価時刻の取得元（デフォルト: time.Now）
	NewID func() string    // セッションIDの生成元（デフォルト: KSUID）
}

// NewService はServiceの新しいインスタンスを生成する。
// collectorとsanitizerはnilでもよい。
func NewService(
	resolver IdentityResolver,
	repo repository.SessionRepository,
	collector metrics.MetricsCollector,
	sanitizer security.TextSanitizer,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		resolver:  resolver,
		repo:      repo,
		metrics:   collector,
		sanitizer: sanitizer,
		logger:    logger,
		Now:       time.Now,
		NewID:     func() string { return ksuid.New().String() },
	}
}

// now はPostgreSQLのTIMESTAMPTZ精度（マイクロ秒）に揃えたUTC時刻を返す。
func (s *Service) now() time.Time {
	return s.Now().UTC().Truncate(time.Microsecond)
}

// StartSession はユーザーとプロジェクトを解決し、新しいセッションを開始する。
// 同一プロジェクトで複数のアクティブなセッションを持つことができる。
func (s *Service) StartSession(ctx context.Context, username, projectName string, description *string) (string, error) {
	userID, found, err := s.resolver.ResolveUser(ctx, username)
	if err != nil {
		return "", err
	}
	if !found {
		return "", model.NewUserNotFoundError(username)
	}

	projectID, found, err := s.resolver.ResolveProject(ctx, userID, projectName)
	if err != nil {
		return "", err
	}
	if !found {
		return "", model.NewProjectNotFoundError(projectName)
	}

	if s.sanitizer != nil {
		description = s.sanitizer.SanitizeOptional(description)
	}

	start := &model.SessionStart{
		SessionID:   s.NewID(),
		UserID:      userID,
		ProjectID:   projectID,
		StartTime:   s.now(),
		Description: description,
	}
	if err := s.repo.CreateStart(ctx, start); err != nil {
		if errors.Is(err, repository.ErrReferenceMissing) {
			return "", model.NewProjectNotFoundError(projectName)
		}
		return "", fmt.Errorf("セッション開始の記録に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSessionStarted()
	}
	s.logger.Info("セッションを開始しました",
		slog.String("session_id", start.SessionID),
		slog.String("user_id", userID),
		slog.String("project_id", projectID),
	)

	return start.SessionID, nil
}

// EndSession はセッションを終了する。
// 二重終了の判定はsession_endsのUNIQUE制約に委ね、事前の存在確認は行わない。
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	start, err := s.repo.FindStart(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if start == nil {
		return model.NewSessionNotFoundError(sessionID)
	}

	end := &model.SessionEnd{
		SessionID: start.SessionID,
		UserID:    start.UserID,
		ProjectID: start.ProjectID,
		EndTime:   s.now(),
	}
	if err := s.repo.CreateEnd(ctx, end); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			if s.metrics != nil {
				s.metrics.RecordEndConflict()
			}
			return model.NewSessionAlreadyEndedError(sessionID)
		case errors.Is(err, repository.ErrReferenceMissing):
			return model.NewSessionNotFoundError(sessionID)
		}
		return fmt.Errorf("セッション終了の記録に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSessionEnded()
	}
	s.logger.Info("セッションを終了しました",
		slog.String("session_id", sessionID),
		slog.String("user_id", start.UserID),
		slog.String("project_id", start.ProjectID),
	)

	return nil
}

// GetStatus はセッションの状態と経過時間を返す。
// 開始・終了レコードは1回のクエリで取得し、読み取り途中の状態を混在させない。
func (s *Service) GetStatus(ctx context.Context, sessionID string) (*model.StatusView, error) {
	rec, err := s.repo.FindRecord(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if rec == nil {
		return nil, model.NewSessionNotFoundError(sessionID)
	}

	if s.metrics != nil {
		s.metrics.RecordStatusQuery()
	}

	view, err := s.compute(*rec, s.now())
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ListSessions はプロジェクトの全セッションの状態を開始時刻昇順で返す。
// すべてのセッションを同一の評価時刻で算出する。
func (s *Service) ListSessions(ctx context.Context, username, projectName string) ([]model.StatusView, error) {
	userID, found, err := s.resolver.ResolveUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.NewUserNotFoundError(username)
	}

	projectID, found, err := s.resolver.ResolveProject(ctx, userID, projectName)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.NewProjectNotFoundError(projectName)
	}

	records, err := s.repo.ListRecordsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("セッション一覧の取得に失敗しました: %w", err)
	}

	evaluatedAt := s.now()
	views := make([]model.StatusView, 0, len(records))
	for _, rec := range records {
		view, err := s.compute(rec, evaluatedAt)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// compute はComputeを呼び出し、整合性エラーをログとメトリクスに記録する。
func (s *Service) compute(rec model.SessionRecord, now time.Time) (model.StatusView, error) {
	view, err := Compute(rec, now)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordDataIntegrityError()
		}
		s.logger.Error("セッションデータの整合性エラー",
			slog.String("session_id", rec.Start.SessionID),
			slog.String("error", err.Error()),
		)
		return model.StatusView{}, err
	}
	return view, nil
}
