package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hitoshi/timetrack/internal/model"
)

// PostgresSessionRepo はPostgreSQLを使用したセッション事実リポジトリ。
// session_startsとsession_endsの2テーブルに追記のみを行う。
type PostgresSessionRepo struct {
	db *sqlx.DB
}

// NewPostgresSessionRepo はPostgresSessionRepoを生成する。
func NewPostgresSessionRepo(db *sqlx.DB) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db}
}

// sessionRow は開始レコードと終了レコードをLEFT JOINした1行を表す。
type sessionRow struct {
	SessionID    string     `db:"session_id"`
	UserID       string     `db:"user_id"`
	ProjectID    string     `db:"project_id"`
	StartTime    time.Time  `db:"start_time"`
	Description  *string    `db:"description"`
	EndUserID    *string    `db:"end_user_id"`
	EndProjectID *string    `db:"end_project_id"`
	EndTime      *time.Time `db:"end_time"`
}

// toRecord はJOIN結果の行をSessionRecordに変換する。
// end_timeがNULLの場合は終了レコードなしとして扱う。
func (row sessionRow) toRecord() model.SessionRecord {
	rec := model.SessionRecord{
		Start: model.SessionStart{
			SessionID:   row.SessionID,
			UserID:      row.UserID,
			ProjectID:   row.ProjectID,
			StartTime:   row.StartTime,
			Description: row.Description,
		},
	}
	if row.EndTime != nil {
		end := &model.SessionEnd{
			SessionID: row.SessionID,
			EndTime:   *row.EndTime,
		}
		if row.EndUserID != nil {
			end.UserID = *row.EndUserID
		}
		if row.EndProjectID != nil {
			end.ProjectID = *row.EndProjectID
		}
		rec.End = end
	}
	return rec
}

const selectSessionRecord = `
	SELECT s.session_id, s.user_id, s.project_id, s.start_time, s.description,
	       e.user_id AS end_user_id, e.project_id AS end_project_id, e.end_time
	FROM session_starts s
	LEFT JOIN session_ends e ON e.session_id = s.session_id`

// CreateStart は開始レコードを追記する。
func (r *PostgresSessionRepo) CreateStart(ctx context.Context, start *model.SessionStart) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO session_starts (session_id, user_id, project_id, start_time, description)
		 VALUES (:session_id, :user_id, :project_id, :start_time, :description)`,
		start,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session start: %w", translateError(err))
	}
	return nil
}

// CreateEnd は終了レコードを追記する。
// session_ends.session_idのUNIQUE制約により、2件目はErrDuplicateとなる。
func (r *PostgresSessionRepo) CreateEnd(ctx context.Context, end *model.SessionEnd) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO session_ends (session_id, user_id, project_id, end_time)
		 VALUES (:session_id, :user_id, :project_id, :end_time)`,
		end,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session end: %w", translateError(err))
	}
	return nil
}

// FindStart は開始レコードを取得する。見つからない場合はnilを返す。
func (r *PostgresSessionRepo) FindStart(ctx context.Context, sessionID string) (*model.SessionStart, error) {
	start := &model.SessionStart{}
	err := r.db.GetContext(ctx, start,
		`SELECT session_id, user_id, project_id, start_time, description
		 FROM session_starts WHERE session_id = $1`,
		sessionID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session start: %w", err)
	}
	return start, nil
}

// FindRecord は開始レコードと終了レコードを1回のクエリで取得する。
func (r *PostgresSessionRepo) FindRecord(ctx context.Context, sessionID string) (*model.SessionRecord, error) {
	var row sessionRow
	err := r.db.GetContext(ctx, &row, selectSessionRecord+` WHERE s.session_id = $1`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session record: %w", err)
	}

	rec := row.toRecord()
	return &rec, nil
}

// ListRecordsByProject はプロジェクトの全セッションを開始時刻昇順で返す。
func (r *PostgresSessionRepo) ListRecordsByProject(ctx context.Context, projectID string) ([]model.SessionRecord, error) {
	var rows []sessionRow
	err := r.db.SelectContext(ctx, &rows,
		selectSessionRecord+` WHERE s.project_id = $1 ORDER BY s.start_time ASC, s.session_id ASC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list session records: %w", err)
	}

	records := make([]model.SessionRecord, len(rows))
	for i, row := range rows {
		records[i] = row.toRecord()
	}
	return records, nil
}

// CountActive は終了レコードを持たないセッション数を返す。
func (r *PostgresSessionRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM session_starts s
		 WHERE NOT EXISTS (SELECT 1 FROM session_ends e WHERE e.session_id = s.session_id)`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to count active sessions: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ SessionRepository = (*PostgresSessionRepo)(nil)
