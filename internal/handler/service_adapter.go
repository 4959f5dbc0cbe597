package handler

import (
	"time"

	"github.com/hitoshi/timetrack/internal/model"
	"github.com/hitoshi/timetrack/internal/project"
	"github.com/hitoshi/timetrack/internal/session"
	"github.com/hitoshi/timetrack/internal/user"
)

// statusResponse はセッション状態のAPIレスポンス。
// totalはGoのduration文字列（例: "1h30m0s"）、total_secondsは秒数で返す。
type statusResponse struct {
	UserID       string     `json:"user_id"`
	SessionID    string     `json:"session_id"`
	ProjectID    string     `json:"project_id"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	Description  *string    `json:"description"`
	Hours        int64      `json:"hours"`
	Total        string     `json:"total"`
	TotalSeconds float64    `json:"total_seconds"`
	Active       bool       `json:"active"`
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// projectResponse はプロジェクト情報のAPIレスポンス。
type projectResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// toStatusResponse はドメインのStatusViewをhandlerのレスポンス型に変換する。
func toStatusResponse(v model.StatusView) statusResponse {
	return statusResponse{
		UserID:       v.UserID,
		SessionID:    v.SessionID,
		ProjectID:    v.ProjectID,
		StartTime:    v.StartTime,
		EndTime:      v.EndTime,
		Description:  v.Description,
		Hours:        v.Hours,
		Total:        v.Total.String(),
		TotalSeconds: v.Total.Seconds(),
		Active:       v.Active,
	}
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

// toProjectResponse はmodel.ProjectからAPIレスポンスに変換する。
func toProjectResponse(p *model.Project) projectResponse {
	return projectResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

// --- compile-time interface checks ---

var _ SessionServiceInterface = (*session.Service)(nil)
var _ UserServiceInterface = (*user.Service)(nil)
var _ ProjectServiceInterface = (*project.Service)(nil)
