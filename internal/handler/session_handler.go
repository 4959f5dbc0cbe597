package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/timetrack/internal/model"
)

// SessionServiceInterface はセッションハンドラーが必要とするサービスインターフェース。
type SessionServiceInterface interface {
	// StartSession はユーザー名とプロジェクト名を解決してセッションを開始し、セッションIDを返す。
	StartSession(ctx context.Context, username, projectName string, description *string) (string, error)
	// EndSession はセッションを終了する。終了は1回のみ可能。
	EndSession(ctx context.Context, sessionID string) error
	// GetStatus はセッションの状態と経過時間を返す。
	GetStatus(ctx context.Context, sessionID string) (*model.StatusView, error)
	// ListSessions はプロジェクトの全セッションの状態を開始時刻順で返す。
	ListSessions(ctx context.Context, username, projectName string) ([]model.StatusView, error)
}

// SessionHandler はセッション操作のHTTPハンドラー。
type SessionHandler struct {
	service SessionServiceInterface
}

// NewSessionHandler はSessionHandlerを生成する。
func NewSessionHandler(service SessionServiceInterface) *SessionHandler {
	return &SessionHandler{
		service: service,
	}
}

// startSessionRequest はセッション開始リクエストのボディ。
type startSessionRequest struct {
	Username    string  `json:"username"`
	Project     string  `json:"project"`
	Description *string `json:"description"`
}

// startSessionResponse はセッション開始のAPIレスポンス。
type startSessionResponse struct {
	SessionID string `json:"session_id"`
}

// StartSession はセッションを開始する。
// POST /api/sessions
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if apiErr := decodeJSONBody(w, r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Project = strings.TrimSpace(req.Project)
	if req.Username == "" || req.Project == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("usernameとprojectは必須です"))
		return
	}

	sessionID, err := h.service.StartSession(r.Context(), req.Username, req.Project, req.Description)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/sessions/"+sessionID)
	writeJSON(w, http.StatusCreated, startSessionResponse{SessionID: sessionID})
}

// EndSession はセッションを終了する。
// POST /api/sessions/{id}/end
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	if err := h.service.EndSession(r.Context(), sessionID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetStatus はセッションの状態を返す。
// GET /api/sessions/{id}
func (h *SessionHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	view, err := h.service.GetStatus(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatusResponse(*view))
}

// ListSessions はプロジェクトのセッション一覧を返す。
// GET /api/users/{username}/projects/{project}/sessions
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	projectName := chi.URLParam(r, "project")

	views, err := h.service.ListSessions(r.Context(), username, projectName)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	results := make([]statusResponse, len(views))
	for i, v := range views {
		results[i] = toStatusResponse(v)
	}
	writeJSON(w, http.StatusOK, results)
}

// SetupSessionRoutes はセッション関連のルーティングを設定したchi.Routerを返す。
func SetupSessionRoutes(service SessionServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewSessionHandler(service)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", h.StartSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetStatus)
			r.Post("/end", h.EndSession)
		})
	})
	r.Get("/api/users/{username}/projects/{project}/sessions", h.ListSessions)

	return r
}
