package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/timetrack/internal/model"
)

// ProjectServiceInterface はプロジェクトハンドラーが必要とするサービスインターフェース。
type ProjectServiceInterface interface {
	ListProjects(ctx context.Context, username string) ([]*model.Project, error)
	GetProject(ctx context.Context, username, name string) (*model.Project, error)
	CreateProject(ctx context.Context, username, name string, description *string) (*model.Project, error)
	DeleteProject(ctx context.Context, username, name string) error
}

// ProjectHandler はプロジェクト管理のHTTPハンドラー。
type ProjectHandler struct {
	service ProjectServiceInterface
}

// NewProjectHandler はProjectHandlerを生成する。
func NewProjectHandler(service ProjectServiceInterface) *ProjectHandler {
	return &ProjectHandler{
		service: service,
	}
}

// createProjectRequest はプロジェクト作成リクエストのボディ。
type createProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// ListProjects はユーザーのプロジェクト一覧を返す。
// GET /api/users/{username}/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListProjects(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	results := make([]projectResponse, len(projects))
	for i, p := range projects {
		results[i] = toProjectResponse(p)
	}
	writeJSON(w, http.StatusOK, results)
}

// CreateProject はプロジェクトを作成する。
// POST /api/users/{username}/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req createProjectRequest
	if apiErr := decodeJSONBody(w, r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	project, err := h.service.CreateProject(r.Context(), username, req.Name, req.Description)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/users/"+username+"/projects/"+project.Name)
	writeJSON(w, http.StatusCreated, toProjectResponse(project))
}

// GetProject はプロジェクト情報を返す。
// GET /api/users/{username}/projects/{project}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.service.GetProject(r.Context(), chi.URLParam(r, "username"), chi.URLParam(r, "project"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

// DeleteProject はプロジェクトを削除する。
// DELETE /api/users/{username}/projects/{project}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProject(r.Context(), chi.URLParam(r, "username"), chi.URLParam(r, "project")); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetupProjectRoutes はプロジェクト管理関連のルーティングを設定したchi.Routerを返す。
func SetupProjectRoutes(service ProjectServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewProjectHandler(service)

	r.Route("/api/users/{username}/projects", func(r chi.Router) {
		r.Get("/", h.ListProjects)
		r.Post("/", h.CreateProject)
		r.Get("/{project}", h.GetProject)
		r.Delete("/{project}", h.DeleteProject)
	})

	return r
}
