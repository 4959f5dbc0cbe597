package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/timetrack/internal/model"
)

// --- モック定義 ---

// mockSessionService はSessionServiceInterfaceのモック実装。
type mockSessionService struct {
	startSessionFn func(ctx context.Context, username, projectName string, description *string) (string, error)
	endSessionFn   func(ctx context.Context, sessionID string) error
	getStatusFn    func(ctx context.Context, sessionID string) (*model.StatusView, error)
	listSessionsFn func(ctx context.Context, username, projectName string) ([]model.StatusView, error)
}

func (m *mockSessionService) StartSession(ctx context.Context, username, projectName string, description *string) (string, error) {
	if m.startSessionFn != nil {
		return m.startSessionFn(ctx, username, projectName, description)
	}
	return "", nil
}

func (m *mockSessionService) EndSession(ctx context.Context, sessionID string) error {
	if m.endSessionFn != nil {
		return m.endSessionFn(ctx, sessionID)
	}
	return nil
}

func (m *mockSessionService) GetStatus(ctx context.Context, sessionID string) (*model.StatusView, error) {
	if m.getStatusFn != nil {
		return m.getStatusFn(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockSessionService) ListSessions(ctx context.Context, username, projectName string) ([]model.StatusView, error) {
	if m.listSessionsFn != nil {
		return m.listSessionsFn(ctx, username, projectName)
	}
	return nil, nil
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apiErrorBody {
	t.Helper()
	var body apiErrorBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

// apiErrorBody はテストで統一エラーフォーマットを読み取るための型。
type apiErrorBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// --- POST /api/sessions ---

func TestSessionHandler_StartSession_Success(t *testing.T) {
	svc := &mockSessionService{
		startSessionFn: func(ctx context.Context, username, projectName string, description *string) (string, error) {
			if username != "alice" || projectName != "blog" {
				t.Errorf("got (%q, %q), want (alice, blog)", username, projectName)
			}
			if description == nil || *description != "writing" {
				t.Errorf("description = %v, want %q", description, "writing")
			}
			return "2Bsession", nil
		},
	}
	router := SetupSessionRoutes(svc)

	body := `{"username":"alice","project":"blog","description":"writing"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if loc := w.Header().Get("Location"); loc != "/api/sessions/2Bsession" {
		t.Errorf("Location = %q, want %q", loc, "/api/sessions/2Bsession")
	}

	var resp startSessionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.SessionID != "2Bsession" {
		t.Errorf("session_id = %q, want %q", resp.SessionID, "2Bsession")
	}
}

func TestSessionHandler_StartSession_WithoutDescription(t *testing.T) {
	svc := &mockSessionService{
		startSessionFn: func(ctx context.Context, username, projectName string, description *string) (string, error) {
			if description != nil {
				t.Errorf("description = %q, want nil", *description)
			}
			return "id", nil
		},
	}
	router := SetupSessionRoutes(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(`{"username":"alice","project":"blog"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
}

func TestSessionHandler_StartSession_InvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"空ボディ", ""},
		{"不正なJSON", "{"},
		{"usernameなし", `{"project":"blog"}`},
		{"projectが空白", `{"username":"alice","project":"  "}`},
		{"未知のフィールド", `{"username":"alice","project":"blog","user_id":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSessionService{
				startSessionFn: func(ctx context.Context, username, projectName string, description *string) (string, error) {
					t.Error("service should not be called")
					return "", nil
				},
			}
			router := SetupSessionRoutes(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			if body := decodeError(t, w); body.Code != model.ErrCodeInvalidRequest {
				t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInvalidRequest)
			}
		})
	}
}

func TestSessionHandler_StartSession_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"ユーザー不在", model.NewUserNotFoundError("bob"), http.StatusNotFound, model.ErrCodeUserNotFound},
		{"プロジェクト不在", model.NewProjectNotFoundError("wiki"), http.StatusNotFound, model.ErrCodeProjectNotFound},
		{"ストレージ障害", errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSessionService{
				startSessionFn: func(ctx context.Context, username, projectName string, description *string) (string, error) {
					return "", tt.err
				},
			}
			router := SetupSessionRoutes(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(`{"username":"bob","project":"wiki"}`))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if body := decodeError(t, w); body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

// --- POST /api/sessions/{id}/end ---

func TestSessionHandler_EndSession(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"成功", nil, http.StatusNoContent},
		{"セッション不在", model.NewSessionNotFoundError("x"), http.StatusNotFound},
		{"終了済み", model.NewSessionAlreadyEndedError("x"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID string
			svc := &mockSessionService{
				endSessionFn: func(ctx context.Context, sessionID string) error {
					gotID = sessionID
					return tt.err
				},
			}
			router := SetupSessionRoutes(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/sessions/2Bsession/end", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if gotID != "2Bsession" {
				t.Errorf("sessionID = %q, want %q", gotID, "2Bsession")
			}
		})
	}
}

// --- GET /api/sessions/{id} ---

func TestSessionHandler_GetStatus_Active(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	desc := "writing"
	svc := &mockSessionService{
		getStatusFn: func(ctx context.Context, sessionID string) (*model.StatusView, error) {
			return &model.StatusView{
				UserID:      "user-1",
				SessionID:   sessionID,
				ProjectID:   "project-1",
				StartTime:   start,
				Description: &desc,
				Hours:       2,
				Total:       90 * time.Minute,
				Active:      true,
			}, nil
		},
	}
	router := SetupSessionRoutes(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/2Bsession", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var raw map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if raw["session_id"] != "2Bsession" {
		t.Errorf("session_id = %v, want %q", raw["session_id"], "2Bsession")
	}
	if raw["total"] != "1h30m0s" {
		t.Errorf("total = %v, want %q", raw["total"], "1h30m0s")
	}
	if raw["total_seconds"] != float64(5400) {
		t.Errorf("total_seconds = %v, want 5400", raw["total_seconds"])
	}
	if raw["hours"] != float64(2) {
		t.Errorf("hours = %v, want 2", raw["hours"])
	}
	if raw["active"] != true {
		t.Errorf("active = %v, want true", raw["active"])
	}
	// アクティブなセッションのend_timeはnull
	if v, ok := raw["end_time"]; !ok || v != nil {
		t.Errorf("end_time = %v (present=%v), want null", v, ok)
	}
	if raw["start_time"] != "2026-03-02T09:00:00Z" {
		t.Errorf("start_time = %v, want RFC3339", raw["start_time"])
	}
}

func TestSessionHandler_GetStatus_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"セッション不在", model.NewSessionNotFoundError("x"), http.StatusNotFound, model.ErrCodeSessionNotFound},
		{"整合性エラー", model.NewDataIntegrityError("end before start"), http.StatusInternalServerError, model.ErrCodeDataIntegrity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSessionService{
				getStatusFn: func(ctx context.Context, sessionID string) (*model.StatusView, error) {
					return nil, tt.err
				},
			}
			router := SetupSessionRoutes(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/sessions/x", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if body := decodeError(t, w); body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

// --- GET /api/users/{username}/projects/{project}/sessions ---

func TestSessionHandler_ListSessions(t *testing.T) {
	svc := &mockSessionService{
		listSessionsFn: func(ctx context.Context, username, projectName string) ([]model.StatusView, error) {
			if username != "alice" || projectName != "blog" {
				t.Errorf("got (%q, %q), want (alice, blog)", username, projectName)
			}
			return []model.StatusView{
				{SessionID: "s-1", Total: time.Hour, Hours: 1},
				{SessionID: "s-2", Total: 0, Active: true},
			}, nil
		},
	}
	router := SetupSessionRoutes(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users/alice/projects/blog/sessions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp []statusResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(resp) != 2 || resp[0].SessionID != "s-1" || resp[1].Total != "0s" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

// 結果が0件の場合はnullではなく空配列を返すことを検証する。
func TestSessionHandler_ListSessions_EmptyArray(t *testing.T) {
	router := SetupSessionRoutes(&mockSessionService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/alice/projects/blog/sessions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("body = %q, want %q", got, "[]")
	}
}
