package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/api/middleware"
	"github.com/Marga-Ghale/ora-boards-backend/internal/config"
	"github.com/Marga-Ghale/ora-boards-backend/internal/export"
	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
	"github.com/Marga-Ghale/ora-boards-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	services := service.NewServices(&service.ServiceDeps{
		Config: &config.Config{JWTSecret: "handler-secret", JWTExpiry: 1},
		Repos:  repository.NewRepositories(),
	})
	r := gin.New()
	r.Use(middleware.Metrics())
	RegisterRoutes(r, NewHandlers(services), services.Auth, nil)

	token, err := services.Auth.IssueToken("user-1", time.Hour)
	require.NoError(t, err)
	return &testAPI{t: t, router: r, token: token}
}

func (a *testAPI) do(method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != export.ContentType {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type idOnly struct {
	ID string `json:"id"`
}

func (a *testAPI) createBoard() string {
	w, env := a.do(http.MethodPost, "/api/boards", map[string]any{"name": "Bugs"})
	require.Equal(a.t, http.StatusCreated, w.Code)
	return decode[idOnly](a.t, env.Data).ID
}

func (a *testAPI) createColumn(boardID string, body map[string]any) string {
	w, env := a.do(http.MethodPost, "/api/boards/"+boardID+"/columns", body)
	require.Equal(a.t, http.StatusCreated, w.Code, env.Message)
	return decode[idOnly](a.t, env.Data).ID
}

func TestAuthRequired(t *testing.T) {
	api := newTestAPI(t)
	api.token = ""

	w, env := api.do(http.MethodGet, "/api/boards", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	api.token = "garbage"
	w, _ = api.do(http.MethodGet, "/api/boards", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestColumnTypes(t *testing.T) {
	api := newTestAPI(t)
	w, env := api.do(http.MethodGet, "/api/column-types", nil)
	require.Equal(t, http.StatusOK, w.Code)

	list := decode[[]map[string]any](t, env.Data)
	assert.Len(t, list, 27)
	assert.Equal(t, "TEXT", list[0]["type"])
}

func TestItemValidationFailureIs422WithFieldErrors(t *testing.T) {
	api := newTestAPI(t)
	boardID := api.createBoard()
	emailID := api.createColumn(boardID, map[string]any{"name": "Reporter", "type": "EMAIL", "required": true})

	w, env := api.do(http.MethodPost, "/api/boards/"+boardID+"/items", map[string]any{
		"name":  "Crash",
		"cells": map[string]any{emailID: "not-an-email"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, env.Success)
	errs := decode[[]map[string]string](t, env.Errors)
	require.Len(t, errs, 1)
	assert.Equal(t, emailID, errs[0]["fieldId"])
	assert.Equal(t, "Reporter must be a valid email address", errs[0]["message"])

	w, env = api.do(http.MethodPost, "/api/boards/"+boardID+"/items", map[string]any{
		"name":  "Crash",
		"cells": map[string]any{emailID: "ada@example.com"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	item := decode[map[string]any](t, env.Data)
	assert.Equal(t, "ada@example.com", item["cells"].(map[string]any)[emailID])
}

func TestFormValidateReturnsResultAsData(t *testing.T) {
	api := newTestAPI(t)
	boardID := api.createBoard()
	api.createColumn(boardID, map[string]any{"name": "Title", "type": "TEXT", "required": true})

	w, env := api.do(http.MethodPost, "/api/boards/"+boardID+"/form/validate", map[string]any{"formData": map[string]any{}})
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[struct {
		IsValid bool `json:"isValid"`
		Errors  []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}](t, env.Data)
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Title is required", result.Errors[0].Message)
}

func TestLossyTypeChangeIs409UntilConfirmed(t *testing.T) {
	api := newTestAPI(t)
	boardID := api.createBoard()
	colID := api.createColumn(boardID, map[string]any{"name": "Code", "type": "TEXT"})

	w, env := api.do(http.MethodGet, "/api/columns/"+colID+"/type-change?to=NUMBER", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[map[string]any](t, env.Data)["lossy"].(bool))

	body := map[string]any{"name": "Code", "type": "NUMBER"}
	w, env = api.do(http.MethodPut, "/api/columns/"+colID, body)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.NotEmpty(t, env.Message)

	body["confirmTypeChange"] = true
	w, env = api.do(http.MethodPut, "/api/columns/"+colID, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "NUMBER", decode[map[string]any](t, env.Data)["type"])
}

func TestOtherUsersBoardIs404(t *testing.T) {
	api := newTestAPI(t)
	boardID := api.createBoard()

	token, err := service.NewAuthService(&config.Config{JWTSecret: "handler-secret"}).IssueToken("user-2", time.Hour)
	require.NoError(t, err)
	other := &testAPI{t: t, router: api.router, token: token}

	w, _ := other.do(http.MethodGet, "/api/boards/"+boardID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = other.do(http.MethodGet, "/api/boards/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicFormFlow(t *testing.T) {
	api := newTestAPI(t)
	boardID := api.createBoard()
	nameID := api.createColumn(boardID, map[string]any{"name": "Name", "type": "TEXT", "required": true})

	anon := &testAPI{t: t, router: api.router}
	w, env := anon.do(http.MethodGet, "/api/public/forms/"+boardID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "This form is not public", env.Message)

	w, _ = api.do(http.MethodPut, "/api/boards/"+boardID, map[string]any{"formPublic": true})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = anon.do(http.MethodGet, "/api/public/forms/"+boardID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bugs", decode[map[string]any](t, env.Data)["title"])

	w, _ = anon.do(http.MethodPost, "/api/public/forms/"+boardID+"/submit", map[string]any{"formData": map[string]any{}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, env = anon.do(http.MethodPost, "/api/public/forms/"+boardID+"/submit", map[string]any{"formData": map[string]any{nameID: "Grace"}})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Grace", decode[map[string]any](t, env.Data)["name"])
}

func TestAutomationTestEndpoint(t *testing.T) {
	api := newTestAPI(t)
	boardID := api.createBoard()

	w, env := api.do(http.MethodPost, "/api/automations/test", map[string]any{
		"boardId": boardID,
		"automation": map[string]any{
			"name":    "Remind",
			"trigger": map[string]any{"type": "date_approaching", "config": map[string]any{}},
			"actions": []map[string]any{{"type": "archive_item"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[struct {
		Success bool     `json:"success"`
		Errors  []string `json:"errors"`
	}](t, env.Data)
	assert.False(t, result.Success)
	assert.Contains(t, result.Errors, "Date approaching trigger requires days before value")

	w, _ = api.do(http.MethodGet, "/api/boards/"+boardID+"/automations", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestViewsRecentAndFavorites(t *testing.T) {
	api := newTestAPI(t)
	boardID := api.createBoard()

	w, env := api.do(http.MethodPost, "/api/boards/"+boardID+"/views", map[string]any{"name": "Kanban", "type": "KANBAN"})
	require.Equal(t, http.StatusCreated, w.Code)
	viewID := decode[idOnly](t, env.Data).ID

	w, _ = api.do(http.MethodPost, "/api/views/"+viewID+"/open", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = api.do(http.MethodPost, "/api/views/"+viewID+"/favorite", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[map[string]any](t, env.Data)["isFavorite"].(bool))

	w, env = api.do(http.MethodGet, "/api/boards/"+boardID+"/views/recent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	recent := decode[[]idOnly](t, env.Data)
	require.Len(t, recent, 1)
	assert.Equal(t, viewID, recent[0].ID)

	w, env = api.do(http.MethodGet, "/api/boards/"+boardID+"/views/favorites", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]idOnly](t, env.Data), 1)
}

func TestExportReturnsWorkbook(t *testing.T) {
	api := newTestAPI(t)
	boardID := api.createBoard()

	w, _ := api.do(http.MethodGet, "/api/boards/"+boardID+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Bugs.xlsx")
	assert.NotZero(t, w.Body.Len())
}
