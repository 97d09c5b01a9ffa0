package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/decisiond/internal/analysis"
	"github.com/fyrsmithlabs/decisiond/internal/classifier"
	"github.com/fyrsmithlabs/decisiond/internal/decision"
	"github.com/fyrsmithlabs/decisiond/internal/lifecycle"
	"github.com/fyrsmithlabs/decisiond/internal/persona"
	"github.com/fyrsmithlabs/decisiond/internal/report"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := zap.NewNop()
	cls := classifier.New(classifier.Tables{})

	store, err := decision.NewStore(filepath.Join(t.TempDir(), "decisions"), cls, logger)
	require.NoError(t, err)

	lc, err := lifecycle.NewService(store, logger)
	require.NoError(t, err)

	analyzer := analysis.NewAnalyzer("")

	reports, err := report.NewService(store, analyzer, persona.NewExtractor(), filepath.Join(t.TempDir(), "reviews"), logger)
	require.NoError(t, err)

	srv, err := NewServer(store, lc, cls, analyzer, reports, logger, nil)
	require.NoError(t, err)

	return srv
}

func doJSON(t *testing.T, srv *Server, method, target, body string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func createViaAPI(t *testing.T, srv *Server, body string) string {
	t.Helper()

	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/decisions", body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	id, ok := data["decision_id"].(string)
	require.True(t, ok)
	return id
}

func TestNewServer_RequiresDependencies(t *testing.T) {
	_, err := NewServer(nil, nil, nil, nil, nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store is required")
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateDecision(t *testing.T) {
	srv := newTestServer(t)

	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/decisions",
		`{"description":"要不要创业","type":"life_level","rational_analysis":"做过验证","emotional_factors":["应该"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	data := env.Data.(map[string]any)
	assert.Equal(t, "life_level", data["type"])
	assert.Equal(t, "high", data["risk_level"])
	assert.Equal(t, "pending", data["outcome"])
	assert.InDelta(t, 0.2, data["emotion_ratio"].(float64), 1e-9)
	assert.NotEmpty(t, data["required_actions"])
}

func TestCreateDecision_DefaultsToImportant(t *testing.T) {
	srv := newTestServer(t)

	_, env := doJSON(t, srv, http.MethodPost, "/api/v1/decisions", `{"description":"换工作"}`)
	require.True(t, env.Success)

	data := env.Data.(map[string]any)
	assert.Equal(t, "important", data["type"])
	assert.Equal(t, "medium", data["risk_level"])
}

func TestCreateDecision_RequiresDescription(t *testing.T) {
	srv := newTestServer(t)

	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/decisions", `{"type":"daily"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "description is required")
}

func TestCreateDecision_InvalidType(t *testing.T) {
	srv := newTestServer(t)

	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/decisions", `{"description":"x","type":"urgent"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "invalid decision type")
}

func TestGetDecision(t *testing.T) {
	srv := newTestServer(t)
	id := createViaAPI(t, srv, `{"description":"x","type":"daily"}`)

	rec, env := doJSON(t, srv, http.MethodGet, "/api/v1/decisions/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	assert.Equal(t, id, env.Data.(map[string]any)["decision_id"])
}

func TestGetDecision_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec, env := doJSON(t, srv, http.MethodGet, "/api/v1/decisions/2026-01-01-deadbeef", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestListDecisions(t *testing.T) {
	srv := newTestServer(t)
	createViaAPI(t, srv, `{"description":"a","type":"daily"}`)
	createViaAPI(t, srv, `{"description":"b","type":"daily"}`)

	rec, env := doJSON(t, srv, http.MethodGet, "/api/v1/decisions", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	assert.Len(t, env.Data.([]any), 2)
}

func TestListDecisions_StatusFilter(t *testing.T) {
	srv := newTestServer(t)
	id := createViaAPI(t, srv, `{"description":"a","type":"daily"}`)
	createViaAPI(t, srv, `{"description":"b","type":"daily"}`)

	_, env := doJSON(t, srv, http.MethodPost, "/api/v1/decisions/"+id+"/status", `{"status":"in_progress"}`)
	require.True(t, env.Success)

	_, env = doJSON(t, srv, http.MethodGet, "/api/v1/decisions?status=in_progress", "")
	require.True(t, env.Success)
	assert.Len(t, env.Data.([]any), 1)
}

func TestListDecisions_InvalidParams(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := doJSON(t, srv, http.MethodGet, "/api/v1/decisions?days=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, srv, http.MethodGet, "/api/v1/decisions?status=done", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatus(t *testing.T) {
	srv := newTestServer(t)
	id := createViaAPI(t, srv, `{"description":"x","type":"daily"}`)

	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/decisions/"+id+"/status",
		`{"status":"accepted","note":"went ahead"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	data := env.Data.(map[string]any)
	assert.Equal(t, "accepted", data["outcome"])

	history := data["status_history"].([]any)
	require.Len(t, history, 1)
	entry := history[0].(map[string]any)
	assert.Equal(t, "pending", entry["from_status"])
	assert.Equal(t, "accepted", entry["to_status"])
	assert.Equal(t, "went ahead", entry["note"])
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	srv := newTestServer(t)
	id := createViaAPI(t, srv, `{"description":"x","type":"daily"}`)

	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/decisions/"+id+"/status", `{"status":"done"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestComplete(t *testing.T) {
	srv := newTestServer(t)
	id := createViaAPI(t, srv, `{"description":"x","type":"daily"}`)

	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/decisions/"+id+"/complete",
		`{"result":"success","final_outcome":"worked out","lessons":"start earlier"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	data := env.Data.(map[string]any)
	assert.Equal(t, "completed", data["outcome"])
	assert.Equal(t, "success", data["result"])
	assert.Equal(t, "worked out", data["final_outcome"])
	assert.Equal(t, "start earlier", data["lessons_learned"])
	assert.NotEmpty(t, data["completed_at"])
}

func TestComplete_InvalidResult(t *testing.T) {
	srv := newTestServer(t)
	id := createViaAPI(t, srv, `{"description":"x","type":"daily"}`)

	rec, _ := doJSON(t, srv, http.MethodPost, "/api/v1/decisions/"+id+"/complete", `{"result":"ok"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComplete_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := doJSON(t, srv, http.MethodPost, "/api/v1/decisions/missing/complete", `{"result":"success"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStats(t *testing.T) {
	srv := newTestServer(t)
	createViaAPI(t, srv, `{"description":"x","type":"life_level"}`)
	createViaAPI(t, srv, `{"description":"y","type":"daily"}`)

	rec, env := doJSON(t, srv, http.MethodGet, "/api/v1/stats", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	data := env.Data.(map[string]any)
	assert.Equal(t, float64(2), data["total_decisions"])
	byType := data["by_type"].(map[string]any)
	assert.Equal(t, float64(1), byType["life_level"])
	assert.Equal(t, float64(1), byType["daily"])
}

func TestRiskCheck(t *testing.T) {
	srv := newTestServer(t)

	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/risk-check", `{"description":"我要结婚"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	data := env.Data.(map[string]any)
	assert.Equal(t, "high", data["risk_level"])
	assert.Equal(t, "life_level", data["decision_type_suggestion"])
	assert.NotEmpty(t, data["warnings"])
}

func TestRiskCheck_RequiresDescription(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := doJSON(t, srv, http.MethodPost, "/api/v1/risk-check", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPattern(t *testing.T) {
	srv := newTestServer(t)
	createViaAPI(t, srv, `{"description":"x","type":"daily"}`)

	rec, env := doJSON(t, srv, http.MethodGet, "/api/v1/patterns/multi_task", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	data := env.Data.(map[string]any)
	assert.Equal(t, "multi_task", data["pattern"])
	assert.NotEmpty(t, data["findings"])
}

func TestPattern_Unknown(t *testing.T) {
	srv := newTestServer(t)

	rec, env := doJSON(t, srv, http.MethodGet, "/api/v1/patterns/burnout", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "unknown analysis pattern")
}

func TestWeeklyReport(t *testing.T) {
	srv := newTestServer(t)
	createViaAPI(t, srv, `{"description":"本周决策","type":"important"}`)

	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/reports/weekly", `{"week":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	data := env.Data.(map[string]any)
	assert.Equal(t, float64(1), data["week"])
	assert.Equal(t, float64(1), data["decision_count"])
	assert.Contains(t, data["content"], "成长周报")
	assert.NotEmpty(t, data["path"])
}

func TestWeeklyReport_DefaultsWeek(t *testing.T) {
	srv := newTestServer(t)

	_, env := doJSON(t, srv, http.MethodPost, "/api/v1/reports/weekly", `{}`)
	require.True(t, env.Success)
	assert.Equal(t, float64(1), env.Data.(map[string]any)["week"])
}
