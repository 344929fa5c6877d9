// Package e2e exercises the full generation pipeline through the HTTP API
// with in-process stand-ins for PostgreSQL, Redis, Elasticsearch, and the
// Bedrock agent.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"team-builder/internal/api"
	"team-builder/internal/common/aws"
	"team-builder/internal/common/logger"
	"team-builder/internal/models"
	"team-builder/internal/session"
	"team-builder/internal/teambuilder"

	ia "team-builder/internal/tasks/ai/invoke-agent"
	qp "team-builder/internal/tasks/data-access/query-players"
	sp "team-builder/internal/tasks/data-access/search-players"
	sn "team-builder/internal/tasks/notify/send-notification"
	bp "team-builder/internal/tasks/team/build-prompt"
	vc "team-builder/internal/tasks/team/validate-constraints"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==========================
// Stand-ins
// ==========================

type fakeAgentInvoker struct {
	response   *aws.AgentResponse
	lastPrompt string
}

func (f *fakeAgentInvoker) InvokeAgent(ctx context.Context, sessionID, prompt string) (*aws.AgentResponse, error) {
	f.lastPrompt = prompt
	return f.response, nil
}

type fakeNotifier struct {
	called bool
}

func (f *fakeNotifier) Execute(ctx context.Context, input *sn.Input) (*sn.Output, error) {
	f.called = true
	return &sn.Output{Status: sn.StatusSent}, nil
}

type esTransport struct {
	body string
}

func (t *esTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"X-Elastic-Product": []string{"Elasticsearch"}},
		Body:       io.NopCloser(strings.NewReader(t.body)),
	}, nil
}

var playerColumns = []string{
	"player", "org", "rds", "average_combat_score", "kill_deaths",
	"average_damage_per_round", "kills_per_round", "assists_per_round",
	"first_kills_per_round", "first_deaths_per_round", "headshot_percentage",
	"clutch_success_percentage", "clutch_won_played", "total_kills", "total_deaths",
	"total_assists", "total_first_kills", "total_first_deaths", "map_id", "agent", "region",
}

func addPlayerRow(rows *sqlmock.Rows, name, org, agent, region string) *sqlmock.Rows {
	return rows.AddRow(
		name, org, 120, 245.3, 1.15,
		156.2, 0.85, 0.32,
		0.18, 0.12, 28.5,
		22.0, 0.45, 102, 89,
		38, 22, 14, "map-7", agent, region,
	)
}

// ==========================
// Fixture
// ==========================

type stack struct {
	router   *gin.Engine
	dbMock   sqlmock.Sqlmock
	agent    *fakeAgentInvoker
	notifier *fakeNotifier
}

func createStack(t *testing.T) *stack {
	log := logger.NewZapAdapter(zaptest.NewLogger(t))

	db, dbMock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionStore := session.NewStore(redisClient, time.Hour, log)

	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Transport: &esTransport{body: `{
			"took": 3,
			"hits": {
				"total": {"value": 1},
				"max_score": 2.4,
				"hits": [{"_score": 2.4, "_source": {"player": "TenZ", "org": "Ascend", "agent": "Jett", "region": "NA"}}]
			}
		}`},
	})
	require.NoError(t, err)

	agent := &fakeAgentInvoker{response: &aws.AgentResponse{
		Completion: "Team Alpha: TenZ on Jett, ShahZaM on Sova.",
		Citations:  []models.Citation{json.RawMessage(`{"ref":"s3://stats/players.csv"}`)},
		Trace: []models.TraceEvent{
			{Phase: models.TracePhaseOrchestration, Type: "rationale", TraceID: "t1"},
		},
	}}
	notifier := &fakeNotifier{}

	hub := api.NewProgressHub(log)
	service := teambuilder.NewService(
		qp.NewHandler(&qp.Config{Timeout: 5 * time.Second}, db, log),
		vc.NewHandler(vc.LoadConfig(), log),
		bp.NewHandler(log),
		ia.NewHandler(&ia.Config{Timeout: 5 * time.Second, MaxRetries: 1}, agent, log),
		notifier,
		sessionStore,
		hub,
		nil,
		log,
	)

	searchHandler := sp.NewHandler(&sp.Config{Timeout: 5 * time.Second, Index: "players", Size: 20}, esClient, log)
	handler := api.NewHandler(service, sessionStore, searchHandler, hub, log)
	router := api.SetupRouter(handler, map[string]api.HealthChecker{
		"redis": func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	}, log)

	return &stack{router: router, dbMock: dbMock, agent: agent, notifier: notifier}
}

func (s *stack) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func data(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return d
}

// ==========================
// Scenarios
// ==========================

func TestGenerateTeamEndToEnd(t *testing.T) {
	s := createStack(t)

	// Create a session
	w := s.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	sessionID := data(t, w)["id"].(string)
	require.NotEmpty(t, sessionID)

	// Roster query hits PostgreSQL
	rows := sqlmock.NewRows(playerColumns)
	rows = addPlayerRow(rows, "TenZ", "Ascend", "Jett", "NA")
	rows = addPlayerRow(rows, "ShahZaM", "Mystic", "Sova", "NA")
	s.dbMock.ExpectQuery(`SELECT (.+) FROM players\s+WHERE org IN`).WillReturnRows(rows)

	// Generate
	w = s.do(t, http.MethodPost, "/api/teams/generate", map[string]interface{}{
		"sessionId": sessionID,
		"teamType":  "Professional Team Submission",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := data(t, w)
	assert.Equal(t, "Team Alpha: TenZ on Jett, ShahZaM on Sova.", result["composition"])
	assert.Equal(t, sessionID, result["sessionId"])

	// The agent received the assembled prompt
	assert.True(t, strings.HasPrefix(s.agent.lastPrompt,
		"Build a team for a VALORANT esports team based on the following player data:\n\n"))
	assert.Contains(t, s.agent.lastPrompt, "Player Name: TenZ\n")
	assert.Contains(t, s.agent.lastPrompt, "Team Submission Type: Professional Team Submission\n")

	assert.True(t, s.notifier.called)
	assert.NoError(t, s.dbMock.ExpectationsWereMet())

	// Conversation was persisted
	w = s.do(t, http.MethodGet, "/api/sessions/"+sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sess := data(t, w)
	messages := sess["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].(map[string]interface{})["role"])
	assert.Equal(t, "agent", messages[1].(map[string]interface{})["role"])

	// Trace is grouped into steps
	w = s.do(t, http.MethodGet, "/api/sessions/"+sessionID+"/trace", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var traceBody map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &traceBody))
	steps := traceBody["data"].([]interface{})
	require.Len(t, steps, 1)
	assert.Equal(t, "Orchestration", steps[0].(map[string]interface{})["phase"])

	// Citations are returned raw
	w = s.do(t, http.MethodGet, "/api/sessions/"+sessionID+"/citations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var citationsBody map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &citationsBody))
	assert.Len(t, citationsBody["data"].([]interface{}), 1)
}

func TestGenerateTeamEndToEnd_EmptyRoster(t *testing.T) {
	s := createStack(t)

	w := s.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	sessionID := data(t, w)["id"].(string)

	s.dbMock.ExpectQuery(`SELECT (.+) FROM players\s+WHERE org = 'Rising'`).
		WillReturnRows(sqlmock.NewRows(playerColumns))

	w = s.do(t, http.MethodPost, "/api/teams/generate", map[string]interface{}{
		"sessionId": sessionID,
		"teamType":  "Rising Star Team Submission",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ROSTER_EMPTY")
	assert.False(t, s.notifier.called)
}

func TestGenerateTeamEndToEnd_CrossRegionalConstraint(t *testing.T) {
	s := createStack(t)

	w := s.do(t, http.MethodPost, "/api/sessions", nil)
	sessionID := data(t, w)["id"].(string)

	// Three players but only two distinct regions
	rows := sqlmock.NewRows(playerColumns)
	rows = addPlayerRow(rows, "Viper1", "T1A", "Viper", "Japan")
	rows = addPlayerRow(rows, "Viper2", "T1A", "Viper", "japan")
	rows = addPlayerRow(rows, "Viper3", "T1A", "Viper", "Russia")
	s.dbMock.ExpectQuery(`SELECT (.+) FROM players\s+WHERE region IN`).WillReturnRows(rows)

	w = s.do(t, http.MethodPost, "/api/teams/generate", map[string]interface{}{
		"sessionId": sessionID,
		"teamType":  "Cross-Regional Team Submission",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "CONSTRAINT_VIOLATION")
}

func TestSearchPlayersEndToEnd(t *testing.T) {
	s := createStack(t)

	w := s.do(t, http.MethodGet, "/api/players/search?q=tenz", nil)

	require.Equal(t, http.StatusOK, w.Code)
	result := data(t, w)
	assert.Equal(t, float64(1), result["totalHits"])
	players := result["players"].([]interface{})
	require.Len(t, players, 1)
	assert.Equal(t, "TenZ", players[0].(map[string]interface{})["player"])
}
