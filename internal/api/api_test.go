// internal/api/api_test.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenmatch/internal/common/config"
	cerrors "greenmatch/internal/common/errors"
	"greenmatch/internal/common/logger"
	"greenmatch/internal/common/ratelimit"
	"greenmatch/internal/models"
	"greenmatch/internal/store"
)

type fakeMatcher struct {
	resp *models.MatchResponse
	err  error
}

func (f *fakeMatcher) FindMatches(ctx context.Context, sourceType models.EntityType, sourceID string, filters models.MatchFilters) (*models.MatchResponse, error) {
	return f.resp, f.err
}

type fakeChecker struct {
	report    *models.HealthCheckResult
	runErr    error
	getErr    error
	sessionID string
}

func (f *fakeChecker) Run(ctx context.Context, input *models.ProjectHealthCheckInput, sessionID string) (*models.HealthCheckResult, error) {
	f.sessionID = sessionID
	return f.report, f.runErr
}

func (f *fakeChecker) GetReport(ctx context.Context, reportID string) (*models.HealthCheckResult, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.report, nil
}

type fakeGrid struct{ resp *models.GridEstimateResponse }

func (f *fakeGrid) Estimate(ctx context.Context, input models.GridEstimateInput) (*models.GridEstimateResponse, error) {
	return f.resp, nil
}

type fakePolicy struct{ resp *models.PolicyGuidanceResponse }

func (f *fakePolicy) Guide(ctx context.Context, input models.PolicyGuidanceInput) (*models.PolicyGuidanceResponse, error) {
	return f.resp, nil
}

type fakeSearcher struct {
	hits  []store.DirectoryHit
	total int
	err   error
}

func (f *fakeSearcher) Search(ctx context.Context, q store.DirectoryQuery) ([]store.DirectoryHit, int, error) {
	return f.hits, f.total, f.err
}

type testDeps struct {
	matcher  *fakeMatcher
	checker  *fakeChecker
	grid     *fakeGrid
	policy   *fakePolicy
	searcher *fakeSearcher
}

func newTestRouter(t *testing.T, deps testDeps, gate *ratelimit.Gate) http.Handler {
	t.Helper()
	if deps.matcher == nil {
		deps.matcher = &fakeMatcher{resp: &models.MatchResponse{Matches: []models.MatchResult{}}}
	}
	if deps.checker == nil {
		deps.checker = &fakeChecker{report: &models.HealthCheckResult{ReportID: "HC-1-abcdefghi"}}
	}
	if deps.grid == nil {
		deps.grid = &fakeGrid{resp: &models.GridEstimateResponse{EstimatedMonthsMin: 6, EstimatedMonthsMax: 12}}
	}
	if deps.policy == nil {
		deps.policy = &fakePolicy{resp: &models.PolicyGuidanceResponse{Answer: "Check the regulator."}}
	}
	if deps.searcher == nil {
		deps.searcher = &fakeSearcher{}
	}
	h := NewHandlers(deps.matcher, deps.checker, deps.grid, deps.policy, deps.searcher, logger.NewNoOpLogger())
	return NewRouter(h, gate, logger.NewNoOpLogger(), nil)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestFindMatchesEndpoint(t *testing.T) {
	matcher := &fakeMatcher{resp: &models.MatchResponse{
		Matches:    []models.MatchResult{{ID: "i1", Name: "Green Capital", Score: 91}},
		Disclaimer: "indicative",
	}}
	router := newTestRouter(t, testDeps{matcher: matcher}, nil)

	w := doJSON(t, router, http.MethodPost, "/api/matches/find",
		`{"sourceType": "project", "sourceId": "p1", "filters": {"countries": ["DE"]}}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.MatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, 91, resp.Matches[0].Score)
}

func TestFindMatchesEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing body fields", `{}`, nil, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"unknown source", `{"sourceType": "project", "sourceId": "nope"}`,
			cerrors.NewEntityNotFoundError("projects", "nope"), http.StatusNotFound, "ENTITY_NOT_FOUND"},
		{"bad source type", `{"sourceType": "company", "sourceId": "x"}`,
			cerrors.NewInvalidSourceTypeError("company"), http.StatusBadRequest, "INVALID_SOURCE_TYPE"},
		{"embedding outage", `{"sourceType": "project", "sourceId": "p1"}`,
			cerrors.NewEmbeddingFailedError(assert.AnError), http.StatusServiceUnavailable, "EMBEDDING_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, testDeps{matcher: &fakeMatcher{err: tt.err}}, nil)
			w := doJSON(t, router, http.MethodPost, "/api/matches/find", tt.body, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestHealthCheckEndpointThreadsSession(t *testing.T) {
	checker := &fakeChecker{report: &models.HealthCheckResult{ReportID: "HC-1-abcdefghi", OverallScore: 72}}
	router := newTestRouter(t, testDeps{checker: checker}, nil)

	w := doJSON(t, router, http.MethodPost, "/api/health-check",
		`{"technology": "Solar", "country": "DE"}`, map[string]string{"X-Session-Id": "sess-9"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-9", checker.sessionID)

	// No header still yields a non-empty identifier.
	w = doJSON(t, router, http.MethodPost, "/api/health-check", `{"technology": "Solar"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, checker.sessionID)
}

func TestHealthCheckEndpointUpstreamFault(t *testing.T) {
	checker := &fakeChecker{runErr: cerrors.NewAIUnavailableError(assert.AnError)}
	router := newTestRouter(t, testDeps{checker: checker}, nil)

	w := doJSON(t, router, http.MethodPost, "/api/health-check", `{"technology": "Solar"}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetReportEndpoint(t *testing.T) {
	checker := &fakeChecker{report: &models.HealthCheckResult{ReportID: "HC-1-abcdefghi"}}
	router := newTestRouter(t, testDeps{checker: checker}, nil)

	w := doJSON(t, router, http.MethodGet, "/api/health-check/HC-1-abcdefghi", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	checker.getErr = cerrors.NewReportNotFoundError("HC-1-zzzzzzzzz")
	w = doJSON(t, router, http.MethodGet, "/api/health-check/HC-1-zzzzzzzzz", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	checker.getErr = cerrors.NewInvalidReportIDError("garbage")
	w = doJSON(t, router, http.MethodGet, "/api/health-check/garbage", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGridEstimateEndpoint(t *testing.T) {
	router := newTestRouter(t, testDeps{}, nil)
	w := doJSON(t, router, http.MethodPost, "/api/grid-estimate",
		`{"country": "DE", "sizeMw": 50, "interconnectionType": "distribution"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.GridEstimateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.EstimatedMonthsMin)
}

func TestPolicyGuidanceEndpoint(t *testing.T) {
	router := newTestRouter(t, testDeps{}, nil)
	w := doJSON(t, router, http.MethodPost, "/api/policy-guidance",
		`{"country": "ES", "question": "Active auctions?"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.PolicyGuidanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Answer)
}

func TestDirectorySearchEndpoint(t *testing.T) {
	searcher := &fakeSearcher{
		hits:  []store.DirectoryHit{{ID: "p1", Name: "Solar Park", EntityType: "project"}},
		total: 1,
	}
	router := newTestRouter(t, testDeps{searcher: searcher}, nil)

	w := doJSON(t, router, http.MethodGet, "/api/directory/search?q=solar&type=project", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Results []store.DirectoryHit `json:"results"`
		Total   int                  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "Solar Park", body.Results[0].Name)
}

func TestHealthzEndpoint(t *testing.T) {
	router := newTestRouter(t, testDeps{}, nil)
	w := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	gate := ratelimit.NewGate(
		redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		config.RateLimitConfig{Enabled: true, MaxRequests: 2, WindowSeconds: 60},
		logger.NewNoOpLogger(),
	)
	router := newTestRouter(t, testDeps{}, gate)

	body := `{"country": "DE", "sizeMw": 50}`
	for i := 0; i < 2; i++ {
		w := doJSON(t, router, http.MethodPost, "/api/grid-estimate", body, nil)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)
	}

	w := doJSON(t, router, http.MethodPost, "/api/grid-estimate", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Probes bypass the gate.
	w = doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
