//go:build !integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andestravel/feerules/internal/catalog"
	"github.com/andestravel/feerules/internal/model"
	"github.com/andestravel/feerules/internal/store"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func testMuxStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "serve_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func matchableRule() model.Rule {
	return model.Rule{
		RuleID:         "R1",
		Airline:        "AR",
		RouteScope:     model.ScopeDomestic,
		Provider:       model.ProviderGDS,
		FareType:       model.FarePublic,
		FeeType:        model.FeePercentage,
		FeeValue:       12,
		Currency:       model.CurrencyARS,
		ExcludesGroups: []string{},
		Priority:       30,
		SourceTab:      "FEE v3",
		Status:         model.StatusOK,
	}
}

func TestBuildMux_HealthEndpoint(t *testing.T) {
	mux := buildMux(catalog.New(nil, "test"), testMuxStore(t), "test", 100, 100)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestBuildMux_Calculate(t *testing.T) {
	cat := catalog.New([]model.Rule{matchableRule()}, "test")
	mux := buildMux(cat, testMuxStore(t), "test", 100, 100)

	payload := map[string]string{
		"group":       "G1",
		"provider":    "GDS",
		"fare_type":   "Pública",
		"airline":     "AR",
		"route_scope": "DOM",
		"trip_kind":   "*",
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/calculate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var result model.CalculationResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, "R1", result.BestRule.RuleID)
	assert.Len(t, result.MatchingRules, 1)
}

func TestBuildMux_CalculateFallsBackToDefault(t *testing.T) {
	mux := buildMux(catalog.New(nil, "test"), testMuxStore(t), "test", 100, 100)

	req := httptest.NewRequest(http.MethodPost, "/calculate", bytes.NewReader([]byte(`{}`)))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var result model.CalculationResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, model.DefaultRuleID, result.BestRule.RuleID)
	assert.Empty(t, result.MatchingRules)
}

func TestBuildMux_CalculateBadBody(t *testing.T) {
	mux := buildMux(catalog.New(nil, "test"), testMuxStore(t), "test", 100, 100)

	req := httptest.NewRequest(http.MethodPost, "/calculate", bytes.NewReader([]byte(`{not json`)))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBuildMux_ReloadPublishesNewSnapshot(t *testing.T) {
	st := testMuxStore(t)
	cat := catalog.New(nil, "test")
	mux := buildMux(cat, st, "test", 100, 100)

	require.NoError(t, st.ReplaceRules(context.Background(), []model.Rule{matchableRule()}, "reload.xlsx"))

	req := httptest.NewRequest(http.MethodPost, "/reload", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, cat.Rules(), 1)

	req = httptest.NewRequest(http.MethodGet, "/rules", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Rules []model.Rule `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Rules, 1)
	assert.Equal(t, "R1", body.Rules[0].RuleID)
}

func TestBuildMux_Imports(t *testing.T) {
	st := testMuxStore(t)
	require.NoError(t, st.ReplaceRules(context.Background(), nil, "one.csv"))
	mux := buildMux(catalog.New(nil, "test"), st, "test", 100, 100)

	req := httptest.NewRequest(http.MethodGet, "/imports", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var imports []store.ImportRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &imports))
	require.Len(t, imports, 1)
	assert.Equal(t, "one.csv", imports[0].Source)
}

func TestBuildMux_RateLimit(t *testing.T) {
	mux := buildMux(catalog.New(nil, "test"), testMuxStore(t), "test", 0, 1)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}
