package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"minesite-model/internal/api/models"
	"minesite-model/internal/config"
	"minesite-model/internal/data"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	assume := config.DefaultAssumptions()
	provider := data.NewProvider(data.NewLiveClient(), assume)

	projections := NewProjectionHandler(provider, assume)
	scenarios := NewScenarioHandler(assume)
	forecasts := NewForecastHandler(provider, assume)

	r := gin.New()
	r.POST("/api/v1/projections", projections.RunProjection)
	r.GET("/api/v1/projections/:id/years", projections.GetYears)
	r.POST("/api/v1/projections/compare", projections.CompareProjections)
	r.GET("/api/v1/scenarios", scenarios.ListScenarios)
	r.POST("/api/v1/forecast/monthly", forecasts.RunMonthly)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRunProjectionSynthetic(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/projections", `{
		"synthetic": true,
		"total_capex_gbp": 100000,
		"options": {"include_years": true}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ProjectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.ResultID)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "static-fallback", resp.Snapshot.Source)
	assert.Nil(t, resp.SiteMetrics)
	assert.Empty(t, resp.Errors)

	require.Len(t, resp.Results, 3)
	assert.Equal(t, "base", resp.Results[0].Name)
	assert.Equal(t, "best", resp.Results[1].Name)
	assert.Equal(t, "worst", resp.Results[2].Name)
	assert.Len(t, resp.Results[0].Years, 4)
	assert.Greater(t, resp.Results[0].TotalRevenueGBP, 0.0)
}

func TestRunProjectionSiteWithModelCapex(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/projections", `{
		"miner": {"name": "Antminer S21", "hashrate_th": 200, "power_w": 3500, "price_usd": 3500},
		"site": {"power_kw": 1000, "electricity_gbp_per_kwh": 0.15, "uptime_pct": 95, "cooling_overhead_pct": 10, "project_years": 4},
		"use_model_capex": true
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ProjectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.NotNil(t, resp.SiteMetrics)
	assert.Equal(t, 259, resp.SiteMetrics.AsicsSupported)

	require.NotNil(t, resp.Capex)
	assert.Equal(t, 259, resp.Capex.AsicCount)
	assert.Greater(t, resp.Capex.TotalGBP, 0.0)

	require.Len(t, resp.Results, 3)
	for _, res := range resp.Results {
		assert.InDelta(t, resp.Capex.TotalGBP, res.TotalCapexGBP, 1e-9)
		assert.Empty(t, res.Years) // include_years not set
	}
}

func TestRunProjectionScenarioSubset(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/projections", `{
		"synthetic": true,
		"scenarios": ["worst"]
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ProjectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "worst", resp.Results[0].Name)
}

func TestRunProjectionRejectsUnknownScenario(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/projections", `{
		"synthetic": true,
		"scenarios": ["median"]
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "median")
}

func TestRunProjectionRequiresMinerOrSynthetic(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/projections", `{
		"site": {"power_kw": 1000, "electricity_gbp_per_kwh": 0.15, "uptime_pct": 95}
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestRunProjectionRejectsBadClientShare(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/projections", `{
		"synthetic": true,
		"client_share_pct": 150
	}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_CONFIG", resp.Error.Code)
}

func TestGetYearsRoundTrip(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/projections", `{"synthetic": true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ProjectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = doJSON(t, r, http.MethodGet, "/api/v1/projections/"+resp.ResultID+"/years", "")
	require.Equal(t, http.StatusOK, w.Code)

	var years models.YearsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &years))
	assert.Equal(t, resp.ResultID, years.ResultID)
	require.Contains(t, years.Years, "base")
	assert.Len(t, years.Years["base"], 4)
}

func TestGetYearsUnknownID(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/projections/no-such-id/years", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "RESULT_NOT_FOUND", resp.Error.Code)
}

func TestCompareProjections(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/projections/compare", `{
		"synthetic": true,
		"total_capex_gbp": 50000,
		"scenarios": [
			{"name": "bull", "params": {"price_pct": 30}},
			{"name": "broken", "params": {"volume_pct": 1}}
		]
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Comparison, 2)

	bull := resp.Comparison[0]
	assert.Equal(t, "bull", bull.Name)
	require.NotNil(t, bull.Result)
	assert.Nil(t, bull.Error)
	assert.Greater(t, bull.Result.TotalRevenueGBP, 0.0)

	broken := resp.Comparison[1]
	assert.Equal(t, "broken", broken.Name)
	assert.Nil(t, broken.Result)
	require.NotNil(t, broken.Error)
	assert.Equal(t, "INVALID_CONFIG", broken.Error.Code)
	assert.Contains(t, broken.Error.Message, "volume_pct")
}

func TestCompareRequiresScenarios(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/projections/compare", `{"synthetic": true, "scenarios": []}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListScenarios(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/scenarios", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Scenarios []models.ScenarioInfo `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Scenarios, 3)
	assert.Equal(t, "base", resp.Scenarios[0].Name)
	assert.Equal(t, 0.90, resp.Scenarios[0].ClientRevenueShare)
	assert.Equal(t, 0.20, resp.Scenarios[1].PricePct)
	assert.Equal(t, -0.20, resp.Scenarios[2].PricePct)
}

func TestListMiners(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "s21.yaml"), []byte(
		"miner:\n  name: Antminer S21\n  hashrate_th: 200\n  power_w: 3500\n  price_usd: 3500\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))
	t.Setenv("MINER_DIR", dir)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/miners", NewMinerHandler().ListMiners)

	w := doJSON(t, r, http.MethodGet, "/api/v1/miners", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Miners []models.MinerInfo `json:"miners"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Miners, 1)
	assert.Equal(t, "s21", resp.Miners[0].ID)
	assert.Equal(t, "Antminer S21", resp.Miners[0].Name)
	assert.Equal(t, 200.0, resp.Miners[0].Specs.HashrateTH)
	require.NotNil(t, resp.Miners[0].Specs.PriceUSD)
	assert.Equal(t, 3500.0, *resp.Miners[0].Specs.PriceUSD)
}

func TestForecastMonthlyDirectProduction(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/forecast/monthly", `{
		"site_btc_per_day": 0.1,
		"start_month": "2026-01",
		"years": 1,
		"with_fiat": true
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ForecastResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Months, 12)
	assert.Equal(t, "2026-01", resp.Months[0].Month)
	assert.Equal(t, 3.125, resp.Months[0].SubsidyBTC)

	sum := 0.0
	for _, m := range resp.Months {
		sum += m.BTCMined
	}
	assert.InDelta(t, sum, resp.TotalBTC, 1e-9)

	require.Len(t, resp.Annual, 1)
	assert.Equal(t, 2026, resp.Annual[0].Year)
	assert.InDelta(t, resp.TotalBTC, resp.Annual[0].BTCMined, 1e-9)

	require.Len(t, resp.Fiat, 12)
	assert.Equal(t, 90000.0, resp.Fiat[0].BTCPriceUSD)
	assert.Greater(t, resp.Fiat[0].RevenueGBP, 0.0)
}

func TestForecastMonthlyRequiresProductionSource(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/forecast/monthly", `{"years": 2}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}
