package handlers

import (
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"minesite-model/internal/api/models"
	"minesite-model/internal/capex"
	"minesite-model/internal/config"
	"minesite-model/internal/data"
	"minesite-model/internal/forecast"
	"minesite-model/internal/mining"
	"minesite-model/internal/model"
	"minesite-model/internal/scenario"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// resultTTL bounds how long per-year detail stays fetchable after a run.
const resultTTL = 1 * time.Hour

// ProjectionHandler handles projection-related requests
type ProjectionHandler struct {
	provider *data.Provider
	assume   config.Assumptions
	engine   *scenario.Engine
	minerDir string
	results  *gocache.Cache
}

// NewProjectionHandler creates a new projection handler
func NewProjectionHandler(provider *data.Provider, assume config.Assumptions) *ProjectionHandler {
	return &ProjectionHandler{
		provider: provider,
		assume:   assume,
		engine:   scenario.New(assume.USDToGBP, assume.CorporationTaxRate),
		minerDir: resolveMinerDir(),
		results:  gocache.New(resultTTL, resultTTL),
	}
}

// resolveMinerDir returns the miner catalogue directory (MINER_DIR env or ./miners)
func resolveMinerDir() string {
	dir := os.Getenv("MINER_DIR")
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = filepath.Join(wd, "miners")
		} else {
			dir = "./miners"
		}
	}
	if absDir, err := filepath.Abs(dir); err == nil {
		dir = absDir
	}
	return dir
}

// RunProjection handles POST /api/v1/projections
func (h *ProjectionHandler) RunProjection(c *gin.Context) {
	var req models.ProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	snap, source := h.resolveSnapshot(req.Options.UseLiveData)

	in, errResp := h.buildInputs(projectionInputs{
		MinerFile:      req.MinerFile,
		Miner:          req.Miner,
		Site:           req.Site,
		Synthetic:      req.Synthetic,
		TotalCapexGBP:  req.TotalCapexGBP,
		UseModelCapex:  req.UseModelCapex,
		ClientSharePct: req.ClientSharePct,
		UseForecast:    req.Options.UseForecast,
	}, snap)
	if errResp != nil {
		c.JSON(errResp.status, errResp.body)
		return
	}

	configs := scenario.DefaultScenarios(h.assume.ScenarioDefaults(), in.shareOverride)
	configs, err := filterScenarios(configs, req.Scenarios)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
				Details: map[string]interface{}{"valid_scenarios": []string{"base", "best", "worst"}},
			},
		})
		return
	}

	results, errs := h.engine.RunAll(in.baseYears, configs, in.totalCapexGBP, snap.USDToGBP)

	resultID := uuid.New().String()
	h.results.Set(resultID, results, gocache.DefaultExpiration)
	log.Printf("ProjectionHandler: Run %s completed (%d scenarios, %d errors, source=%s)",
		resultID, len(results), len(errs), source)

	response := models.ProjectionResponse{
		ResultID:    resultID,
		Status:      "completed",
		Snapshot:    toSnapshotInfo(snap, source),
		SiteMetrics: in.metricsInfo,
		Capex:       in.capexInfo,
		Results:     make([]models.ScenarioResult, 0, len(results)),
	}
	for _, name := range orderedScenarioNames(results) {
		response.Results = append(response.Results, toScenarioResult(results[name], req.Options.IncludeYears))
	}
	if len(errs) > 0 {
		response.Errors = make(map[string]string, len(errs))
		for name, runErr := range errs {
			response.Errors[name] = runErr.Error()
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetYears handles GET /api/v1/projections/:id/years
func (h *ProjectionHandler) GetYears(c *gin.Context) {
	id := c.Param("id")

	stored, found := h.results.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "RESULT_NOT_FOUND",
				Message: fmt.Sprintf("no stored projection with id %q (results expire after %s)", id, resultTTL),
			},
		})
		return
	}

	results, ok := stored.(map[string]*scenario.Result)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: "stored result has unexpected shape",
			},
		})
		return
	}

	years := make(map[string][]models.YearRow, len(results))
	for name, res := range results {
		years[name] = toYearRows(res.Years)
	}
	c.JSON(http.StatusOK, models.YearsResponse{ResultID: id, Years: years})
}

// CompareProjections handles POST /api/v1/projections/compare
func (h *ProjectionHandler) CompareProjections(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}
	if len(req.Scenarios) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: "at least one scenario is required",
			},
		})
		return
	}

	snap, _ := h.resolveSnapshot(req.Options.UseLiveData)

	in, errResp := h.buildInputs(projectionInputs{
		MinerFile:      req.MinerFile,
		Miner:          req.Miner,
		Site:           req.Site,
		Synthetic:      req.Synthetic,
		TotalCapexGBP:  req.TotalCapexGBP,
		UseModelCapex:  req.UseModelCapex,
		ClientSharePct: req.ClientSharePct,
		UseForecast:    req.Options.UseForecast,
	}, snap)
	if errResp != nil {
		c.JSON(errResp.status, errResp.body)
		return
	}

	defaultShare := h.assume.ClientRevenueShare
	if in.shareOverride != nil {
		defaultShare = *in.shareOverride
	}

	// One bad scenario never blocks its siblings; it gets an error slot.
	comparison := make([]models.ComparisonSlot, 0, len(req.Scenarios))
	for _, spec := range req.Scenarios {
		slot := models.ComparisonSlot{Name: spec.Name}

		cfg, err := config.ScenarioSpec{Name: spec.Name, Params: spec.Params}.ToScenarioConfig(defaultShare)
		if err != nil {
			slot.Error = &models.ErrorDetail{Code: "INVALID_CONFIG", Message: err.Error()}
			comparison = append(comparison, slot)
			continue
		}

		res, err := h.engine.Run(spec.Name, in.baseYears, cfg, in.totalCapexGBP, snap.USDToGBP)
		if err != nil {
			slot.Error = &models.ErrorDetail{Code: "INVALID_CONFIG", Message: err.Error()}
			comparison = append(comparison, slot)
			continue
		}

		result := toScenarioResult(res, req.Options.IncludeYears)
		slot.Result = &result
		comparison = append(comparison, slot)
	}

	c.JSON(http.StatusOK, models.CompareResponse{Comparison: comparison})
}

// projectionInputs is the request surface shared by run and compare.
type projectionInputs struct {
	MinerFile      string
	Miner          *models.MinerConfig
	Site           *models.SiteConfig
	Synthetic      bool
	TotalCapexGBP  float64
	UseModelCapex  bool
	ClientSharePct *float64
	UseForecast    bool
}

// resolvedInputs carries everything the engine needs plus the response
// fragments derived along the way.
type resolvedInputs struct {
	baseYears     []scenario.AnnualBaseEconomics
	totalCapexGBP float64
	shareOverride *float64
	metricsInfo   *models.SiteMetricsInfo
	capexInfo     *models.CapexInfo
}

type errorResponse struct {
	status int
	body   models.ErrorResponse
}

func (h *ProjectionHandler) resolveSnapshot(useLive bool) (model.NetworkSnapshot, string) {
	if useLive {
		snap, source := h.provider.Snapshot()
		return snap, string(source)
	}
	return h.provider.Static(), string(data.SourceStatic)
}

func (h *ProjectionHandler) buildInputs(req projectionInputs, snap model.NetworkSnapshot) (*resolvedInputs, *errorResponse) {
	in := &resolvedInputs{totalCapexGBP: req.TotalCapexGBP}

	if req.ClientSharePct != nil {
		pct := *req.ClientSharePct
		if pct < 0 || pct > 100 {
			return nil, invalidConfig(fmt.Sprintf("client_share_pct %.2f must be within [0, 100]", pct))
		}
		share := pct / 100.0
		in.shareOverride = &share
	}

	projectYears := h.assume.FallbackProjectYears
	if req.Site != nil && req.Site.ProjectYears > 0 {
		projectYears = req.Site.ProjectYears
	}

	if req.Synthetic {
		// No site to size, so use_model_capex has nothing to work from;
		// the stated capex (possibly zero) stands.
		in.baseYears = scenario.SyntheticBaseYears(projectYears, snap.BTCPriceUSD, snap.USDToGBP)
		return in, nil
	}

	miner, errResp := h.resolveMiner(req.MinerFile, req.Miner)
	if errResp != nil {
		return nil, errResp
	}

	if req.Site == nil {
		return nil, invalidRequest("site is required unless synthetic is set")
	}
	site := model.SiteSpec{
		PowerKW:              req.Site.PowerKW,
		ElectricityGBPPerKWh: req.Site.ElectricityGBPPerKWh,
		UptimePct:            req.Site.UptimePct,
		CoolingOverheadPct:   req.Site.CoolingOverheadPct,
		ProjectYears:         projectYears,
	}
	if err := site.Validate(); err != nil {
		return nil, invalidConfig(fmt.Sprintf("site config invalid: %v", err))
	}

	metrics := mining.ComputeSiteMetrics(miner, snap, site)
	metricsInfo := toSiteMetricsInfo(metrics)
	in.metricsInfo = &metricsInfo

	if req.UseForecast {
		rows := forecast.BuildMonthly(forecast.Params{
			SiteBTCPerDay:        metrics.SiteBTCPerDay,
			Start:                startOfMonth(time.Now().UTC()),
			ProjectYears:         projectYears,
			BaseSubsidyBTC:       snap.BlockSubsidyBTC,
			NextHalving:          h.assume.NextHalving,
			HalvingIntervalYears: h.assume.HalvingIntervalYears,
			BaseFeeBTCPerBlock:   h.assume.BaseFeePerBlockBTC,
		})
		in.baseYears = scenario.BaseYearsFromMonthlyForecast(rows, metrics, snap.BTCPriceUSD, snap.USDToGBP)
	} else {
		in.baseYears = scenario.BuildBaseYears(metrics, projectYears)
	}

	if req.UseModelCapex {
		minerPrice := 0.0
		if miner.PriceUSD != nil {
			minerPrice = *miner.PriceUSD
		}
		breakdown := capex.Compute(metrics.AsicsSupported, minerPrice, capex.DefaultCostModel(), snap.USDToGBP)
		capexInfo := toCapexInfo(breakdown)
		in.capexInfo = &capexInfo
		in.totalCapexGBP = breakdown.TotalGBP()
	}

	return in, nil
}

func (h *ProjectionHandler) resolveMiner(minerFile string, inline *models.MinerConfig) (model.MinerOption, *errorResponse) {
	if minerFile == "" && inline == nil {
		return model.MinerOption{}, invalidRequest("miner or miner_file is required unless synthetic is set")
	}

	var miner model.MinerOption
	if minerFile != "" {
		// miner_file is a catalogue id (filename without extension), always
		// looked up in the catalogue directory.
		path := filepath.Join(h.minerDir, minerFile+".yaml")
		loaded, err := config.LoadMinerFile(path)
		if err != nil {
			log.Printf("ProjectionHandler: Failed to load miner file %s: %v", path, err)
			return model.MinerOption{}, invalidRequest(fmt.Sprintf("unknown miner_file %q", minerFile))
		}
		miner = loaded
	}

	if inline != nil {
		miner = config.MergeMiner(miner, model.MinerOption{
			Name:             inline.Name,
			HashrateTH:       inline.HashrateTH,
			PowerW:           inline.PowerW,
			EfficiencyJPerTH: inline.EfficiencyJPerTH,
			Supplier:         inline.Supplier,
			PriceUSD:         inline.PriceUSD,
		})
	}

	if miner.Name == "" {
		miner.Name = "custom"
	}
	if err := miner.Validate(); err != nil {
		return model.MinerOption{}, invalidConfig(fmt.Sprintf("miner config invalid: %v", err))
	}
	return miner, nil
}

func invalidRequest(msg string) *errorResponse {
	return &errorResponse{
		status: http.StatusBadRequest,
		body: models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: msg},
		},
	}
}

func invalidConfig(msg string) *errorResponse {
	return &errorResponse{
		status: http.StatusBadRequest,
		body: models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_CONFIG", Message: msg},
		},
	}
}

// filterScenarios keeps only the named subset. Empty names keep everything.
func filterScenarios(configs map[string]scenario.ScenarioConfig, names []string) (map[string]scenario.ScenarioConfig, error) {
	if len(names) == 0 {
		return configs, nil
	}
	out := make(map[string]scenario.ScenarioConfig, len(names))
	for _, name := range names {
		cfg, ok := configs[name]
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q", name)
		}
		out[name] = cfg
	}
	return out, nil
}

// orderedScenarioNames yields the canonical trio first, extras alphabetical.
func orderedScenarioNames(results map[string]*scenario.Result) []string {
	canonical := []string{"base", "best", "worst"}
	names := make([]string, 0, len(results))
	seen := make(map[string]bool, len(results))
	for _, name := range canonical {
		if _, ok := results[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	rest := make([]string, 0, len(results))
	for name := range results {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Conversions to response models

func toSnapshotInfo(snap model.NetworkSnapshot, source string) models.SnapshotInfo {
	return models.SnapshotInfo{
		BTCPriceUSD:     snap.BTCPriceUSD,
		Difficulty:      snap.Difficulty,
		BlockSubsidyBTC: snap.BlockSubsidyBTC,
		USDToGBP:        snap.USDToGBP,
		BlockHeight:     snap.BlockHeight,
		AsOfUTC:         snap.AsOfUTC,
		Source:          source,
	}
}

func toSiteMetricsInfo(m mining.SiteMetrics) models.SiteMetricsInfo {
	return models.SiteMetricsInfo{
		AsicsSupported:          m.AsicsSupported,
		PowerPerAsicKW:          m.PowerPerAsicKW,
		SitePowerUsedKW:         m.SitePowerUsedKW,
		SitePowerAvailableKW:    m.SitePowerAvailableKW,
		SpareCapacityKW:         m.SpareCapacityKW,
		SiteBTCPerDay:           m.SiteBTCPerDay,
		SiteRevenueGBPPerDay:    m.SiteRevenueGBPPerDay,
		SitePowerCostGBPPerDay:  m.SitePowerCostGBPPerDay,
		SiteNetRevenueGBPPerDay: m.SiteNetRevenueGBPPerDay,
		Degenerate:              m.Degenerate,
	}
}

func toCapexInfo(b capex.Breakdown) models.CapexInfo {
	return models.CapexInfo{
		AsicCount:             b.AsicCount,
		AsicCostGBP:           b.AsicCostGBP,
		ShippingGBP:           b.ShippingGBP,
		ImportDutyGBP:         b.ImportDutyGBP,
		SparesGBP:             b.SparesGBP,
		RackingGBP:            b.RackingGBP,
		CablesGBP:             b.CablesGBP,
		SwitchgearGBP:         b.SwitchgearGBP,
		NetworkingGBP:         b.NetworkingGBP,
		InstallationLabourGBP: b.InstallationLabourGBP,
		CertificationGBP:      b.CertificationGBP,
		TotalGBP:              b.TotalGBP(),
	}
}

func toScenarioResult(res *scenario.Result, includeYears bool) models.ScenarioResult {
	out := models.ScenarioResult{
		Name: res.Config.Name,
		Config: models.ScenarioConfigInfo{
			Name:               res.Config.Name,
			PricePct:           res.Config.PricePct,
			DifficultyPct:      res.Config.DifficultyPct,
			ElectricityPct:     res.Config.ElectricityPct,
			ClientRevenueShare: res.Config.ClientRevenueShare,
		},
		TotalCapexGBP:           res.TotalCapexGBP,
		TotalBTC:                res.TotalBTC,
		TotalRevenueGBP:         res.TotalRevenueGBP,
		TotalOpexGBP:            res.TotalOpexGBP,
		TotalClientRevenueGBP:   res.TotalClientRevenueGBP,
		TotalOperatorRevenueGBP: res.TotalOperatorRevenueGBP,
		TotalClientTaxGBP:       res.TotalClientTaxGBP,
		TotalClientNetIncomeGBP: res.TotalClientNetIncomeGBP,
		AvgEBITDAMargin:         res.AvgEBITDAMargin,
		ClientROIMultiple:       res.ClientROIMultiple,
	}

	// The engine reports "never pays back" as +Inf; JSON gets null instead.
	if !math.IsInf(res.ClientPaybackYears, 1) {
		payback := res.ClientPaybackYears
		out.ClientPaybackYears = &payback
	}

	if includeYears {
		out.Years = toYearRows(res.Years)
	}
	return out
}

func toYearRows(years []scenario.AnnualScenarioEconomics) []models.YearRow {
	rows := make([]models.YearRow, len(years))
	for i, y := range years {
		rows[i] = models.YearRow{
			YearIndex:          y.YearIndex,
			BTCMined:           y.BTCMined,
			BTCPriceUSD:        y.BTCPriceUSD,
			RevenueGBP:         y.RevenueGBP,
			ElectricityCostGBP: y.ElectricityCostGBP,
			OtherOpexGBP:       y.OtherOpexGBP,
			TotalOpexGBP:       y.TotalOpexGBP,
			EBITDAGBP:          y.EBITDAGBP,
			EBITDAMargin:       y.EBITDAMargin,
			ClientRevenueGBP:   y.ClientRevenueGBP,
			OperatorRevenueGBP: y.OperatorRevenueGBP,
			ClientTaxGBP:       y.ClientTaxGBP,
			ClientNetIncomeGBP: y.ClientNetIncomeGBP,
		}
	}
	return rows
}
