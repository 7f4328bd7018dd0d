package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"minesite-model/internal/api/models"
	"minesite-model/internal/config"
	"minesite-model/internal/data"
	"minesite-model/internal/forecast"
	"minesite-model/internal/mining"
	"minesite-model/internal/model"

	"github.com/gin-gonic/gin"
)

// ForecastHandler handles monthly production forecast requests
type ForecastHandler struct {
	provider *data.Provider
	assume   config.Assumptions
	minerDir string
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(provider *data.Provider, assume config.Assumptions) *ForecastHandler {
	return &ForecastHandler{
		provider: provider,
		assume:   assume,
		minerDir: resolveMinerDir(),
	}
}

// RunMonthly handles POST /api/v1/forecast/monthly
func (h *ForecastHandler) RunMonthly(c *gin.Context) {
	var req models.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	var (
		snap   model.NetworkSnapshot
		source string
	)
	if req.UseLiveData {
		s, src := h.provider.Snapshot()
		snap, source = s, string(src)
	} else {
		snap, source = h.provider.Static(), string(data.SourceStatic)
	}

	btcPerDay, errResp := h.resolveBTCPerDay(req, snap)
	if errResp != nil {
		c.JSON(errResp.status, errResp.body)
		return
	}

	start := startOfMonth(time.Now().UTC())
	if req.StartMonth != "" {
		parsed, err := time.Parse("2006-01", req.StartMonth)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "INVALID_REQUEST",
					Message: fmt.Sprintf("start_month %q must be YYYY-MM", req.StartMonth),
				},
			})
			return
		}
		start = parsed
	}

	years := req.Years
	if years <= 0 {
		years = h.assume.FallbackProjectYears
	}

	rows := forecast.BuildMonthly(forecast.Params{
		SiteBTCPerDay:              btcPerDay,
		Start:                      start,
		ProjectYears:               years,
		BaseSubsidyBTC:             snap.BlockSubsidyBTC,
		NextHalving:                h.assume.NextHalving,
		HalvingIntervalYears:       h.assume.HalvingIntervalYears,
		BaseFeeBTCPerBlock:         h.assume.BaseFeePerBlockBTC,
		FeeGrowthPctPerYear:        req.FeeGrowthPctPerYear,
		DifficultyGrowthPctPerYear: req.DifficultyGrowthPctPerYear,
	})

	response := models.ForecastResponse{
		Snapshot: toSnapshotInfo(snap, source),
		Months:   make([]models.ForecastMonth, 0, len(rows)),
	}
	for _, r := range rows {
		response.Months = append(response.Months, models.ForecastMonth{
			Month:                  r.Month.Format("2006-01"),
			SubsidyBTC:             r.SubsidyBTC,
			FeeBTCPerBlock:         r.FeeBTCPerBlock,
			TotalRewardBTCPerBlock: r.TotalRewardBTCPerBlock,
			BTCMined:               r.BTCMined,
		})
		response.TotalBTC += r.BTCMined
	}
	for _, a := range forecast.AnnualTotals(rows) {
		response.Annual = append(response.Annual, models.AnnualTotalInfo{
			Year:     a.Year,
			BTCMined: a.BTCMined,
		})
	}

	if req.WithFiat {
		startPrice := req.StartPriceUSD
		if startPrice <= 0 {
			startPrice = snap.BTCPriceUSD
		}
		for _, f := range forecast.BuildFiatMonthly(rows, startPrice, req.AnnualPriceGrowthPct, snap.USDToGBP) {
			response.Fiat = append(response.Fiat, models.FiatMonth{
				Month:       f.Month.Format("2006-01"),
				BTCMined:    f.BTCMined,
				BTCPriceUSD: f.BTCPriceUSD,
				RevenueUSD:  f.RevenueUSD,
				RevenueGBP:  f.RevenueGBP,
			})
		}
	}

	c.JSON(http.StatusOK, response)
}

// resolveBTCPerDay takes the stated production, or derives it from hardware
// and site at the given snapshot.
func (h *ForecastHandler) resolveBTCPerDay(req models.ForecastRequest, snap model.NetworkSnapshot) (float64, *errorResponse) {
	if req.SiteBTCPerDay > 0 {
		return req.SiteBTCPerDay, nil
	}

	if req.MinerFile == "" && req.Miner == nil {
		return 0, invalidRequest("site_btc_per_day or a miner (miner_file / miner) is required")
	}
	if req.Site == nil {
		return 0, invalidRequest("site is required when deriving production from a miner")
	}

	var miner model.MinerOption
	if req.MinerFile != "" {
		loaded, err := config.LoadMinerFile(filepath.Join(h.minerDir, req.MinerFile+".yaml"))
		if err != nil {
			return 0, invalidRequest(fmt.Sprintf("unknown miner_file %q", req.MinerFile))
		}
		miner = loaded
	}
	if req.Miner != nil {
		miner = config.MergeMiner(miner, model.MinerOption{
			Name:             req.Miner.Name,
			HashrateTH:       req.Miner.HashrateTH,
			PowerW:           req.Miner.PowerW,
			EfficiencyJPerTH: req.Miner.EfficiencyJPerTH,
			Supplier:         req.Miner.Supplier,
			PriceUSD:         req.Miner.PriceUSD,
		})
	}
	if miner.Name == "" {
		miner.Name = "custom"
	}
	if err := miner.Validate(); err != nil {
		return 0, invalidConfig(fmt.Sprintf("miner config invalid: %v", err))
	}

	site := model.SiteSpec{
		PowerKW:              req.Site.PowerKW,
		ElectricityGBPPerKWh: req.Site.ElectricityGBPPerKWh,
		UptimePct:            req.Site.UptimePct,
		CoolingOverheadPct:   req.Site.CoolingOverheadPct,
		ProjectYears:         req.Site.ProjectYears,
	}
	if site.ProjectYears <= 0 {
		site.ProjectYears = h.assume.FallbackProjectYears
	}
	if err := site.Validate(); err != nil {
		return 0, invalidConfig(fmt.Sprintf("site config invalid: %v", err))
	}

	metrics := mining.ComputeSiteMetrics(miner, snap, site)
	if metrics.SiteBTCPerDay <= 0 {
		return 0, invalidConfig("derived production is zero: site cannot host the miner")
	}
	return metrics.SiteBTCPerDay, nil
}
