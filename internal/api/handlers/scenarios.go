package handlers

import (
	"log"
	"net/http"

	"minesite-model/internal/api/models"
	"minesite-model/internal/config"
	"minesite-model/internal/scenario"

	"github.com/gin-gonic/gin"
)

// ScenarioHandler handles scenario catalogue requests
type ScenarioHandler struct {
	assume config.Assumptions
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(assume config.Assumptions) *ScenarioHandler {
	return &ScenarioHandler{assume: assume}
}

var scenarioDescriptions = map[string]string{
	"base":  "Central case: current network conditions held flat",
	"best":  "Upside case: price up, difficulty down, electricity down",
	"worst": "Downside case: price down, difficulty up, electricity up",
}

// ListScenarios handles GET /api/v1/scenarios
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	log.Printf("ListScenarios: Starting request")

	configs := scenario.DefaultScenarios(h.assume.ScenarioDefaults(), nil)

	scenarios := make([]models.ScenarioInfo, 0, len(configs))
	for _, name := range []string{"base", "best", "worst"} {
		cfg, ok := configs[name]
		if !ok {
			continue
		}
		scenarios = append(scenarios, models.ScenarioInfo{
			Name:               cfg.Name,
			Description:        scenarioDescriptions[name],
			PricePct:           cfg.PricePct,
			DifficultyPct:      cfg.DifficultyPct,
			ElectricityPct:     cfg.ElectricityPct,
			ClientRevenueShare: cfg.ClientRevenueShare,
		})
	}

	log.Printf("ListScenarios: Returning %d scenarios", len(scenarios))
	c.JSON(http.StatusOK, gin.H{"scenarios": scenarios})
}
