package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"minesite-model/internal/api/models"
	"minesite-model/internal/config"

	"github.com/gin-gonic/gin"
)

// MinerHandler handles miner catalogue requests
type MinerHandler struct {
	minerDir string
}

// NewMinerHandler creates a new miner handler
func NewMinerHandler() *MinerHandler {
	dir := resolveMinerDir()
	log.Printf("MinerHandler: Using miner directory: %s", dir)
	return &MinerHandler{minerDir: dir}
}

// GetMinerDir returns the resolved catalogue directory (for diagnostics)
func (h *MinerHandler) GetMinerDir() string {
	return h.minerDir
}

// ListMiners handles GET /api/v1/miners
func (h *MinerHandler) ListMiners(c *gin.Context) {
	log.Printf("ListMiners: Starting request")
	log.Printf("ListMiners: Miner directory: %s", h.minerDir)

	files, err := os.ReadDir(h.minerDir)
	if err != nil {
		log.Printf("ListMiners: ERROR reading directory: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to read miner directory",
				Details: map[string]interface{}{"error": err.Error(), "dir": h.minerDir},
			},
		})
		return
	}

	log.Printf("ListMiners: Found %d entries in directory", len(files))

	miners := make([]models.MinerInfo, 0)
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(h.minerDir, file.Name())
		miner, err := config.LoadMinerFile(path)
		if err != nil {
			log.Printf("ListMiners: WARNING skipping %s: %v", file.Name(), err)
			continue
		}

		id := strings.TrimSuffix(file.Name(), ".yaml")
		name := miner.Name
		if name == "" {
			name = id
		}

		miners = append(miners, models.MinerInfo{
			ID:   id,
			Name: name,
			File: file.Name(),
			Specs: models.MinerSpecs{
				HashrateTH:       miner.HashrateTH,
				PowerW:           miner.PowerW,
				EfficiencyJPerTH: miner.EfficiencyJPerTH,
				Supplier:         miner.Supplier,
				PriceUSD:         miner.PriceUSD,
			},
		})
	}

	log.Printf("ListMiners: Returning %d miners", len(miners))
	c.JSON(http.StatusOK, gin.H{"miners": miners})
}
