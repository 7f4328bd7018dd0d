package handlers

import (
	"errors"
	"log"
	"net/http"

	"minesite-model/internal/api/models"
	"minesite-model/internal/data"

	"github.com/gin-gonic/gin"
)

// NetworkHandler serves the network snapshot the projections run against
type NetworkHandler struct {
	provider *data.Provider
}

// NewNetworkHandler creates a new network handler
func NewNetworkHandler(provider *data.Provider) *NetworkHandler {
	return &NetworkHandler{provider: provider}
}

// GetSnapshot handles GET /api/v1/network. With ?refresh=true it bypasses the
// cache and fails loudly when the upstreams are down instead of falling back.
func (h *NetworkHandler) GetSnapshot(c *gin.Context) {
	if c.Query("refresh") == "true" {
		snap, err := h.provider.Refresh()
		if err != nil {
			log.Printf("NetworkHandler: Refresh failed: %v", err)

			details := map[string]interface{}{}
			var liveErr *data.LiveDataError
			if errors.As(err, &liveErr) {
				details["source"] = liveErr.Source
				if liveErr.StatusCode != 0 {
					details["status_code"] = liveErr.StatusCode
				}
			}
			c.JSON(http.StatusBadGateway, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "UPSTREAM_UNAVAILABLE",
					Message: err.Error(),
					Details: details,
				},
			})
			return
		}
		c.JSON(http.StatusOK, toSnapshotInfo(snap, string(data.SourceLive)))
		return
	}

	snap, source := h.provider.Snapshot()
	c.JSON(http.StatusOK, toSnapshotInfo(snap, string(source)))
}
