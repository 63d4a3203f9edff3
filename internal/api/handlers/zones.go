package handlers

import (
	"net/http"

	"energy-multiplier/internal/api/models"
	"energy-multiplier/internal/data"

	"github.com/gin-gonic/gin"
)

// ZonesHandler serves the zone catalog
type ZonesHandler struct {
	loader  *data.PriceLoader
	catalog *data.ZoneCatalog
}

func NewZonesHandler(loader *data.PriceLoader, catalog *data.ZoneCatalog) *ZonesHandler {
	if catalog == nil {
		catalog = data.DefaultZones()
	}
	return &ZonesHandler{loader: loader, catalog: catalog}
}

// ListZones handles GET /api/v1/zones
func (h *ZonesHandler) ListZones(c *gin.Context) {
	var req models.ZonesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	zones := make([]models.ZoneInfo, len(h.catalog.Zones))
	for i, z := range h.catalog.Zones {
		zones[i] = models.ZoneInfo{
			ID:   z.ID,
			Name: z.Name,
			Kind: z.Kind,
		}
	}
	resp := models.ZonesResponse{
		Zones:     zones,
		UpdatedAt: h.catalog.UpdatedAt,
		Count:     len(zones),
	}

	if req.Year != 0 {
		if h.loader == nil {
			badRequest(c, "NO_PRICE_DIR", "server has no price directory configured")
			return
		}
		set, err := h.loader.Load(c.Request.Context(), req.Year)
		if err != nil {
			writeError(c, err)
			return
		}
		resp.Available = set.Hourly().Zones()
	}

	c.JSON(http.StatusOK, resp)
}
