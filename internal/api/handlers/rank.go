package handlers

import (
	"net/http"

	"energy-multiplier/internal/api/models"
	"energy-multiplier/internal/config"
	"energy-multiplier/internal/data"
	"energy-multiplier/internal/pipeline"

	"github.com/gin-gonic/gin"
)

// RankHandler handles ranking-related requests
type RankHandler struct {
	loader *data.PriceLoader
	zones  *data.ZoneCatalog
}

// NewRankHandler creates a new rank handler
func NewRankHandler(loader *data.PriceLoader, zones *data.ZoneCatalog) *RankHandler {
	if zones == nil {
		zones = data.DefaultZones()
	}
	return &RankHandler{loader: loader, zones: zones}
}

// RankZones handles POST /api/v1/rank
func (h *RankHandler) RankZones(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	if req.RegimeYear == 0 {
		req.RegimeYear = config.DefaultRegimeYear
	}

	curveTable, err := readCurve(c)
	if err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	set, err := loadPrices(c, h.loader, req.Year, req.RegimeYear)
	if err != nil {
		writeError(c, err)
		return
	}

	params := pipeline.Params{
		Year:       req.Year,
		RegimeYear: req.RegimeYear,
		Scale:      scaleFor(req.Scale, req.ScaleKWh),
	}
	ranked, err := pipeline.Rank(c.Request.Context(), params, pipeline.Inputs{Curve: curveTable, Prices: set})
	if err != nil {
		writeError(c, err)
		return
	}

	// Apply limit
	limit := req.Limit
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}
	ranked = ranked[:limit]

	// Convert to response format
	rankings := make([]models.Ranking, len(ranked))
	for i, r := range ranked {
		rankings[i] = models.Ranking{
			Rank:            i + 1,
			Zone:            r.Zone,
			Name:            h.zones.DisplayName(r.Zone),
			Energy:          r.Energy,
			CostHourly:      r.CostHourly,
			CostQuarterHour: r.CostQuarterHour,
			GapHours:        r.Gaps,
			PriceCount:      r.Stats.Count,
			MinPrice:        r.Stats.Min,
			MaxPrice:        r.Stats.Max,
			MeanPrice:       r.Stats.Mean,
			SpreadP95P05:    r.Stats.SpreadP95P05,
		}
	}

	c.JSON(http.StatusOK, models.RankResponse{Year: req.Year, Rankings: rankings})
}
