package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"energy-multiplier/internal/api/models"
	"energy-multiplier/internal/config"
	"energy-multiplier/internal/costing"
	"energy-multiplier/internal/data"
	"energy-multiplier/internal/model"
	"energy-multiplier/internal/pipeline"
	"energy-multiplier/internal/report"

	"github.com/gin-gonic/gin"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
	mimeCSV  = "text/csv"
)

// CostHandler handles cost computations
type CostHandler struct {
	loader *data.PriceLoader
	zones  *data.ZoneCatalog
}

// NewCostHandler creates a new cost handler. loader may be nil, in which case
// every request must upload its price files.
func NewCostHandler(loader *data.PriceLoader, zones *data.ZoneCatalog) *CostHandler {
	if zones == nil {
		zones = data.DefaultZones()
	}
	return &CostHandler{loader: loader, zones: zones}
}

// Compute handles POST /api/v1/cost
func (h *CostHandler) Compute(c *gin.Context) {
	var req models.CostRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	if req.Zone == "" {
		req.Zone = config.DefaultZone
	}
	if req.RegimeYear == 0 {
		req.RegimeYear = config.DefaultRegimeYear
	}
	format := strings.ToLower(req.Format)
	if format == "" {
		format = config.FormatJSON
	}
	switch format {
	case config.FormatJSON, config.FormatXLSX, config.FormatPDF, config.FormatCSV:
	default:
		badRequest(c, "INVALID_FORMAT", fmt.Sprintf("format must be json, xlsx, pdf or csv, got %q", req.Format))
		return
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
		Zone:       req.Zone,
		Scale:      scaleFor(req.Scale, req.ScaleKWh),
	}
	out, err := pipeline.Run(c.Request.Context(), params, pipeline.Inputs{Curve: curveTable, Prices: set})
	if err != nil {
		if errors.Is(err, model.ErrNoMatchingData) && out != nil && out.Result != nil {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "NO_MATCHING_DATA",
					Message: err.Error(),
					Details: map[string]interface{}{
						"coverage": out.Result.Coverage.String(),
						"year":     req.Year,
					},
				},
			})
			return
		}
		writeError(c, err)
		return
	}

	meta := report.Meta{
		Year:        req.Year,
		Zone:        req.Zone,
		ZoneName:    h.zones.DisplayName(req.Zone),
		GeneratedAt: time.Now(),
	}
	meta.Unit = "MWh"
	if req.ScaleKWh {
		meta.Unit = "kWh"
	}

	switch format {
	case config.FormatXLSX:
		raw, err := report.BuildXLSX(out, meta)
		if err != nil {
			writeError(c, err)
			return
		}
		attach(c, report.DefaultFileName(req.Year), mimeXLSX, raw)
	case config.FormatPDF:
		raw, err := report.BuildPDF(out, meta)
		if err != nil {
			writeError(c, err)
			return
		}
		attach(c, fmt.Sprintf("Report_Energia_%d.pdf", req.Year), mimePDF, raw)
	case config.FormatCSV:
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("Dettaglio_%d.csv", req.Year)))
		c.Status(http.StatusOK)
		c.Writer.Header().Set("Content-Type", mimeCSV)
		if err := costing.EncodeDetailCSV(c.Writer, out.Result); err != nil {
			_ = c.Error(err)
		}
	default:
		resp := models.CostResponse{
			Status:  "ok",
			Summary: report.NewSummary(out, meta),
		}
		if req.Detail {
			resp.Detail = detailRows(out.Result.Rows)
		}
		c.JSON(http.StatusOK, resp)
	}
}

func attach(c *gin.Context, name, mime string, raw []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, mime, raw)
}

func detailRows(rows []costing.CostDetailRow) []models.DetailRow {
	out := make([]models.DetailRow, len(rows))
	for i, r := range rows {
		out[i] = models.DetailRow{
			Date:            r.Date.ISO(),
			Hour:            r.Hour,
			Energy:          r.Energy,
			CostHourly:      r.CostHourly,
			CostQuarterHour: r.CostQuarterHour,
		}
	}
	return out
}
