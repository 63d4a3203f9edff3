package handlers

import (
	"fmt"
	"mime/multipart"

	"energy-multiplier/internal/config"
	"energy-multiplier/internal/data"
	"energy-multiplier/internal/model"
	"energy-multiplier/internal/prices"

	"github.com/gin-gonic/gin"
)

// readUpload parses one uploaded table.
func readUpload(fh *multipart.FileHeader) (model.Table, error) {
	f, err := fh.Open()
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return data.ReadTable(fh.Filename, f)
}

// readCurve reads the "curve" file part.
func readCurve(c *gin.Context) (model.Table, error) {
	fh, err := c.FormFile("curve")
	if err != nil {
		return model.Table{}, fmt.Errorf("curve file is required: %w", err)
	}
	return readUpload(fh)
}

func priceUploads(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return append(form.File["prices"], form.File["prices[]"]...)
}

// loadPrices builds the price set from uploaded price files, or from the price
// directory when none were uploaded.
func loadPrices(c *gin.Context, loader *data.PriceLoader, year, regimeYear int) (prices.Set, error) {
	uploads := priceUploads(c)
	if len(uploads) == 0 {
		if loader == nil {
			return nil, fmt.Errorf("%w %d: no price files uploaded", model.ErrNoPriceFile, year)
		}
		return loader.Load(c.Request.Context(), year)
	}
	tables := make([]model.Table, 0, len(uploads))
	for _, fh := range uploads {
		t, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return data.BuildSet(tables, year, regimeYear)
}

// scaleFor resolves the cost scale of a request: an explicit scale wins, then
// the kWh flag.
func scaleFor(scale float64, kwh bool) float64 {
	if scale != 0 {
		return scale
	}
	if kwh {
		return config.UnitScale(config.UnitKWh, config.UnitMWh)
	}
	return 1
}
