package models

// CostRequest holds the form fields of POST /api/v1/cost. The load curve is the
// "curve" file part; price tables are the "prices" (or "prices[]") file parts.
// Without price files the server's price directory is used.
type CostRequest struct {
	Year       int     `form:"year" binding:"required"`
	Zone       string  `form:"zone"`           // default: "PUN"
	RegimeYear int     `form:"regime_year"`    // default: 2025
	ScaleKWh   bool    `form:"scale_kwh"`      // kWh curve priced per MWh
	Scale      float64 `form:"scale"`          // overrides scale_kwh
	Format     string  `form:"format"`         // json (default), xlsx, pdf, csv
	Detail     bool    `form:"include_detail"` // default: false
}

// RankRequest holds the form fields of POST /api/v1/rank.
type RankRequest struct {
	Year       int     `form:"year" binding:"required"`
	RegimeYear int     `form:"regime_year"`
	ScaleKWh   bool    `form:"scale_kwh"`
	Scale      float64 `form:"scale"`
	Limit      int     `form:"limit,omitempty"` // default: all zones
}

// ZonesRequest holds the query of GET /api/v1/zones. When Year is set the
// response also lists the zones priced in that year's files.
type ZonesRequest struct {
	Year int `form:"year,omitempty"`
}
