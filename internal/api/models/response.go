package models

import "energy-multiplier/internal/report"

// CostResponse represents the JSON result of a cost run
type CostResponse struct {
	Status  string         `json:"status"`
	Summary report.Summary `json:"summary"`
	Detail  []DetailRow    `json:"detail,omitempty"`
}

// DetailRow represents one (day, hour) of the detail table
type DetailRow struct {
	Date            string   `json:"date"` // YYYY-MM-DD
	Hour            int      `json:"hour"`
	Energy          float64  `json:"energy"`
	CostHourly      float64  `json:"cost_hourly"`
	CostQuarterHour *float64 `json:"cost_quarter_hour,omitempty"`
}

// RankResponse represents the response from ranking zones
type RankResponse struct {
	Year     int       `json:"year"`
	Rankings []Ranking `json:"rankings"`
}

// Ranking represents one ranked zone
type Ranking struct {
	Rank            int      `json:"rank"`
	Zone            string   `json:"zone"`
	Name            string   `json:"name"`
	Energy          float64  `json:"energy"`
	CostHourly      float64  `json:"cost_hourly"`
	CostQuarterHour *float64 `json:"cost_quarter_hour,omitempty"`
	GapHours        int      `json:"gap_hours"`
	PriceCount      int      `json:"price_count"`
	MinPrice        float64  `json:"min_price"`
	MaxPrice        float64  `json:"max_price"`
	MeanPrice       float64  `json:"mean_price"`
	SpreadP95P05    float64  `json:"spread_p95_p05"`
}

// ZoneInfo represents information about a market zone
type ZoneInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// ZonesResponse lists the zone catalog
type ZonesResponse struct {
	Zones     []ZoneInfo `json:"zones"`
	UpdatedAt string     `json:"updated_at,omitempty"`
	Count     int        `json:"count"`
	// Available lists the zone columns of the requested year's price files.
	Available []string `json:"available,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
