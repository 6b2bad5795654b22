package models

import "time"

type KeyRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TimelineItem is one check the backend performed.
type TimelineItem struct {
	ID           string    `json:"id"`
	CheckType    string    `json:"check_type"`
	CheckedValue string    `json:"checked_value"`
	Action       string    `json:"action"`
	Score        int       `json:"score"`
	Reasons      []string  `json:"reasons"`
	CreatedAt    time.Time `json:"created_at"`
	APIKey       KeyRef    `json:"api_key"`
}

// Tiles are the dashboard summary counters.
type Tiles struct {
	TotalRequests   int `json:"totalRequests"`
	TotalHighRisk   int `json:"totalHighRisk"`
	TotalMediumRisk int `json:"totalMediumRisk"`
	APICount        int `json:"apiCount"`
}

type Timeline struct {
	Items  []TimelineItem `json:"data"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
	Tiles  *Tiles         `json:"tiles,omitempty"`
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskLevelOf buckets a 0-100 score.
func RiskLevelOf(score int) RiskLevel {
	switch {
	case score >= 70:
		return RiskHigh
	case score >= 30:
		return RiskMedium
	default:
		return RiskLow
	}
}
