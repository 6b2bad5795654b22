package models

type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

func (g GroupBy) Valid() bool {
	return g == GroupByDay || g == GroupByWeek || g == GroupByMonth
}

type BlocksChallengesPoint struct {
	Period    string `json:"period"`
	Allow     int    `json:"allow"`
	Challenge int    `json:"challenge"`
	Block     int    `json:"block"`
	Total     int    `json:"total"`
}

type BlocksChallenges struct {
	Points  []BlocksChallengesPoint `json:"data"`
	GroupBy GroupBy                 `json:"group_by"`
	Total   int                     `json:"total"`
}

// Totals sums the per-period counters.
type Totals struct {
	Allow, Challenge, Block, Total int
}

func SumPoints(points []BlocksChallengesPoint) Totals {
	var t Totals
	for _, p := range points {
		t.Allow += p.Allow
		t.Challenge += p.Challenge
		t.Block += p.Block
		t.Total += p.Total
	}
	return t
}
