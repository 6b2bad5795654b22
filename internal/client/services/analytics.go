package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/riskcheck/console/internal/client/api"
	"github.com/riskcheck/console/internal/client/models"
	"github.com/riskcheck/console/internal/common"
	"github.com/riskcheck/console/internal/timex"
)

// BlocksChallengesQuery filters GET /usage-analytics/blocks-challenges-over-time.
type BlocksChallengesQuery struct {
	UserID    string
	CheckType string
	Start     time.Time
	End       time.Time
	GroupBy   models.GroupBy
}

func (q BlocksChallengesQuery) values() url.Values {
	v := url.Values{}
	if q.UserID != "" {
		v.Set("user_id", q.UserID)
	}
	if q.CheckType != "" && q.CheckType != "all" {
		v.Set("check_type", q.CheckType)
	}
	if !q.Start.IsZero() {
		v.Set("start_date", timex.FormatDate(q.Start))
	}
	if !q.End.IsZero() {
		v.Set("end_date", timex.FormatDate(q.End))
	}
	if q.GroupBy != "" {
		v.Set("group_by", string(q.GroupBy))
	}
	return v
}

// RangeFor turns the "7d", "30d" and "90d" presets into [now-n days, now].
func RangeFor(now time.Time, preset string) (time.Time, time.Time, error) {
	var days int
	switch preset {
	case "7d":
		days = 7
	case "30d":
		days = 30
	case "90d":
		days = 90
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", common.ErrInvalidRange, preset)
	}
	return now.AddDate(0, 0, -days), now, nil
}

type AnalyticsService interface {
	BlocksChallenges(ctx context.Context, q BlocksChallengesQuery) (*models.BlocksChallenges, error)
}

type analyticsService struct {
	client *api.Client
}

func NewAnalyticsService(client *api.Client) AnalyticsService {
	return &analyticsService{client: client}
}

func (s *analyticsService) BlocksChallenges(ctx context.Context, q BlocksChallengesQuery) (*models.BlocksChallenges, error) {
	if q.GroupBy != "" && !q.GroupBy.Valid() {
		return nil, common.ErrInvalidGroupBy
	}
	if !q.Start.IsZero() && !q.End.IsZero() && q.Start.After(q.End) {
		return nil, common.ErrInvalidRange
	}
	env, err := api.Get[models.BlocksChallenges](ctx, s.client, "/usage-analytics/blocks-challenges-over-time", q.values())
	if err != nil {
		return nil, fmt.Errorf("blocks/challenges error: %w", err)
	}
	return &env.Data, nil
}
