package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/riskcheck/console/internal/client/api"
	"github.com/riskcheck/console/internal/client/models"
	"github.com/riskcheck/console/internal/common"
	"github.com/riskcheck/console/internal/timex"
	"golang.org/x/sync/errgroup"
)

// DefaultRangeDays is how far back the dashboard looks without a start date.
const DefaultRangeDays = 30

// TimelineQuery filters GET /usage-analytics/dashboard. Zero fields are omitted.
type TimelineQuery struct {
	CheckType string
	Limit     int
	Offset    int
	Start     time.Time
	End       time.Time
}

func (q TimelineQuery) values() url.Values {
	v := url.Values{}
	if q.CheckType != "" && q.CheckType != "all" {
		v.Set("check_type", q.CheckType)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 || q.Limit > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if !q.Start.IsZero() {
		v.Set("start_date", timex.FormatDate(q.Start))
	}
	if !q.End.IsZero() {
		v.Set("end_date", timex.FormatDate(q.End))
	}
	return v
}

// DefaultRange fills in the dashboard's date filter: a missing end is now and
// a missing start is DefaultRangeDays before now.
func DefaultRange(now, start, end time.Time) (time.Time, time.Time) {
	if end.IsZero() {
		end = now
	}
	if start.IsZero() {
		start = now.AddDate(0, 0, -DefaultRangeDays)
	}
	return start, end
}

// Overview is everything the dashboard screen shows at once.
type Overview struct {
	User     *models.User
	Timeline *models.Timeline
}

// DashboardService reads recent check activity.
type DashboardService interface {
	Timeline(ctx context.Context, q TimelineQuery) (*models.Timeline, error)
	Overview(ctx context.Context, q TimelineQuery) (*Overview, error)
}

type dashboardService struct {
	client *api.Client
	auth   AuthService
	now    func() time.Time
}

func NewDashboardService(client *api.Client, auth AuthService) DashboardService {
	return &dashboardService{client: client, auth: auth, now: time.Now}
}

// timelineResponse carries tiles either inside data or next to it.
type timelineResponse struct {
	api.Envelope[models.Timeline]
	Tiles *models.Tiles `json:"tiles"`
}

func (s *dashboardService) Timeline(ctx context.Context, q TimelineQuery) (*models.Timeline, error) {
	q.Start, q.End = DefaultRange(s.now(), q.Start, q.End)
	if q.Start.After(q.End) {
		return nil, common.ErrInvalidRange
	}

	resp, err := s.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "/usage-analytics/dashboard", Query: q.values()})
	if err != nil {
		return nil, fmt.Errorf("timeline error: %w", err)
	}
	tr, err := api.Decode[timelineResponse]("GET /usage-analytics/dashboard", resp.Body)
	if err != nil {
		return nil, err
	}
	tl := tr.Data
	if tl.Tiles == nil {
		tl.Tiles = tr.Tiles
	}
	return &tl, nil
}

// Overview fetches the profile and the timeline concurrently.
func (s *dashboardService) Overview(ctx context.Context, q TimelineQuery) (*Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.auth.CurrentUser(gctx)
		if err != nil {
			return fmt.Errorf("profile error: %w", err)
		}
		out.User = u
		return nil
	})
	g.Go(func() error {
		tl, err := s.Timeline(gctx, q)
		if err != nil {
			return err
		}
		out.Timeline = tl
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
