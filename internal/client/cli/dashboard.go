package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/riskcheck/console/internal/client/models"
	"github.com/riskcheck/console/internal/client/navigation"
	"github.com/riskcheck/console/internal/client/services"
	"github.com/riskcheck/console/internal/pagination"
)

func (a *App) canOpen(cmd string) bool {
	return navigation.CanOpen(a.currentUser(), cmd)
}

// Menu lists the sections the current plan unlocks.
func (a *App) Menu(ctx context.Context) error {
	for _, it := range navigation.Menu(a.currentUser()) {
		a.printf("  %-12s %s\n", it.Command, it.Title)
	}
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.authService.CurrentUser(ctx)
	if err != nil {
		return a.fail(ctx, "whoami", err)
	}
	a.setUser(u)

	a.printf("Name:  %s\n", orDash(u.Name))
	a.printf("Email: %s\n", u.Email)
	if u.Subscription == nil {
		a.println("Plan:  none")
		return nil
	}
	s := u.Subscription
	a.printf("Plan:  %s (%s, renews %s)\n", s.Plan.Name, s.Status, formatTime(s.CurrentPeriodEnd))
	return nil
}

// Dashboard shows the summary tiles and one page of recent checks.
func (a *App) Dashboard(ctx context.Context, args []string) error {
	page, err := pageArg(args, 0)
	if err != nil {
		return a.fail(ctx, "dashboard", err)
	}

	ov, err := a.dashboardService.Overview(ctx, services.TimelineQuery{
		Limit:  PageSize,
		Offset: (page - 1) * PageSize,
	})
	if err != nil {
		return a.fail(ctx, "dashboard", err)
	}
	a.setUser(ov.User)

	tl := ov.Timeline
	if t := tl.Tiles; t != nil {
		a.printf("Requests: %d  High risk: %d  Medium risk: %d  API keys: %d\n\n",
			t.TotalRequests, t.TotalHighRisk, t.TotalMediumRisk, t.APICount)
	}
	if len(tl.Items) == 0 {
		a.println("No checks in the last 30 days.")
		return nil
	}

	rows := make([][]string, 0, len(tl.Items))
	for _, it := range tl.Items {
		rows = append(rows, []string{
			formatTime(it.CreatedAt),
			it.CheckType,
			it.CheckedValue,
			it.Action,
			strconv.Itoa(it.Score),
			string(models.RiskLevelOf(it.Score)),
			orDash(it.APIKey.Name),
			strings.Join(it.Reasons, ", "),
		})
	}
	writeTable(a.out, []string{"TIME", "TYPE", "VALUE", "ACTION", "SCORE", "RISK", "KEY", "REASONS"}, rows)

	if p := pager(pagination.New(page, PageSize, tl.Total)); p != "" {
		a.println(p)
	}
	return nil
}

// Analytics shows allow/challenge/block counts over time.
// Usage: analytics [7d|30d|90d] [day|week|month]
func (a *App) Analytics(ctx context.Context, args []string) error {
	preset, groupBy := "30d", models.GroupByDay
	for _, arg := range args {
		if g := models.GroupBy(arg); g.Valid() {
			groupBy = g
		} else {
			preset = arg
		}
	}

	start, end, err := services.RangeFor(a.now(), preset)
	if err != nil {
		return a.fail(ctx, "analytics", err)
	}
	q := services.BlocksChallengesQuery{Start: start, End: end, GroupBy: groupBy}
	if u := a.currentUser(); u != nil {
		q.UserID = u.ID
	}

	bc, err := a.analyticsService.BlocksChallenges(ctx, q)
	if err != nil {
		return a.fail(ctx, "analytics", err)
	}
	if len(bc.Points) == 0 {
		a.println("No data for this period.")
		return nil
	}

	rows := make([][]string, 0, len(bc.Points)+1)
	for _, p := range bc.Points {
		rows = append(rows, []string{p.Period, strconv.Itoa(p.Allow), strconv.Itoa(p.Challenge), strconv.Itoa(p.Block), strconv.Itoa(p.Total)})
	}
	t := models.SumPoints(bc.Points)
	rows = append(rows, []string{"TOTAL", strconv.Itoa(t.Allow), strconv.Itoa(t.Challenge), strconv.Itoa(t.Block), strconv.Itoa(t.Total)})
	writeTable(a.out, []string{"PERIOD", "ALLOW", "CHALLENGE", "BLOCK", "TOTAL"}, rows)
	return nil
}
