// Package navigation decides which console sections a user can open.
package navigation

import "github.com/riskcheck/console/internal/client/models"

// Feature is a plan feature that gates a menu item.
type Feature string

const (
	FeatureNone        Feature = ""
	FeatureAnalytics   Feature = "analytics"
	FeatureCustomLists Feature = "customLists"
)

type Item struct {
	Title    string
	Path     string
	Command  string
	Requires Feature
}

// Items is the full menu in display order.
var Items = []Item{
	{Title: "Dashboard", Path: "/dashboard", Command: "dashboard"},
	{Title: "Analytics", Path: "/analytics", Command: "analytics", Requires: FeatureAnalytics},
	{Title: "Custom List", Path: "/custom-list", Command: "lists", Requires: FeatureCustomLists},
	{Title: "API Key", Path: "/api-key", Command: "keys"},
	{Title: "Plans", Path: "/subscription", Command: "plans"},
}

// Allowed reports whether features unlock f.
func Allowed(f Feature, features models.PlanFeatures) bool {
	switch f {
	case FeatureNone:
		return true
	case FeatureAnalytics:
		return features.Analytics == models.AnalyticsFull
	case FeatureCustomLists:
		return features.CustomLists
	}
	return false
}

// Menu returns the items u may see. Without a subscription only ungated
// items are shown.
func Menu(u *models.User) []Item {
	features, ok := u.Features()
	out := make([]Item, 0, len(Items))
	for _, it := range Items {
		if it.Requires != FeatureNone && !ok {
			continue
		}
		if Allowed(it.Requires, features) {
			out = append(out, it)
		}
	}
	return out
}

// CanOpen reports whether the command named cmd is in u's menu. Commands
// outside the menu are not gated.
func CanOpen(u *models.User, cmd string) bool {
	for _, it := range Items {
		if it.Command != cmd {
			continue
		}
		for _, allowed := range Menu(u) {
			if allowed.Command == cmd {
				return true
			}
		}
		return false
	}
	return true
}
