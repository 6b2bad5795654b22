package navigation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/riskcheck/console/internal/client/models"
	"github.com/stretchr/testify/assert"
)

func titles(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func withFeatures(f models.PlanFeatures) *models.User {
	return &models.User{Subscription: &models.Subscription{Plan: models.Plan{Features: f}}}
}

func TestMenu(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		want []string
	}{
		{name: "no user", user: nil, want: []string{"Dashboard", "API Key", "Plans"}},
		{name: "no subscription", user: &models.User{}, want: []string{"Dashboard", "API Key", "Plans"}},
		{name: "basic analytics", user: withFeatures(models.PlanFeatures{Analytics: models.AnalyticsBasic}),
			want: []string{"Dashboard", "API Key", "Plans"}},
		{name: "custom lists only", user: withFeatures(models.PlanFeatures{CustomLists: true}),
			want: []string{"Dashboard", "Custom List", "API Key", "Plans"}},
		{name: "full analytics", user: withFeatures(models.PlanFeatures{Analytics: models.AnalyticsFull}),
			want: []string{"Dashboard", "Analytics", "API Key", "Plans"}},
		{name: "everything", user: withFeatures(models.PlanFeatures{Analytics: models.AnalyticsFull, CustomLists: true}),
			want: []string{"Dashboard", "Analytics", "Custom List", "API Key", "Plans"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, titles(Menu(tt.user))); diff != "" {
				t.Errorf("menu mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCanOpen(t *testing.T) {
	u := withFeatures(models.PlanFeatures{CustomLists: true})
	assert.True(t, CanOpen(u, "lists"))
	assert.False(t, CanOpen(u, "analytics"))
	assert.True(t, CanOpen(u, "dashboard"))
	assert.True(t, CanOpen(nil, "whoami"))
	assert.False(t, CanOpen(nil, "lists"))
}
