package models

import "time"

type PlanDescription struct {
	Short    string   `json:"short"`
	Benefits []string `json:"benefits"`
	Features []string `json:"features"`
}

// SubscriptionPlan is a plan offered on GET /subscription/plans.
type SubscriptionPlan struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	MonthlyPrice  string          `json:"monthly_price"`
	ChecksLimit   int             `json:"checks_limit"`
	VariantID     *string         `json:"lemon_squeezy_variant_id"`
	CreatedAt     time.Time       `json:"created_at"`
	BillingPeriod string          `json:"billing_period"`
	Features      PlanFeatures    `json:"features"`
	Description   PlanDescription `json:"plan_description"`
}

// Purchasable reports whether the plan can be checked out.
func (p SubscriptionPlan) Purchasable() bool {
	return p.VariantID != nil && *p.VariantID != ""
}

type Checkout struct {
	URL string
}
