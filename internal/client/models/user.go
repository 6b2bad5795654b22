// Package models defines the RiskCheck resources the console reads and writes.
package models

import "time"

// AnalyticsLevel is the analytics tier granted by a plan.
type AnalyticsLevel string

const (
	AnalyticsBasic AnalyticsLevel = "basic"
	AnalyticsFull  AnalyticsLevel = "full"
)

// PlanFeatures are the feature flags attached to a plan.
type PlanFeatures struct {
	GeoData         bool           `json:"geoData"`
	Webhooks        bool           `json:"webhooks"`
	Analytics       AnalyticsLevel `json:"analytics"`
	RateLimit       int            `json:"rateLimit"`
	TeamAccess      bool           `json:"teamAccess"`
	CustomLists     bool           `json:"customLists"`
	PrioritySupport bool           `json:"prioritySupport"`
}

type Plan struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	MonthlyPrice  string       `json:"monthly_price"`
	ChecksLimit   int          `json:"checks_limit"`
	BillingPeriod string       `json:"billing_period"`
	Features      PlanFeatures `json:"features"`
}

type Subscription struct {
	ID                 string     `json:"id"`
	Status             string     `json:"status"`
	CurrentPeriodStart time.Time  `json:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time  `json:"currentPeriodEnd"`
	CancelAtPeriodEnd  bool       `json:"cancelAtPeriodEnd"`
	CanceledAt         *time.Time `json:"canceledAt"`
	CreatedAt          time.Time  `json:"createdAt"`
	Plan               Plan       `json:"plan"`
}

// User is the profile returned by GET /users/me.
type User struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	Name         string        `json:"name"`
	ProfileImage *string       `json:"profile_image,omitempty"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

// Features returns the user's plan features; ok is false without a subscription.
func (u *User) Features() (f PlanFeatures, ok bool) {
	if u == nil || u.Subscription == nil {
		return PlanFeatures{}, false
	}
	return u.Subscription.Plan.Features, true
}

// LoginResult is the data of a successful POST /auth/login.
type LoginResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
