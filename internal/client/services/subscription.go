package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskcheck/console/internal/client/api"
	"github.com/riskcheck/console/internal/client/models"
	"github.com/riskcheck/console/internal/common"
)

var errNoCheckoutURL = errors.New("response carries no checkout url")

type SubscriptionService interface {
	Plans(ctx context.Context) ([]models.SubscriptionPlan, error)
	CreateCheckout(ctx context.Context, planName, variantID string) (*models.Checkout, error)
}

type subscriptionService struct {
	client *api.Client
}

func NewSubscriptionService(client *api.Client) SubscriptionService {
	return &subscriptionService{client: client}
}

func (s *subscriptionService) Plans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	env, err := api.Get[[]models.SubscriptionPlan](ctx, s.client, "/subscription/plans", nil)
	if err != nil {
		return nil, fmt.Errorf("plans error: %w", err)
	}
	return env.Data, nil
}

type checkoutResponse struct {
	api.Envelope[struct {
		CheckoutURL string `json:"checkoutUrl"`
	}]
	CheckoutURL string `json:"checkoutUrl"`
}

// CreateCheckout starts a hosted checkout for the plan and returns its URL.
func (s *subscriptionService) CreateCheckout(ctx context.Context, planName, variantID string) (*models.Checkout, error) {
	planName = strings.TrimSpace(planName)
	if planName == "" {
		return nil, fmt.Errorf("plan name: %w", common.ErrEmptyValue)
	}
	body := map[string]string{"planName": planName}
	if variantID != "" {
		body["variantId"] = variantID
	}

	r, err := api.NewJSONRequest(http.MethodPost, "/subscription/create-checkout", body)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("checkout error: %w", err)
	}

	const endpoint = "POST /subscription/create-checkout"
	cr, err := api.Decode[checkoutResponse](endpoint, resp.Body)
	if err != nil {
		return nil, err
	}
	u := cr.Data.CheckoutURL
	if u == "" {
		u = cr.CheckoutURL
	}
	if u == "" {
		return nil, &api.DecodeError{Endpoint: endpoint, Err: errNoCheckoutURL}
	}
	return &models.Checkout{URL: u}, nil
}
