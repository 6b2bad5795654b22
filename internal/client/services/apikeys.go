package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/riskcheck/console/internal/client/api"
	"github.com/riskcheck/console/internal/client/models"
	"github.com/riskcheck/console/internal/common"
)

// APIKeyService manages the API keys used to call the check endpoints.
type APIKeyService interface {
	List(ctx context.Context) (*models.APIKeyList, error)
	Create(ctx context.Context, name, description string) (*models.CreatedAPIKey, error)
	Revoke(ctx context.Context, id string) error
}

type apiKeyService struct {
	client *api.Client
}

func NewAPIKeyService(client *api.Client) APIKeyService {
	return &apiKeyService{client: client}
}

func (s *apiKeyService) List(ctx context.Context) (*models.APIKeyList, error) {
	env, err := api.Get[models.APIKeyList](ctx, s.client, "/api-keys/list", nil)
	if err != nil {
		return nil, fmt.Errorf("list api keys error: %w", err)
	}
	return &env.Data, nil
}

func (s *apiKeyService) Create(ctx context.Context, name, description string) (*models.CreatedAPIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("key name: %w", common.ErrEmptyValue)
	}

	env, err := api.Post[models.CreatedAPIKey](ctx, s.client, "/api-keys/create", map[string]string{
		"name":        name,
		"description": strings.TrimSpace(description),
	})
	if err != nil {
		return nil, fmt.Errorf("create api key error: %w", err)
	}
	// data absent altogether never reaches CreatedAPIKey.UnmarshalJSON
	if env.Data.Key == "" {
		return nil, &api.DecodeError{Endpoint: "POST /api-keys/create", Err: models.ErrMissingAPIKey}
	}
	return &env.Data, nil
}

func (s *apiKeyService) Revoke(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("key id: %w", common.ErrEmptyValue)
	}
	if _, err := api.Post[json.RawMessage](ctx, s.client, "/api-keys/revoke", map[string]string{"apiKeyId": id}); err != nil {
		return fmt.Errorf("revoke api key error: %w", err)
	}
	return nil
}
