package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskcheck/console/internal/client/api"
	"github.com/riskcheck/console/internal/client/models"
	"github.com/riskcheck/console/internal/common"
)

// CustomListQuery filters GET /custom-list/get. Zero fields are omitted.
type CustomListQuery struct {
	Category models.Category
	Limit    int
	Offset   int
}

func (q CustomListQuery) values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", string(q.Category))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 || q.Limit > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v
}

// CustomListService manages allow/block entries that override scoring.
type CustomListService interface {
	Create(ctx context.Context, value string, category models.Category) (*models.CustomListEntry, error)
	Get(ctx context.Context, q CustomListQuery) (*models.CustomListPage, error)
}

type customListService struct {
	client *api.Client
}

func NewCustomListService(client *api.Client) CustomListService {
	return &customListService{client: client}
}

func (s *customListService) Create(ctx context.Context, value string, category models.Category) (*models.CustomListEntry, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, common.ErrEmptyValue
	}
	if !category.Valid() {
		return nil, common.ErrInvalidCategory
	}

	env, err := api.Post[*models.CustomListEntry](ctx, s.client, "/custom-list/create", map[string]string{
		"value":    value,
		"category": string(category),
	})
	if err != nil {
		return nil, fmt.Errorf("create custom list entry error: %w", err)
	}
	if env.Data == nil {
		return &models.CustomListEntry{Value: value, Category: category}, nil
	}
	return env.Data, nil
}

func (s *customListService) Get(ctx context.Context, q CustomListQuery) (*models.CustomListPage, error) {
	if q.Category != "" && !q.Category.Valid() {
		return nil, common.ErrInvalidCategory
	}
	env, err := api.Get[models.CustomListPage](ctx, s.client, "/custom-list/get", q.values())
	if err != nil {
		return nil, fmt.Errorf("get custom list error: %w", err)
	}
	return &env.Data, nil
}
