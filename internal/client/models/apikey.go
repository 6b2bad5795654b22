package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnexpectedShape = errors.New("unexpected JSON shape")
	ErrMissingAPIKey   = errors.New("response carries no api key")
)

type APIKey struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	KeyPreview  string     `json:"key_preview,omitempty"`
	KeyHash     string     `json:"api_key_hash,omitempty"`
	IsActive    bool       `json:"is_active"`
	UsageCount  int        `json:"usage_count,omitempty"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

// APIKeyList is the data of GET /api-keys/list. The backend sends either a
// bare array or {"api_keys": [...], "total_count": n}.
type APIKeyList struct {
	Keys       []APIKey
	TotalCount int
}

func (l *APIKeyList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ErrUnexpectedShape
	}
	switch b[0] {
	case '[':
		var keys []APIKey
		if err := json.Unmarshal(b, &keys); err != nil {
			return err
		}
		*l = APIKeyList{Keys: keys, TotalCount: len(keys)}
		return nil
	case '{':
		var obj struct {
			Keys       *[]APIKey `json:"api_keys"`
			TotalCount *int      `json:"total_count"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		if obj.Keys == nil {
			return fmt.Errorf("%w: object without api_keys", ErrUnexpectedShape)
		}
		l.Keys = *obj.Keys
		l.TotalCount = len(l.Keys)
		if obj.TotalCount != nil {
			l.TotalCount = *obj.TotalCount
		}
		return nil
	}
	return fmt.Errorf("%w: api key list must be an array or object", ErrUnexpectedShape)
}

// CreatedAPIKey is the data of POST /api-keys/create. The full key is only
// ever returned here.
type CreatedAPIKey struct {
	ID   string
	Name string
	Key  string
}

func (k *CreatedAPIKey) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		APIKey    string `json:"apiKey"`
		APIKeyOld string `json:"api_key"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	key := raw.APIKey
	if key == "" {
		key = raw.APIKeyOld
	}
	if key == "" {
		return ErrMissingAPIKey
	}
	*k = CreatedAPIKey{ID: raw.ID, Name: raw.Name, Key: key}
	return nil
}

// MaskKey hides the middle of keys longer than 20 characters.
func MaskKey(key string) string {
	if len(key) <= 20 {
		return key
	}
	return key[:8] + "..." + key[len(key)-8:]
}
