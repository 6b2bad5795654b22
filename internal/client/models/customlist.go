package models

import (
	"fmt"
	"time"
)

// Category selects which custom list an entry belongs to.
type Category string

const (
	Allowlist Category = "allowlist"
	Blocklist Category = "blocklist"
)

func (c Category) Valid() bool {
	return c == Allowlist || c == Blocklist
}

// ParseCategory accepts "allowlist"/"blocklist" and the short "allow"/"block".
func ParseCategory(s string) (Category, error) {
	switch s {
	case "allowlist", "allow":
		return Allowlist, nil
	case "blocklist", "block":
		return Blocklist, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

type CustomListEntry struct {
	ID        string    `json:"id"`
	Category  Category  `json:"category"`
	Type      string    `json:"type"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CustomListPage struct {
	Entries []CustomListEntry `json:"entries"`
	Count   int               `json:"count"`
}
