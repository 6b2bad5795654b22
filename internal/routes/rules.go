// Package routes classifies console paths as public or protected and
// decides where a request should be redirected given whether it carries a
// session.
package routes

import "strings"

type Rule string

const (
	Public    Rule = "public"
	Protected Rule = "protected"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Rules maps path prefixes to their rule. A prefix matches itself and any
// path below it.
var Rules = map[string]Rule{
	"/":               Public,
	"/login":          Public,
	"/register":       Public,
	"/reset-password": Public,
	"/auth/callback":  Public,

	"/dashboard":    Protected,
	"/api-key":      Protected,
	"/analytics":    Protected,
	"/settings":     Protected,
	"/custom-list":  Protected,
	"/subscription": Protected,
}

// Skipped paths are static assets served without gating.
var Skipped = []string{"/_next/static", "/_next/image", "/favicon.ico"}

// Classify returns the rule for path. The longest matching prefix wins and
// unmatched paths are public.
func Classify(path string) Rule {
	best, rule := -1, Public
	for prefix, r := range Rules {
		if !matches(path, prefix) {
			continue
		}
		if len(prefix) > best {
			best, rule = len(prefix), r
		}
	}
	return rule
}

// "/" only matches the root itself, otherwise every path would be public.
func matches(path, prefix string) bool {
	if path == prefix {
		return true
	}
	if prefix == "/" {
		return false
	}
	return strings.HasPrefix(path, prefix+"/")
}

// IsSkipped reports whether path is a static asset.
func IsSkipped(path string) bool {
	for _, p := range Skipped {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Decision is the outcome of gating one request.
type Decision struct {
	Redirect string
}

func (d Decision) Pass() bool { return d.Redirect == "" }

// Decide sends signed-in users away from public pages and anonymous users
// away from protected ones.
func Decide(path string, authenticated bool) Decision {
	switch Classify(path) {
	case Public:
		if authenticated {
			return Decision{Redirect: DashboardPath}
		}
	case Protected:
		if !authenticated {
			return Decision{Redirect: LoginPath}
		}
	}
	return Decision{}
}
