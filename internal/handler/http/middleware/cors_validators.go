package middleware

import "strings"

// OriginValidator decides whether a browser origin may call the API.
type OriginValidator interface {
	IsAllowed(origin string) bool
	// GetAllowedOrigins returns a copy of the configured origins for logging.
	GetAllowedOrigins() []string
}

// WhitelistValidator matches origins against a fixed list. Comparison is
// case-insensitive and ignores a trailing slash. The entry "*" allows any
// origin.
type WhitelistValidator struct {
	allowedOrigins []string
	allowAny       bool
}

// NewWhitelistValidator normalizes origins and drops empty entries.
func NewWhitelistValidator(origins []string) *WhitelistValidator {
	v := &WhitelistValidator{allowedOrigins: make([]string, 0, len(origins))}
	for _, origin := range origins {
		origin = normalizeOrigin(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			v.allowAny = true
		}
		v.allowedOrigins = append(v.allowedOrigins, origin)
	}
	return v
}

// IsAllowed reports whether origin is whitelisted. An empty origin is never allowed.
func (v *WhitelistValidator) IsAllowed(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" {
		return false
	}
	if v.allowAny {
		return true
	}
	for _, allowed := range v.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// GetAllowedOrigins returns the normalized whitelist.
func (v *WhitelistValidator) GetAllowedOrigins() []string {
	out := make([]string, len(v.allowedOrigins))
	copy(out, v.allowedOrigins)
	return out
}

func normalizeOrigin(origin string) string {
	origin = strings.ToLower(strings.TrimSpace(origin))
	return strings.TrimSuffix(origin, "/")
}
