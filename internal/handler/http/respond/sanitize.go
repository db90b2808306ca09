package respond

import (
	"regexp"
)

var (
	// userinfo in URLs, e.g. a scorer URL with basic auth
	urlCredentialPattern = regexp.MustCompile(`://([^:/@\s]+):([^@/\s]+)@`)

	// bearer tokens echoed back by upstream servers
	bearerTokenPattern = regexp.MustCompile(`(?i)bearer\s+[a-z0-9._~+/=-]+`)

	// api_key / token style query parameters
	secretParamPattern = regexp.MustCompile(`(?i)\b(api_key|apikey|access_token|token)=([^&\s]+)`)
)

// SanitizeError returns the error message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = urlCredentialPattern.ReplaceAllString(msg, "://$1:****@")
	msg = bearerTokenPattern.ReplaceAllString(msg, "Bearer ****")
	msg = secretParamPattern.ReplaceAllString(msg, "$1=****")
	return msg
}
