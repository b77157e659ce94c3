package federation

import (
	"regexp"
	"strings"
)

// spaRoute matches a bare client-side route such as "profile" or
// "courses/42".
var spaRoute = regexp.MustCompile(`^[A-Za-z0-9_-]+(/[A-Za-z0-9_-]+)*$`)

// SanitizeReturnTo returns the destination to store for a requested
// returnTo, or "" when it must be ignored. Accepted are exact allowlist
// entries, local paths ("/x", never "//host" or "/\host"), client-side
// fragments ("#/x") and bare SPA routes, which map to "/#/route".
func (f *Federator) SanitizeReturnTo(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsAny(raw, "\r\n\t") {
		return ""
	}
	if _, ok := f.allowlist[raw]; ok {
		return raw
	}

	switch {
	case strings.HasPrefix(raw, "//"), strings.HasPrefix(raw, `/\`):
		return ""
	case strings.HasPrefix(raw, "/"):
		return raw
	case strings.HasPrefix(raw, "#/"):
		return "/" + raw
	case spaRoute.MatchString(raw):
		return "/#/" + raw
	}
	return ""
}
