package core

import (
	"regexp"
	"unicode/utf8"
)

// Group name bounds, applied after sanitization.
const (
	GroupNameMinLength = 2
	GroupNameMaxLength = 50
)

// GroupIcons is the fixed whitelist of icon identifiers the client can
// render. Membership is enforced on every write, not just creation.
var GroupIcons = map[string]struct{}{
	"home":      {},
	"cart":      {},
	"utensils":  {},
	"car":       {},
	"airplane":  {},
	"heart":     {},
	"star":      {},
	"gift":      {},
	"paw":       {},
	"briefcase": {},
	"piggybank": {},
	"users":     {},
}

// GroupColors is the fixed whitelist of group accent colors, matching the
// client's palette CSS variables.
var GroupColors = map[string]struct{}{
	"#4F46E5": {},
	"#0EA5E9": {},
	"#10B981": {},
	"#F59E0B": {},
	"#EF4444": {},
	"#8B5CF6": {},
	"#EC4899": {},
	"#14B8A6": {},
}

// allowedAppIDs is the closed set of recognized application identifiers.
// AppIDs select the artifacts/{appId}/... subtree, so anything outside
// this set is rejected before a document path is ever constructed.
var allowedAppIDs = map[string]struct{}{
	"boletapp":         {},
	"boletapp-dev":     {},
	"boletapp-staging": {},
}

var appIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,62}$`)

// ValidateAppID checks an application identifier against the shape pattern
// and the allow-list.
func ValidateAppID(appID string) error {
	if appID == "" || !appIDPattern.MatchString(appID) {
		return ErrInvalidAppID
	}
	if _, ok := allowedAppIDs[appID]; !ok {
		return ErrInvalidAppID
	}
	return nil
}

// validateGroupName sanitizes a raw name and checks its length bounds,
// returning the sanitized value. Sanitization happens first, so a name
// that collapses to whitespace is rejected as too short.
func validateGroupName(raw string) (string, error) {
	name := SanitizeInput(raw, GroupNameMaxLength)
	if n := utf8.RuneCountInString(name); n < GroupNameMinLength || n > GroupNameMaxLength {
		return "", ErrInvalidGroupName
	}
	return name, nil
}

func validateGroupIcon(icon string) error {
	if _, ok := GroupIcons[icon]; !ok {
		return ErrInvalidGroupIcon
	}
	return nil
}

func validateGroupColor(color string) error {
	if _, ok := GroupColors[color]; !ok {
		return ErrInvalidGroupColor
	}
	return nil
}
