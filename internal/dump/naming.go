package dump

import (
	"regexp"
	"strings"
)

var (
	lowerUpperRe = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	acronymRe    = regexp.MustCompile(`([A-Z])([A-Z][a-z])`)
)

// ToSnakeCase converts a camelCase column name to snake_case. Names without
// an uppercase ASCII letter are returned unchanged.
func ToSnakeCase(name string) string {
	if strings.IndexFunc(name, func(r rune) bool { return r >= 'A' && r <= 'Z' }) < 0 {
		return name
	}
	s := lowerUpperRe.ReplaceAllString(name, "${1}_${2}")
	s = acronymRe.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}
