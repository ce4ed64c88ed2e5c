package aggregate

import (
	"fmt"
	"regexp"
	"strings"
)

// NameCleaner rewrites a display name. It must not depend on anything but its input.
type NameCleaner func(string) string

// NewNameCleaner strips an organization name used as a prefix ("City of Moody - Police")
// or a parenthesized suffix ("Police (City of Moody)"), plus any extra patterns.
func NewNameCleaner(organization string, extra ...string) (NameCleaner, error) {
	var patterns []*regexp.Regexp
	if org := strings.TrimSpace(organization); org != "" {
		quoted := regexp.QuoteMeta(org)
		patterns = append(patterns,
			regexp.MustCompile(`(?i)^\s*`+quoted+`\s*[-:–—]?\s*`),
			regexp.MustCompile(`(?i)\s*\(`+quoted+`\)\s*$`),
		)
	}
	for _, expr := range extra {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid name pattern %q: %w", expr, err)
		}
		patterns = append(patterns, re)
	}

	return func(name string) string {
		for _, re := range patterns {
			name = re.ReplaceAllString(name, "")
		}
		return strings.TrimSpace(name)
	}, nil
}
