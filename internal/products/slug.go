package product

import (
	"regexp"
	"strings"
)

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a product name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStripRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
