package app

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

// GenerateShipmentBranchName generates a branch name for a shipment linked
// to a repo. Format: {prefix}/{shipmentID}-{slug}
func GenerateShipmentBranchName(prefix, shipmentID, title string) string {
	name := strings.ToLower(shipmentID) + "-" + generateSlug(title, 30)
	name = strings.TrimRight(name, "-")
	if prefix == "" {
		return name
	}
	return fmt.Sprintf("%s/%s", prefix, name)
}

// generateSlug creates a URL-friendly slug from a title.
func generateSlug(title string, maxLen int) string {
	slug := strings.ToLower(title)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = hyphenRuns.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > maxLen {
		// Don't end on a hyphen
		slug = strings.TrimRight(slug[:maxLen], "-")
	}

	return slug
}
