package cli

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	errTitleRequired      = errors.New("a title argument or --file is required")
	errTitleWithFile      = errors.New("a title argument cannot be combined with --file")
	errCommissionRequired = errors.New("--commission is required")
	errShipmentRequired   = errors.New("--shipment is required")
)

// entityPrefixes maps entity types to their expected ID prefixes
var entityPrefixes = map[string]string{
	"commission": "COMM",
	"shipment":   "SHIP",
	"task":       "TASK",
	"repo":       "REPO",
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// validateEntityID checks if an ID has the correct prefix format.
// Returns an error with helpful message if the ID appears to be a short ID.
func validateEntityID(id, entityType string) error {
	if id == "" {
		return nil // Empty is OK, let other validation handle required fields
	}

	prefix, ok := entityPrefixes[entityType]
	if !ok {
		return nil
	}

	expectedPattern := prefix + "-"
	if strings.HasPrefix(id, expectedPattern) {
		return nil
	}

	if digitsOnly.MatchString(id) {
		return fmt.Errorf("invalid %s ID '%s'. Use full ID format: %s-%s", entityType, id, prefix, id)
	}

	// IDs are case-sensitive
	if strings.HasPrefix(strings.ToUpper(id), expectedPattern) {
		return fmt.Errorf("invalid %s ID '%s'. IDs are case-sensitive, use: %s", entityType, id, strings.ToUpper(id))
	}

	return fmt.Errorf("invalid %s ID '%s'. Expected format: %s-xxx", entityType, id, prefix)
}
