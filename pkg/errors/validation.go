package errors

import (
	"regexp"
	"slices"
)

// MaxNodes bounds the size of generated graphs.
const MaxNodes = 2000

// ValidateNodeCount validates the number of nodes requested for a generated
// graph.
func ValidateNodeCount(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidInput, "node count must be positive, got %d", n)
	}
	if n > MaxNodes {
		return New(ErrCodeInvalidInput, "node count too large (max %d), got %d", MaxNodes, n)
	}
	return nil
}

// ValidateProbability validates a probability in [0, 1].
func ValidateProbability(name string, p float64) error {
	if p < 0 || p > 1 || p != p {
		return New(ErrCodeInvalidInput, "%s must be within [0, 1], got %v", name, p)
	}
	return nil
}

// graphIDRegex matches canonical lowercase UUIDs.
var graphIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateGraphID validates a stored graph id as it appears in URLs.
func ValidateGraphID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "graph id cannot be empty")
	}
	if !graphIDRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid graph id: %q", id)
	}
	return nil
}

// Formats lists the supported output formats.
var Formats = []string{"svg", "html", "json"}

// ValidateFormat validates an output format name.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %v)", format, Formats)
	}
	return nil
}

// Layouts lists the supported layout algorithms.
var Layouts = []string{"radial", "circular", "none"}

// ValidateLayout validates a layout algorithm name.
func ValidateLayout(name string) error {
	if !slices.Contains(Layouts, name) {
		return New(ErrCodeInvalidLayout, "unsupported layout %q (want one of %v)", name, Layouts)
	}
	return nil
}
