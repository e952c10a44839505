package mapsync

import (
	"ecotri/internal/models"
)

// MergePoints folds a freshly searched point list into the existing one.
// Existing order is preserved, incoming points are appended, duplicates are
// dropped by place URI, and the combined list is capped at max entries.
func MergePoints(existing, incoming []models.CollectionPoint, max int) []models.CollectionPoint {
	seen := make(map[string]struct{}, len(existing))
	merged := make([]models.CollectionPoint, 0, len(existing)+len(incoming))

	for _, p := range existing {
		if p.URI == "" {
			continue
		}
		if _, dup := seen[p.URI]; dup {
			continue
		}
		seen[p.URI] = struct{}{}
		merged = append(merged, p)
	}
	for _, p := range incoming {
		if p.URI == "" {
			continue
		}
		if _, dup := seen[p.URI]; dup {
			continue
		}
		seen[p.URI] = struct{}{}
		merged = append(merged, p)
	}

	if max > 0 && len(merged) > max {
		merged = merged[:max]
	}
	return merged
}
