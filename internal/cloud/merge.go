package cloud

import "storegen/internal/models"

// Merge reconciles the cloud copy against the local cache: a cloud store
// replaces a local entry with the same identifier, cloud-only entries
// are appended, and local-only entries (e.g. created while offline) are
// preserved in place.
func Merge(local, remote []models.Store) []models.Store {
	remoteByID := make(map[string]models.Store, len(remote))
	for _, s := range remote {
		remoteByID[s.ID] = s
	}

	merged := make([]models.Store, 0, len(local)+len(remote))
	seen := make(map[string]bool, len(local))
	for _, s := range local {
		if cloudCopy, ok := remoteByID[s.ID]; ok {
			merged = append(merged, cloudCopy)
		} else {
			merged = append(merged, s)
		}
		seen[s.ID] = true
	}
	for _, s := range remote {
		if !seen[s.ID] {
			merged = append(merged, s)
		}
	}
	return merged
}
