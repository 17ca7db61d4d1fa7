package service

import "context"

// dashboardCachePattern matches every cached dashboard payload. Mutating
// services clear it so the next dashboard read rebuilds from fresh data.
const dashboardCachePattern = "dashboard:*"

type dashboardInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// persistedIDMinLength distinguishes backend-issued ids (UUIDs, 36 chars)
// from the short temporary ids clients mint for unsaved rows.
const persistedIDMinLength = 30

// persistedID returns the id if it looks backend-issued, otherwise empty
// so the repository generates a fresh one on upsert.
func persistedID(id string) string {
	if len(id) >= persistedIDMinLength {
		return id
	}
	return ""
}
