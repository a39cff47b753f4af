package service

import (
	"sort"

	"rolloff_directory_backend/internal/directory/repository"
)

// tierRank orders listing tiers by paid prominence. Unknown tiers rank
// below free so a bad row can never outrank a paying listing.
var tierRank = map[repository.Tier]int{
	repository.TierFeatured: 2,
	repository.TierVerified: 1,
	repository.TierFree:     0,
}

// compareBusinesses is the display-ordering policy for a city's listings:
// tier rank desc, rating desc (unrated after all rated of the same tier),
// review count desc, id asc. Returns true when a sorts before b.
//
// The SQL ORDER BY in the repository mirrors this comparator; this function
// is the audited definition and is what the tests exercise.
func compareBusinesses(a, b repository.Business) bool {
	ra, rb := tierRank[a.Tier], tierRank[b.Tier]
	if ra != rb {
		return ra > rb
	}

	switch {
	case a.Rating != nil && b.Rating == nil:
		return true
	case a.Rating == nil && b.Rating != nil:
		return false
	case a.Rating != nil && b.Rating != nil && *a.Rating != *b.Rating:
		return *a.Rating > *b.Rating
	}

	if a.ReviewCount != b.ReviewCount {
		return a.ReviewCount > b.ReviewCount
	}

	return a.ID.String() < b.ID.String()
}

// sortBusinesses applies the display-ordering policy in place.
func sortBusinesses(businesses []repository.Business) {
	sort.SliceStable(businesses, func(i, j int) bool {
		return compareBusinesses(businesses[i], businesses[j])
	})
}
