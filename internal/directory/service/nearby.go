package service

import (
	"sort"

	"rolloff_directory_backend/internal/directory/repository"
	"rolloff_directory_backend/platform/geo"
)

// nearbyCity is a candidate city annotated with its computed great-circle
// distance from the reference point. It exists only for one query.
type nearbyCity struct {
	repository.CandidateCity
	DistanceMiles float64
}

// nearestCities ranks candidates by haversine distance from (lat, lon) and
// returns at most limit entries. Distance ties (duplicate or placeholder
// coordinates) break by population desc, then city slug asc, so results
// are deterministic. Fewer candidates than limit returns all of them.
//
// The scan is O(n) over the candidate set, which is fine at tens of
// thousands of cities.
func nearestCities(lat, lon float64, candidates []repository.CandidateCity, limit int) []nearbyCity {
	if limit <= 0 {
		return []nearbyCity{}
	}

	ranked := make([]nearbyCity, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, nearbyCity{
			CandidateCity: c,
			DistanceMiles: geo.HaversineMiles(lat, lon, c.Latitude, c.Longitude),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.DistanceMiles != b.DistanceMiles {
			return a.DistanceMiles < b.DistanceMiles
		}
		if a.Population != b.Population {
			return a.Population > b.Population
		}
		return a.CitySlug < b.CitySlug
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
