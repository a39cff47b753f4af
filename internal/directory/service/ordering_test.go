package service

import (
	"testing"

	"github.com/google/uuid"

	"rolloff_directory_backend/internal/directory/repository"
)

func rating(v float64) *float64 {
	return &v
}

func TestCompareBusinessesTierBeatsRating(t *testing.T) {
	featured := repository.Business{ID: uuid.New(), Tier: repository.TierFeatured}
	free := repository.Business{ID: uuid.New(), Tier: repository.TierFree, Rating: rating(5.0), ReviewCount: 500}

	if !compareBusinesses(featured, free) {
		t.Fatalf("unrated featured listing must sort before a five-star free listing")
	}
	if compareBusinesses(free, featured) {
		t.Fatalf("free listing must never outrank a featured listing")
	}
}

func TestCompareBusinessesRatedBeforeUnrated(t *testing.T) {
	rated := repository.Business{ID: uuid.New(), Tier: repository.TierVerified, Rating: rating(3.0)}
	unrated := repository.Business{ID: uuid.New(), Tier: repository.TierVerified}

	if !compareBusinesses(rated, unrated) {
		t.Fatalf("a rated listing must sort before an unrated one in the same tier")
	}
}

func TestCompareBusinessesRatingDescending(t *testing.T) {
	high := repository.Business{ID: uuid.New(), Tier: repository.TierFree, Rating: rating(4.8)}
	low := repository.Business{ID: uuid.New(), Tier: repository.TierFree, Rating: rating(4.2)}

	if !compareBusinesses(high, low) {
		t.Fatalf("higher rating must sort first within a tier")
	}
}

func TestCompareBusinessesReviewCountTieBreak(t *testing.T) {
	many := repository.Business{ID: uuid.New(), Tier: repository.TierFree, Rating: rating(4.5), ReviewCount: 120}
	few := repository.Business{ID: uuid.New(), Tier: repository.TierFree, Rating: rating(4.5), ReviewCount: 12}

	if !compareBusinesses(many, few) {
		t.Fatalf("equal ratings must break on review count desc")
	}
}

func TestCompareBusinessesIDTieBreakIsDeterministic(t *testing.T) {
	a := repository.Business{ID: uuid.MustParse("11111111-1111-4111-8111-111111111111"), Tier: repository.TierFree}
	b := repository.Business{ID: uuid.MustParse("22222222-2222-4222-8222-222222222222"), Tier: repository.TierFree}

	if !compareBusinesses(a, b) {
		t.Fatalf("fully tied listings must order by id asc")
	}
	if compareBusinesses(b, a) {
		t.Fatalf("id tie-break must be asymmetric")
	}
}

func TestSortBusinessesFullOrdering(t *testing.T) {
	ids := []uuid.UUID{
		uuid.MustParse("aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"),
		uuid.MustParse("bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"),
		uuid.MustParse("cccccccc-cccc-4ccc-8ccc-cccccccccccc"),
		uuid.MustParse("dddddddd-dddd-4ddd-8ddd-dddddddddddd"),
		uuid.MustParse("eeeeeeee-eeee-4eee-8eee-eeeeeeeeeeee"),
	}

	businesses := []repository.Business{
		{ID: ids[0], Name: "free-low", Tier: repository.TierFree, Rating: rating(3.0)},
		{ID: ids[1], Name: "featured-unrated", Tier: repository.TierFeatured},
		{ID: ids[2], Name: "verified", Tier: repository.TierVerified, Rating: rating(4.0)},
		{ID: ids[3], Name: "featured-rated", Tier: repository.TierFeatured, Rating: rating(2.0)},
		{ID: ids[4], Name: "free-high", Tier: repository.TierFree, Rating: rating(4.9)},
	}

	sortBusinesses(businesses)

	want := []string{"featured-rated", "featured-unrated", "verified", "free-high", "free-low"}
	for i, name := range want {
		if businesses[i].Name != name {
			t.Fatalf("position %d: got %q, want %q", i, businesses[i].Name, name)
		}
	}
}

func TestAverageRatingExcludesUnrated(t *testing.T) {
	businesses := []repository.Business{
		{Rating: rating(4.0)},
		{Rating: rating(5.0)},
		{},
	}

	avg := averageRating(businesses)
	if avg == nil {
		t.Fatalf("expected an average, got nil")
	}
	if *avg != 4.5 {
		t.Fatalf("got average %v, want 4.5", *avg)
	}
}

func TestAverageRatingNilWhenNothingRated(t *testing.T) {
	if avg := averageRating([]repository.Business{{}, {}}); avg != nil {
		t.Fatalf("expected nil average for unrated listings, got %v", *avg)
	}
	if avg := averageRating(nil); avg != nil {
		t.Fatalf("expected nil average for no listings, got %v", *avg)
	}
}

func TestAverageRatingRoundsToOneDecimal(t *testing.T) {
	businesses := []repository.Business{
		{Rating: rating(4.0)},
		{Rating: rating(4.0)},
		{Rating: rating(5.0)},
	}

	avg := averageRating(businesses)
	if avg == nil || *avg != 4.3 {
		t.Fatalf("got %v, want 4.3", avg)
	}
}
