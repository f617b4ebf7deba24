package listing

import (
	"strconv"
	"strings"

	"artisanhub/backend/pkg/models"
)

// Filter and sort names accepted by the job and artisan listings.
const (
	FilterCategory = "category"
	FilterLocation = "location"
	FilterPrice    = "price"
	FilterStatus   = "status"
	FilterSearch   = "search"
	FilterVerified = "verified"

	SortNewest  = "newest"
	SortTitle   = "title"
	SortBudget  = "budget"
	SortName    = "name"
	SortRating  = "rating"
	SortReviews = "reviews"
)

// JobEngine returns an Engine configured for job listings.
func JobEngine() *Engine[models.Job] {
	return NewEngine[models.Job]().
		Filter(FilterCategory, ExactFold(func(j models.Job) string { return j.Category })).
		Filter(FilterLocation, ContainsFold(func(j models.Job) string { return j.Location.String() })).
		Filter(FilterPrice, PriceBucket(func(j models.Job) string { return j.PriceRange })).
		Filter(FilterStatus, ExactFold(func(j models.Job) string { return string(j.Status) })).
		Filter(FilterSearch, AnyContainsFold(
			func(j models.Job) string { return j.Title },
			func(j models.Job) string { return j.Description },
		)).
		SortBy(SortNewest, func(a, b models.Job) bool { return a.CreatedAt.After(b.CreatedAt) }).
		SortBy(SortTitle, func(a, b models.Job) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }).
		SortBy(SortBudget, func(a, b models.Job) bool { return budgetOf(a) < budgetOf(b) })
}

// ArtisanEngine returns an Engine configured for artisan discovery.
func ArtisanEngine() *Engine[models.Artisan] {
	return NewEngine[models.Artisan]().
		Filter(FilterCategory, ExactFold(func(a models.Artisan) string { return a.Category })).
		Filter(FilterLocation, ContainsFold(func(a models.Artisan) string { return a.Location.String() })).
		Filter(FilterPrice, PriceBucket(func(a models.Artisan) string { return a.PriceRange })).
		Filter(FilterVerified, func(a models.Artisan, value string) bool {
			want, err := strconv.ParseBool(value)
			return err == nil && a.Verified == want
		}).
		Filter(FilterSearch, AnyContainsFold(
			func(a models.Artisan) string { return a.Name },
			func(a models.Artisan) string { return strings.Join(a.Skills, " ") },
			func(a models.Artisan) string { return a.Bio },
		)).
		SortBy(SortName, func(a, b models.Artisan) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }).
		SortBy(SortRating, func(a, b models.Artisan) bool { return a.Rating < b.Rating }).
		SortBy(SortReviews, func(a, b models.Artisan) bool { return a.ReviewCount < b.ReviewCount })
}

func budgetOf(j models.Job) float64 {
	if j.Budget != nil {
		return *j.Budget
	}
	if lo, _, ok := ParsePriceRange(j.PriceRange); ok {
		return lo
	}
	return 0
}
