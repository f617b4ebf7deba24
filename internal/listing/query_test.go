package listing

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artisanhub/backend/pkg/models"
)

func makeJobs(n int) []models.Job {
	jobs := make([]models.Job, n)
	for i := range jobs {
		jobs[i] = models.Job{ID: fmt.Sprintf("job-%02d", i+1), Title: fmt.Sprintf("Job %d", i+1)}
	}
	return jobs
}

func TestApply_Pagination(t *testing.T) {
	e := JobEngine()
	jobs := makeJobs(23)

	page := e.Apply(jobs, Query{Page: 3, PageSize: 8})
	assert.Len(t, page.Items, 7)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 23, page.TotalRecords)
	assert.Equal(t, "job-17", page.Items[0].ID)

	page = e.Apply(jobs, Query{Page: 1, PageSize: 8})
	assert.Len(t, page.Items, 8)
}

func TestApply_PageIsClampedIntoRange(t *testing.T) {
	e := JobEngine()
	jobs := makeJobs(23)

	page := e.Apply(jobs, Query{Page: 9, PageSize: 8})
	assert.Equal(t, 3, page.Page)
	assert.Len(t, page.Items, 7)

	page = e.Apply(jobs, Query{Page: 0})
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.PageSize)
}

func TestApply_EmptyResultHasZeroPages(t *testing.T) {
	page := JobEngine().Apply(nil, Query{Page: 4, PageSize: 8})
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 0, page.TotalRecords)
	assert.Equal(t, 1, page.Page)
}

func TestApply_HugePageSize(t *testing.T) {
	jobs := makeJobs(23)

	page := JobEngine().Apply(jobs, Query{Page: 1, PageSize: math.MaxInt})
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 23, page.TotalRecords)
	assert.Len(t, page.Items, 23)

	page = JobEngine().Apply(jobs, Query{Page: math.MaxInt, PageSize: math.MaxInt - 1})
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Items, 23)

	page = JobEngine().Apply(nil, Query{Page: math.MaxInt, PageSize: math.MaxInt})
	assert.Equal(t, 0, page.TotalPages)
	assert.Empty(t, page.Items)
}

func TestSetFilter_ResetsPage(t *testing.T) {
	for _, prior := range []int{2, 3, 10, 99} {
		q := Query{Page: prior}
		q.SetFilter(FilterCategory, "Plumbing")
		assert.Equal(t, 1, q.Page)

		q.Page = prior
		q.SetFilter(FilterCategory, "")
		assert.Equal(t, 1, q.Page)

		q.Page = prior
		q.ClearFilters()
		assert.Equal(t, 1, q.Page)
	}
}

func TestApply_FiltersAreConjunctive(t *testing.T) {
	jobs := []models.Job{
		{ID: "1", Category: "Plumbing", Location: models.Location{City: "Ikeja", State: "Lagos"}},
		{ID: "2", Category: "plumbing", Location: models.Location{City: "Ibadan", State: "Oyo"}},
		{ID: "3", Category: "Electrical", Location: models.Location{City: "Lekki", State: "Lagos"}},
	}
	e := JobEngine()

	page := e.Apply(jobs, Query{Filters: map[string]string{
		FilterCategory: "PLUMBING",
		FilterLocation: "lagos",
	}})
	require.Len(t, page.Items, 1)
	assert.Equal(t, "1", page.Items[0].ID)

	page = e.Apply(jobs, Query{Filters: map[string]string{
		FilterCategory: "all",
		FilterLocation: "",
		"unknown":      "whatever",
	}})
	assert.Len(t, page.Items, 3)
}

func TestApply_DoesNotMutateSource(t *testing.T) {
	jobs := []models.Job{{ID: "b", Title: "b"}, {ID: "a", Title: "a"}, {ID: "c", Title: "c"}}
	JobEngine().Apply(jobs, Query{Sort: SortTitle})
	assert.Equal(t, []string{"b", "a", "c"}, []string{jobs[0].ID, jobs[1].ID, jobs[2].ID})
}

func TestApply_StableSort(t *testing.T) {
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	jobs := []models.Job{
		{ID: "1", CreatedAt: base},
		{ID: "2", CreatedAt: base.Add(time.Hour)},
		{ID: "3", CreatedAt: base},
		{ID: "4", CreatedAt: base.Add(time.Hour)},
	}

	page := JobEngine().Apply(jobs, Query{Sort: SortNewest})
	var ids []string
	for _, j := range page.Items {
		ids = append(ids, j.ID)
	}
	assert.Equal(t, []string{"2", "4", "1", "3"}, ids)
}

func TestPriceBucket(t *testing.T) {
	m := PriceBucket(func(j models.Job) string { return j.PriceRange })
	job := models.Job{PriceRange: "₦3,000 – ₦4,000"}

	assert.True(t, m(job, "under-5000"))
	assert.False(t, m(job, "5000-10000"))
	assert.False(t, m(job, "no-such-bucket"))

	assert.True(t, m(models.Job{PriceRange: "₦12,500 – ₦18,000"}, "10000-20000"))
	assert.True(t, m(models.Job{PriceRange: "₦25,000"}, "above-20000"))
	assert.False(t, m(models.Job{PriceRange: "₦4,000 – ₦6,000"}, "under-5000"))
	assert.False(t, m(models.Job{PriceRange: "negotiable"}, "under-5000"))
}

func TestBucket_ClassifiesOnce(t *testing.T) {
	tests := []struct {
		display string
		want    string
	}{
		{"₦5,000", "5000-10000"},
		{"₦10,000 – ₦10,000", "10000-20000"},
		{"₦0 – ₦5,000", "under-5000"},
		{"₦5,000 – ₦10,000", "5000-10000"},
		{"₦20,000", "above-20000"},
		{"₦20,000 – ₦45,000", "above-20000"},
	}

	for _, tt := range tests {
		t.Run(tt.display, func(t *testing.T) {
			lo, hi, ok := ParsePriceRange(tt.display)
			require.True(t, ok)
			var matched []string
			for _, b := range PriceBuckets {
				if b.Contains(lo, hi) {
					matched = append(matched, b.Name)
				}
			}
			assert.Equal(t, []string{tt.want}, matched)
		})
	}
}

func TestParsePriceRange(t *testing.T) {
	tests := []struct {
		in     string
		lo, hi float64
		ok     bool
	}{
		{"₦3,000 – ₦4,000", 3000, 4000, true},
		{"₦10,000-₦5,000", 5000, 10000, true},
		{"₦7,500", 7500, 7500, true},
		{"", 0, 0, false},
		{"call for price", 0, 0, false},
	}
	for _, tt := range tests {
		lo, hi, ok := ParsePriceRange(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.lo, lo, tt.in)
		assert.Equal(t, tt.hi, hi, tt.in)
	}
}

func TestArtisanEngine(t *testing.T) {
	artisans := []models.Artisan{
		{ID: "a1", Name: "Tunde", Category: "Carpentry", Rating: 4.2, Verified: true, Skills: []string{"cabinets"}},
		{ID: "a2", Name: "Ngozi", Category: "Carpentry", Rating: 4.9, Verified: false},
		{ID: "a3", Name: "Bola", Category: "Carpentry", Rating: 4.9, Verified: true},
	}
	e := ArtisanEngine()

	page := e.Apply(artisans, Query{Sort: SortRating, Desc: true})
	assert.Equal(t, "a2", page.Items[0].ID, "ties keep source order")
	assert.Equal(t, "a3", page.Items[1].ID)

	page = e.Apply(artisans, Query{Filters: map[string]string{FilterVerified: "true", FilterSearch: "cabinet"}})
	require.Len(t, page.Items, 1)
	assert.Equal(t, "a1", page.Items[0].ID)
}
