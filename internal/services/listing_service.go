package services

import (
	"context"
	"net/url"

	"artisanhub/backend/internal/listing"
	"artisanhub/backend/pkg/models"
)

// ListingService pages through jobs and artisans fetched in full from the
// marketplace.
type ListingService struct {
	catalog  Catalog
	jobs     *listing.Engine[models.Job]
	artisans *listing.Engine[models.Artisan]
	pageSize int
}

// NewListingService creates a new ListingService. A non-positive pageSize
// selects listing.DefaultPageSize.
func NewListingService(catalog Catalog, pageSize int) *ListingService {
	if pageSize <= 0 {
		pageSize = listing.DefaultPageSize
	}
	return &ListingService{
		catalog:  catalog,
		jobs:     listing.JobEngine(),
		artisans: listing.ArtisanEngine(),
		pageSize: pageSize,
	}
}

func (s *ListingService) normalize(q listing.Query) listing.Query {
	if q.PageSize <= 0 {
		q.PageSize = s.pageSize
	}
	q.PageSize = min(q.PageSize, listing.MaxPageSize)
	return q
}

// Jobs returns one page of the customer's jobs.
func (s *ListingService) Jobs(ctx context.Context, token string, q listing.Query) (listing.Page[models.Job], error) {
	jobs, err := s.catalog.ListCustomerJobs(ctx, token, url.Values{})
	if err != nil {
		return listing.Page[models.Job]{}, err
	}
	return s.jobs.Apply(jobs, s.normalize(q)), nil
}

// Artisans returns one page of discoverable artisans.
func (s *ListingService) Artisans(ctx context.Context, token string, q listing.Query) (listing.Page[models.Artisan], error) {
	artisans, err := s.catalog.ListArtisans(ctx, token)
	if err != nil {
		return listing.Page[models.Artisan]{}, err
	}
	return s.artisans.Apply(artisans, s.normalize(q)), nil
}

// Artisan returns one artisan profile.
func (s *ListingService) Artisan(ctx context.Context, token, id string) (*models.Artisan, error) {
	return s.catalog.GetArtisan(ctx, token, id)
}

// Categories returns the trade taxonomy.
func (s *ListingService) Categories(ctx context.Context, token string) ([]models.Category, error) {
	return s.catalog.ListCategories(ctx, token)
}

// Subcategories returns the subcategories of a category.
func (s *ListingService) Subcategories(ctx context.Context, token, categoryID string) ([]models.Subcategory, error) {
	return s.catalog.ListSubcategories(ctx, token, categoryID)
}
