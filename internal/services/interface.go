package services

import (
	"context"
	"io"
	"net/url"

	"artisanhub/backend/internal/marketplace"
	"artisanhub/backend/pkg/models"
)

// JobPoster sends finished workflows to the marketplace.
type JobPoster interface {
	// CreateJob posts a multipart job listing.
	CreateJob(ctx context.Context, token string, body io.Reader, contentType string) (*marketplace.CreatedResource, error)
	// HireArtisan posts a multipart hire request.
	HireArtisan(ctx context.Context, token, artisanID string, price float64, body io.Reader, contentType string) (*marketplace.CreatedResource, error)
}

// Catalog reads the lists the listing screens page through.
type Catalog interface {
	ListCustomerJobs(ctx context.Context, token string, filter url.Values) ([]models.Job, error)
	ListArtisans(ctx context.Context, token string) ([]models.Artisan, error)
	GetArtisan(ctx context.Context, token, id string) (*models.Artisan, error)
	ListCategories(ctx context.Context, token string) ([]models.Category, error)
	ListSubcategories(ctx context.Context, token, categoryID string) ([]models.Subcategory, error)
}

// Logger defines the logging interface compatible with the application logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
