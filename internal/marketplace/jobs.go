package marketplace

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"artisanhub/backend/pkg/models"
)

// CreatedResource is the answer to a multipart create call.
type CreatedResource struct {
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
}

// ListCustomerJobs returns the signed-in customer's jobs. filter is passed
// through as query parameters.
func (c *Client) ListCustomerJobs(ctx context.Context, token string, filter url.Values) ([]models.Job, error) {
	var jobs []models.Job
	err := c.do(ctx, request{method: http.MethodGet, path: "/JobListing/customer", query: filter, token: token}, &jobs)
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetJob fetches one job.
func (c *Client) GetJob(ctx context.Context, token, id string) (*models.Job, error) {
	var job models.Job
	err := c.do(ctx, request{method: http.MethodGet, path: "/JobListing/" + url.PathEscape(id), token: token}, &job)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateJob posts a multipart job listing.
func (c *Client) CreateJob(ctx context.Context, token string, body io.Reader, contentType string) (*CreatedResource, error) {
	var res CreatedResource
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/JobListing/",
		token:       token,
		body:        body,
		contentType: contentType,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteJob removes a job listing.
func (c *Client) DeleteJob(ctx context.Context, token, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/JobListing/" + url.PathEscape(id), token: token}, nil)
}
