package marketplace

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"artisanhub/backend/pkg/models"
)

// ListArtisans returns every discoverable artisan.
func (c *Client) ListArtisans(ctx context.Context, token string) ([]models.Artisan, error) {
	var artisans []models.Artisan
	if err := c.do(ctx, request{method: http.MethodGet, path: "/ArtisanDiscovery", token: token}, &artisans); err != nil {
		return nil, err
	}
	return artisans, nil
}

// GetArtisan fetches one artisan profile.
func (c *Client) GetArtisan(ctx context.Context, token, id string) (*models.Artisan, error) {
	var artisan models.Artisan
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/ArtisanDiscovery/GetArtisanById",
		query:  url.Values{"artisanId": {id}},
		token:  token,
	}, &artisan)
	if err != nil {
		return nil, err
	}
	return &artisan, nil
}

// HireArtisan posts a multipart hire request for artisanID at price.
func (c *Client) HireArtisan(ctx context.Context, token, artisanID string, price float64, body io.Reader, contentType string) (*CreatedResource, error) {
	var res CreatedResource
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/ArtisanDiscovery",
		query: url.Values{
			"artisanId": {artisanID},
			"price":     {strconv.FormatFloat(price, 'f', -1, 64)},
		},
		token:       token,
		body:        body,
		contentType: contentType,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
