package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artisanhub/backend/internal/listing"
	"artisanhub/backend/internal/services"
	"artisanhub/backend/pkg/models"
)

type fakeCatalog struct {
	token    string
	artisans []models.Artisan
	err      error
}

func (f *fakeCatalog) ListCustomerJobs(ctx context.Context, token string, filter url.Values) ([]models.Job, error) {
	f.token = token
	return []models.Job{{ID: "j1", Title: "Fix Sink", Category: "Plumbing"}}, f.err
}

func (f *fakeCatalog) ListArtisans(ctx context.Context, token string) ([]models.Artisan, error) {
	f.token = token
	return f.artisans, f.err
}

func (f *fakeCatalog) GetArtisan(ctx context.Context, token, id string) (*models.Artisan, error) {
	return nil, f.err
}

func (f *fakeCatalog) ListCategories(ctx context.Context, token string) ([]models.Category, error) {
	return []models.Category{{ID: "c1", Name: "Plumbing"}}, f.err
}

func (f *fakeCatalog) ListSubcategories(ctx context.Context, token, categoryID string) ([]models.Subcategory, error) {
	return nil, f.err
}

func callTool(name string, args any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestSearchArtisans_FiltersAndUsesServiceToken(t *testing.T) {
	catalog := &fakeCatalog{artisans: []models.Artisan{
		{ID: "a1", Name: "Bola", Category: "Plumbing", Verified: true},
		{ID: "a2", Name: "Chidi", Category: "Plumbing"},
		{ID: "a3", Name: "Dayo", Category: "Electrical", Verified: true},
	}}
	s := NewServer(services.NewListingService(catalog, 0), "svc-token")

	res, err := s.handleSearchArtisans(context.Background(), callTool("search_artisans", map[string]interface{}{
		"category": "plumbing",
		"verified": true,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "svc-token", catalog.token)

	var page listing.Page[models.Artisan]
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "a1", page.Items[0].ID)
}

func TestSearchJobs(t *testing.T) {
	s := NewServer(services.NewListingService(&fakeCatalog{}, 0), "svc-token")

	res, err := s.handleSearchJobs(context.Background(), callTool("search_jobs", map[string]interface{}{"search": "sink"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "Fix Sink")

	res, err = s.handleSearchJobs(context.Background(), callTool("search_jobs", "not a map"))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestListCategories_ErrorIsToolError(t *testing.T) {
	s := NewServer(services.NewListingService(&fakeCatalog{err: errors.New("down")}, 0), "svc-token")

	res, err := s.handleListCategories(context.Background(), callTool("list_categories", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "down")
}

func TestQueryFromArgs(t *testing.T) {
	q := queryFromArgs(map[string]interface{}{
		"price":    "all",
		"location": "Lagos",
		"page":     float64(3),
		"unknown":  "x",
	})
	assert.Equal(t, map[string]string{"location": "Lagos"}, q.Filters)
	assert.Equal(t, 3, q.Page)
}
