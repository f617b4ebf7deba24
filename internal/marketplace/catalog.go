package marketplace

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"artisanhub/backend/pkg/models"
)

// ListCategories returns the trade taxonomy.
func (c *Client) ListCategories(ctx context.Context, token string) ([]models.Category, error) {
	var cats []models.Category
	if err := c.do(ctx, request{method: http.MethodGet, path: "/ArtisanCategory", token: token}, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// ListSubcategories returns the subcategories of categoryID.
func (c *Client) ListSubcategories(ctx context.Context, token, categoryID string) ([]models.Subcategory, error) {
	var subs []models.Subcategory
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/ArtisanSubcategory/category/" + url.PathEscape(categoryID),
		token:  token,
	}, &subs)
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// CurrentUser returns the account the token belongs to.
func (c *Client) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/Users/GetCurrentUser", token: token}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UserUpdate holds the editable profile fields.
type UserUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// UpdateUser changes profile fields of user id.
func (c *Client) UpdateUser(ctx context.Context, token, id string, upd UserUpdate) (*models.User, error) {
	r, err := jsonRequest(http.MethodPost, "/Users/"+url.PathEscape(id)+"/update", token, upd)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := c.do(ctx, r, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UploadPicture sends a multipart profile picture.
func (c *Client) UploadPicture(ctx context.Context, token string, body io.Reader, contentType string) (*Ack, error) {
	var ack Ack
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/Users/upload-picture",
		token:       token,
		body:        body,
		contentType: contentType,
	}, &ack)
	if err != nil {
		return nil, err
	}
	return &ack, nil
}
