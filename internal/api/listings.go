package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"

	"artisanhub/backend/internal/listing"
	"artisanhub/backend/internal/marketplace"
)

// ListParams are the query parameters shared by the listing endpoints.
type ListParams struct {
	Category *string `form:"category"`
	Location *string `form:"location"`
	Price    *string `form:"price"`
	Status   *string `form:"status"`
	Search   *string `form:"search"`
	Verified *string `form:"verified"`
	Sort     *string `form:"sort"`
	Order    *string `form:"order"` // asc or desc
	Page     *int    `form:"page"`
	PageSize *int    `form:"pageSize"`
}

func bindListParams(c echo.Context) (ListParams, error) {
	var p ListParams
	q := c.QueryParams()
	for name, dest := range map[string]any{
		"category": &p.Category,
		"location": &p.Location,
		"price":    &p.Price,
		"status":   &p.Status,
		"search":   &p.Search,
		"verified": &p.Verified,
		"sort":     &p.Sort,
		"order":    &p.Order,
		"page":     &p.Page,
		"pageSize": &p.PageSize,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, q, dest); err != nil {
			return p, err
		}
	}
	return p, nil
}

// Query converts the parameters into a listing query.
func (p ListParams) Query() listing.Query {
	var q listing.Query
	set := func(name string, v *string) {
		if v != nil && listing.IsActive(*v) {
			if q.Filters == nil {
				q.Filters = make(map[string]string)
			}
			q.Filters[name] = *v
		}
	}
	set(listing.FilterCategory, p.Category)
	set(listing.FilterLocation, p.Location)
	set(listing.FilterPrice, p.Price)
	set(listing.FilterStatus, p.Status)
	set(listing.FilterSearch, p.Search)
	set(listing.FilterVerified, p.Verified)

	if p.Sort != nil {
		q.Sort = *p.Sort
	}
	if p.Order != nil {
		q.Desc = strings.EqualFold(*p.Order, "desc")
	}
	q.Page = 1
	if p.Page != nil {
		q.Page = *p.Page
	}
	if p.PageSize != nil {
		q.PageSize = *p.PageSize
	}
	return q
}

// ListJobs pages through the caller's jobs
// (GET /api/v1/jobs)
func (h *Handler) ListJobs(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	params, err := bindListParams(c)
	if err != nil {
		return problem(c, http.StatusBadRequest, "Invalid query", err.Error(), "")
	}
	page, err := h.listings.Jobs(c.Request().Context(), id.Token, params.Query())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetJob returns one job
// (GET /api/v1/jobs/:id)
func (h *Handler) GetJob(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	job, err := h.account.GetJob(c.Request().Context(), id.Token, c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, job)
}

// DeleteJob withdraws a job
// (DELETE /api/v1/jobs/:id)
func (h *Handler) DeleteJob(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.account.DeleteJob(c.Request().Context(), id.Token, c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListArtisans pages through discoverable artisans
// (GET /api/v1/artisans)
func (h *Handler) ListArtisans(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	params, err := bindListParams(c)
	if err != nil {
		return problem(c, http.StatusBadRequest, "Invalid query", err.Error(), "")
	}
	page, err := h.listings.Artisans(c.Request().Context(), id.Token, params.Query())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// GetArtisan returns one artisan profile
// (GET /api/v1/artisans/:id)
func (h *Handler) GetArtisan(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	artisan, err := h.listings.Artisan(c.Request().Context(), id.Token, c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, artisan)
}

// ListCategories returns the trade taxonomy
// (GET /api/v1/categories)
func (h *Handler) ListCategories(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	cats, err := h.listings.Categories(c.Request().Context(), id.Token)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, cats)
}

// ListSubcategories returns the subcategories of a category
// (GET /api/v1/categories/:id/subcategories)
func (h *Handler) ListSubcategories(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	subs, err := h.listings.Subcategories(c.Request().Context(), id.Token, c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, subs)
}

// GetCurrentUser returns the signed-in account
// (GET /api/v1/me)
func (h *Handler) GetCurrentUser(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	user, err := h.account.CurrentUser(c.Request().Context(), id.Token)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateCurrentUser changes profile fields of the signed-in account
// (PATCH /api/v1/me)
func (h *Handler) UpdateCurrentUser(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	var upd marketplace.UserUpdate
	if err := c.Bind(&upd); err != nil {
		return problem(c, http.StatusBadRequest, "Invalid request body", err.Error(), "")
	}

	ctx := c.Request().Context()
	me, err := h.account.CurrentUser(ctx, id.Token)
	if err != nil {
		return h.fail(c, err)
	}
	user, err := h.account.UpdateUser(ctx, id.Token, me.ID, upd)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UploadPicture forwards a profile picture upload untouched
// (PUT /api/v1/me/picture)
func (h *Handler) UploadPicture(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	req := c.Request()
	ack, err := h.account.UploadPicture(req.Context(), id.Token,
		http.MaxBytesReader(c.Response(), req.Body, h.uploadLimit), req.Header.Get(echo.HeaderContentType))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ack)
}
