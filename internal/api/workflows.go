package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"artisanhub/backend/internal/services"
	"artisanhub/backend/internal/workflow"
	"artisanhub/backend/pkg/models"
)

// StartWorkflowRequest opens a workflow.
type StartWorkflowRequest struct {
	Kind      models.WorkflowKind `json:"kind"`
	ArtisanID string              `json:"artisanId,omitempty"`
}

// ContinueResponse names the step to move to.
type ContinueResponse struct {
	Next workflow.Step `json:"next"`
}

// StartWorkflow opens a post-job or hire-artisan workflow
// (POST /api/v1/workflows)
func (h *Handler) StartWorkflow(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	var req StartWorkflowRequest
	if err := c.Bind(&req); err != nil {
		return problem(c, http.StatusBadRequest, "Invalid request body", err.Error(), "")
	}

	view, err := h.workflows.Start(id.Owner, req.Kind, req.ArtisanID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, view)
}

// GetWorkflow returns the workflow as seen from ?step=
// (GET /api/v1/workflows/:id)
func (h *Handler) GetWorkflow(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	view, err := h.workflows.Get(id.Owner, c.Param("id"), c.QueryParam("step"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// UpdateWorkflow merges a partial state
// (PATCH /api/v1/workflows/:id)
func (h *Handler) UpdateWorkflow(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}

	var patch workflow.Patch
	if err := c.Bind(&patch); err != nil {
		return problem(c, http.StatusBadRequest, "Invalid request body", err.Error(), "")
	}

	state, err := h.workflows.Update(id.Owner, c.Param("id"), patch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, state)
}

// CancelWorkflow resets and closes a workflow
// (DELETE /api/v1/workflows/:id)
func (h *Handler) CancelWorkflow(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.workflows.Cancel(id.Owner, c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PutAttachment stores the multipart "file" field in a slot
// (PUT /api/v1/workflows/:id/attachments/:slot)
func (h *Handler) PutAttachment(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		return h.fail(c, services.ErrInvalidSlot)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return problem(c, http.StatusBadRequest, "Missing file", err.Error(), "")
	}
	if fh.Size > h.uploadLimit {
		return h.fail(c, fmt.Errorf("%w: %s", services.ErrFileTooLarge, fh.Filename))
	}
	f, err := fh.Open()
	if err != nil {
		return h.fail(c, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.uploadLimit+1))
	if err != nil {
		return h.fail(c, err)
	}

	a := &workflow.Attachment{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
	}
	if err := h.workflows.SetAttachment(id.Owner, c.Param("id"), slot, a); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAttachment empties a slot
// (DELETE /api/v1/workflows/:id/attachments/:slot)
func (h *Handler) DeleteAttachment(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		return h.fail(c, services.ErrInvalidSlot)
	}
	if err := h.workflows.ClearAttachment(id.Owner, c.Param("id"), slot); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// EnterStep opens a step once every earlier step is complete
// (GET /api/v1/workflows/:id/steps/:step)
func (h *Handler) EnterStep(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	view, err := h.workflows.Enter(id.Owner, c.Param("id"), c.Param("step"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// ContinueStep validates a step and names the next one
// (POST /api/v1/workflows/:id/steps/:step/continue)
func (h *Handler) ContinueStep(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	next, err := h.workflows.Continue(id.Owner, c.Param("id"), c.Param("step"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ContinueResponse{Next: next})
}

// SubmitWorkflow sends the workflow to the marketplace
// (POST /api/v1/workflows/:id/submit)
func (h *Handler) SubmitWorkflow(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	res, err := h.workflows.Submit(c.Request().Context(), id.Owner, c.Param("id"), id.Token)
	if err != nil {
		if errors.Is(err, workflow.ErrMissingRequiredField) {
			h.logger.Debug("submission rejected locally", "workflow_id", c.Param("id"), "error", err)
		}
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// ListSubmissions returns the caller's submission history
// (GET /api/v1/submissions)
func (h *Handler) ListSubmissions(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	subs, err := h.workflows.History(c.Request().Context(), id.Owner)
	if err != nil {
		return h.fail(c, err)
	}
	if subs == nil {
		subs = []*models.Submission{}
	}
	return c.JSON(http.StatusOK, subs)
}
