package api

import "github.com/labstack/echo/v4"

// RegisterHandlers mounts the authenticated API on g, normally /api/v1.
func RegisterHandlers(g *echo.Group, h *Handler) {
	g.POST("/workflows", h.StartWorkflow)
	g.GET("/workflows/:id", h.GetWorkflow)
	g.PATCH("/workflows/:id", h.UpdateWorkflow)
	g.DELETE("/workflows/:id", h.CancelWorkflow)
	g.PUT("/workflows/:id/attachments/:slot", h.PutAttachment)
	g.DELETE("/workflows/:id/attachments/:slot", h.DeleteAttachment)
	g.GET("/workflows/:id/steps/:step", h.EnterStep)
	g.POST("/workflows/:id/steps/:step/continue", h.ContinueStep)
	g.POST("/workflows/:id/submit", h.SubmitWorkflow)
	g.GET("/submissions", h.ListSubmissions)

	g.GET("/jobs", h.ListJobs)
	g.GET("/jobs/:id", h.GetJob)
	g.DELETE("/jobs/:id", h.DeleteJob)
	g.GET("/artisans", h.ListArtisans)
	g.GET("/artisans/:id", h.GetArtisan)
	g.GET("/categories", h.ListCategories)
	g.GET("/categories/:id/subcategories", h.ListSubcategories)

	g.GET("/me", h.GetCurrentUser)
	g.PATCH("/me", h.UpdateCurrentUser)
	g.PUT("/me/picture", h.UploadPicture)
}

// RegisterPublic mounts the endpoints that need no session.
func RegisterPublic(e *echo.Echo, h *Handler) {
	e.GET("/health", h.HandleHealth)

	e.POST("/auth/forgot-password", h.ForgotPassword)
	e.POST("/auth/validate-reset-code", h.ValidateResetCode)
	e.POST("/auth/reset-password", h.ResetPassword)
	e.POST("/auth/validate-email", h.ValidateEmail)
	e.POST("/auth/confirm-email-validation", h.ConfirmEmailValidation)
}
