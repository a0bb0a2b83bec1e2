package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"humanglue-backend/internal/domains/application"
	"humanglue-backend/internal/domains/profile"
	"humanglue-backend/internal/shared/middleware"
	"humanglue-backend/internal/shared/response"
)

const maxImageUploadBytes = 5 << 20

type ApplicationHandler struct {
	svc      application.Service
	profiles profile.Service
}

func NewApplicationHandler(svc application.Service, profiles profile.Service) *ApplicationHandler {
	return &ApplicationHandler{svc: svc, profiles: profiles}
}

// caller builds the acting principal from the auth context. Roles are
// re-read from storage on every request so a demotion takes effect
// immediately, not at token expiry.
func (h *ApplicationHandler) caller(c *gin.Context) *application.Caller {
	userID, ok := c.Get(middleware.CtxUserID)
	if !ok {
		return nil
	}

	id := userID.(uuid.UUID)
	role := profile.Role(c.GetString(middleware.CtxRole))
	if fresh, err := h.profiles.GetRole(c.Request.Context(), id); err == nil {
		role = fresh
	}

	return &application.Caller{
		ID:    id,
		Email: c.GetString(middleware.CtxEmail),
		Role:  role,
	}
}

// Create handles POST /expert-applications. Anonymous submissions are
// allowed; an authenticated caller gets the application linked to
// their account.
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req application.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"Validation failed", application.ValidationDetails(err))
		return
	}

	meta := application.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	app, err := h.svc.Create(c.Request.Context(), h.caller(c), req, meta)
	if err != nil {
		h.respondError(c, err, "CREATE_ERROR")
		return
	}

	response.Success(c, http.StatusCreated, app)
}

// Get handles GET /expert-applications/:id.
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	app, history, err := h.svc.Get(c.Request.Context(), h.caller(c), id)
	if err != nil {
		h.respondError(c, err, "FETCH_ERROR")
		return
	}

	data := gin.H{"application": app}
	if history != nil {
		data["history"] = history
	}
	response.Success(c, http.StatusOK, data)
}

// List handles GET /expert-applications. Non-admins see only their
// own.
func (h *ApplicationHandler) List(c *gin.Context) {
	var filter application.ListApplicationsFilter

	if raw := c.Query("status"); raw != "" {
		status := application.Status(raw)
		if !status.IsValid() {
			response.ErrorResponse(c, http.StatusBadRequest, "INVALID_STATUS",
				fmt.Sprintf("Unknown status %q", raw))
			return
		}
		filter.Status = &status
	}
	filter.Limit = intQuery(c, "limit", 50)
	filter.Offset = intQuery(c, "offset", 0)

	apps, total, err := h.svc.List(c.Request.Context(), h.caller(c), filter)
	if err != nil {
		h.respondError(c, err, "FETCH_ERROR")
		return
	}

	filter.SetDefaults()
	response.SuccessWithMeta(c, http.StatusOK, apps, &response.Meta{
		Limit:   filter.Limit,
		Offset:  filter.Offset,
		Total:   int(total),
		HasMore: int64(filter.Offset+len(apps)) < total,
	})
}

// Update handles PATCH /expert-applications/:id, including submission via
// submitNow.
func (h *ApplicationHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req application.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"Validation failed", application.ValidationDetails(err))
		return
	}

	app, err := h.svc.Update(c.Request.Context(), h.caller(c), id, req)
	if err != nil {
		h.respondError(c, err, "UPDATE_ERROR")
		return
	}

	message := "Application saved"
	if req.SubmitNow && app.Status == application.StatusSubmitted {
		message = "Your application has been submitted successfully!"
	}
	response.SuccessWithMessage(c, http.StatusOK, message, app)
}

// Delete handles DELETE /expert-applications/:id. Owners withdraw; admins
// remove the row.
func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	outcome, err := h.svc.Delete(c.Request.Context(), h.caller(c), id)
	if err != nil {
		h.respondError(c, err, "DELETE_ERROR")
		return
	}

	switch outcome {
	case application.OutcomeWithdrawn:
		response.SuccessWithMessage(c, http.StatusOK, "Application withdrawn", nil)
	default:
		response.SuccessWithMessage(c, http.StatusOK, "Application deleted", nil)
	}
}

// Review handles POST /expert-applications/:id/review.
func (h *ApplicationHandler) Review(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req application.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"Validation failed", application.ValidationDetails(err))
		return
	}

	app, err := h.svc.Review(c.Request.Context(), h.caller(c), id, req)
	if err != nil {
		h.respondError(c, err, "REVIEW_ERROR")
		return
	}

	response.Success(c, http.StatusOK, app)
}

// Export handles GET /admin/expert-applications/export.
func (h *ApplicationHandler) Export(c *gin.Context) {
	var filter application.ListApplicationsFilter
	if raw := c.Query("status"); raw != "" {
		status := application.Status(raw)
		if !status.IsValid() {
			response.ErrorResponse(c, http.StatusBadRequest, "INVALID_STATUS",
				fmt.Sprintf("Unknown status %q", raw))
			return
		}
		filter.Status = &status
	}

	data, filename, err := h.svc.Export(c.Request.Context(), h.caller(c), filter)
	if err != nil {
		h.respondError(c, err, "EXPORT_ERROR")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// UploadImage handles POST /expert-applications/:id/image with a multipart
// "image" field.
func (h *ApplicationHandler) UploadImage(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.BadRequest(c, "Missing image file")
		return
	}
	defer file.Close()

	if header.Size > maxImageUploadBytes {
		response.ErrorResponse(c, http.StatusBadRequest, "UPLOAD_ERROR", "Image exceeds 5MB")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageUploadBytes+1))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "UPLOAD_ERROR", "Failed to read image")
		return
	}

	url, err := h.svc.UploadProfileImage(c.Request.Context(), h.caller(c), id, data)
	if err != nil {
		h.respondError(c, err, "UPLOAD_ERROR")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile_image_url": url})
}

func (h *ApplicationHandler) pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid application ID")
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps domain errors to the response envelope. Errors
// with no domain mapping become a 500 with the operation's own code.
func (h *ApplicationHandler) respondError(c *gin.Context, err error, fallbackCode string) {
	switch {
	case errors.Is(err, application.ErrApplicationNotFound):
		response.NotFound(c, "Application not found")
	case errors.Is(err, application.ErrUnauthorized):
		response.Unauthorized(c, "Authentication required")
	case errors.Is(err, application.ErrForbidden):
		response.Forbidden(c, "You are not allowed to act on this application")
	case errors.Is(err, application.ErrVersionConflict):
		response.ErrorResponse(c, http.StatusConflict, "CONFLICT",
			"The application was modified by someone else; reload and retry")
	case errors.Is(err, application.ErrApplicationExists):
		response.ErrorResponse(c, http.StatusConflict, "APPLICATION_EXISTS",
			"An application already exists for this email address")
	case errors.Is(err, application.ErrInvalidStatus):
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_STATUS",
			"This operation is not allowed in the application's current status")
	case errors.Is(err, application.ErrInvalidTransition):
		response.ErrorResponse(c, http.StatusBadRequest, "INVALID_TRANSITION",
			"This status change is not allowed")
	case errors.Is(err, application.ErrTermsRequired):
		response.ErrorResponse(c, http.StatusBadRequest, "TERMS_REQUIRED",
			"You must agree to the terms before submitting")
	case errors.Is(err, application.ErrBioRequired):
		response.ErrorResponse(c, http.StatusBadRequest, "BIO_REQUIRED",
			"Bio must be at least 100 characters before submitting")
	case errors.Is(err, application.ErrTitleRequired):
		response.ErrorResponse(c, http.StatusBadRequest, "TITLE_REQUIRED",
			"Professional title is required before submitting")
	case errors.Is(err, application.ErrReasonRequired):
		response.ErrorResponse(c, http.StatusBadRequest, "REASON_REQUIRED",
			"A rejection reason is required")
	case errors.Is(err, application.ErrInvalidImage):
		response.ErrorResponse(c, http.StatusBadRequest, "UPLOAD_ERROR", err.Error())
	default:
		response.ErrorResponse(c, http.StatusInternalServerError, fallbackCode, "Something went wrong")
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
