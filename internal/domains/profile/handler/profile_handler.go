package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"humanglue-backend/internal/domains/profile"
	"humanglue-backend/internal/shared/middleware"
	"humanglue-backend/internal/shared/response"
)

type ProfileHandler struct {
	svc profile.Service
}

func NewProfileHandler(svc profile.Service) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Register handles POST /auth/register
func (h *ProfileHandler) Register(c *gin.Context) {
	var req profile.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid data", err)
		return
	}

	dto, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, profile.ErrEmailAlreadyExists) {
			response.Conflict(c, "An account with this email already exists")
			return
		}
		response.InternalServerError(c, "Failed to register")
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Account created", dto)
}

// Login handles POST /auth/login
func (h *ProfileHandler) Login(c *gin.Context) {
	var req profile.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid data", err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, profile.ErrInvalidCredentials) || errors.Is(err, profile.ErrProfileInactive) {
			response.Unauthorized(c, "Invalid email or password")
			return
		}
		response.InternalServerError(c, "Failed to log in")
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Me handles GET /users/me
func (h *ProfileHandler) Me(c *gin.Context) {
	userID := c.MustGet(middleware.CtxUserID).(uuid.UUID)

	dto, err := h.svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			response.NotFound(c, "Profile not found")
			return
		}
		response.InternalServerError(c, "Failed to fetch profile")
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// UpdateRole handles PUT /admin/users/:id/role
func (h *ProfileHandler) UpdateRole(c *gin.Context) {
	callerID := c.MustGet(middleware.CtxUserID).(uuid.UUID)
	role, err := h.svc.GetRole(c.Request.Context(), callerID)
	if err != nil || !role.IsAdmin() {
		response.Forbidden(c, "Admin access required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	var req profile.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid data", err)
		return
	}

	if err := h.svc.UpdateRole(c.Request.Context(), id, req.Role); err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			response.NotFound(c, "Profile not found")
			return
		}
		response.InternalServerError(c, "Failed to update role")
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Role updated", nil)
}
