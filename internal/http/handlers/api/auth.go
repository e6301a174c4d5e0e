package api

import (
	"errors"
	"strings"
	"time"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/http/response"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/models"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// WorkerProfile is the worker view returned to the client.
type WorkerProfile struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func buildWorkerProfile(worker *models.Worker) WorkerProfile {
	return WorkerProfile{
		ID:          worker.ID,
		Email:       worker.Email,
		Name:        worker.Name,
		Code:        worker.Code,
		Role:        worker.Role,
		LastLoginAt: worker.LastLoginAt,
	}
}

// Login exchanges email and password for a signed token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "email and password are required", err)
		return
	}

	worker, token, expiresAt, err := h.AuthService.Login(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			requestLog(c).Infow("login_rejected", "email", req.Email)
			respondError(c, response.CodeUnauthorized, "invalid email or password", nil)
			return
		}
		respondError(c, response.CodeInternal, "login failed", err)
		return
	}

	requestLog(c).Infow("login_success",
		"worker_id", worker.ID,
		"role", worker.Role,
	)
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt.Unix(),
		"worker":     buildWorkerProfile(worker),
	})
}

// Profile returns the authenticated worker.
func (h *Handler) Profile(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	worker, err := h.WorkerRepo.GetByID(actor.WorkerID)
	if err != nil {
		respondError(c, response.CodeInternal, "profile fetch failed", err)
		return
	}
	if worker == nil {
		respondError(c, response.CodeNotFound, "worker not found", nil)
		return
	}
	response.Success(c, buildWorkerProfile(worker))
}

// ChangePasswordRequest is the password change payload.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword replaces the caller's password. All previously issued
// tokens stop working.
func (h *Handler) ChangePassword(c *gin.Context) {
	actor, ok := actingIdentity(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "old and new password are required", err)
		return
	}
	if err := h.AuthService.ChangePassword(actor.WorkerID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(c, err, "password change failed")
		return
	}
	response.SuccessWithMsg(c, "password changed", nil)
}
