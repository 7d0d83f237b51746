package controllers

import (
	"context"
	"net/http"

	"storefront/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Accounts interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Profile(ctx context.Context, userID int) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID int, req models.ChangePasswordRequest) error
}

type AuthController struct {
	accounts Accounts
	log      logrus.FieldLogger
}

func NewAuthController(accounts Accounts, log logrus.FieldLogger) *AuthController {
	return &AuthController{accounts: accounts, log: log}
}

// Register godoc
// @Summary Register new user
// @Description Register a new customer account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register Request"
// @Success 201 {object} models.Response{data=models.LoginResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	res, err := ctrl.accounts.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, ctrl.log, "Registration failed", err)
		return
	}

	ok(c, http.StatusCreated, "Registration successful", res)
}

// Login godoc
// @Summary Login
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.Response{data=models.LoginResponse}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	res, err := ctrl.accounts.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, ctrl.log, "Login failed", err)
		return
	}

	ok(c, http.StatusOK, "Login successful", res)
}

// GetProfile godoc
// @Summary Get profile
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=models.User}
// @Router /auth/profile [get]
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	user, err := ctrl.accounts.Profile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, ctrl.log, "Failed to load profile", err)
		return
	}

	ok(c, http.StatusOK, "Profile retrieved", user)
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Only the fields that are sent are changed
// @Tags Authentication
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.UpdateProfileRequest true "Profile"
// @Success 200 {object} models.Response{data=models.User}
// @Router /auth/profile [patch]
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	user, err := ctrl.accounts.UpdateProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, ctrl.log, "Failed to update profile", err)
		return
	}

	ok(c, http.StatusOK, "Profile updated", user)
}

// ChangePassword godoc
// @Summary Change password
// @Description Change user password
// @Tags Authentication
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ChangePasswordRequest true "Password Request"
// @Success 200 {object} models.Response
// @Router /auth/change-password [post]
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	if err := ctrl.accounts.ChangePassword(c.Request.Context(), currentUserID(c), req); err != nil {
		respondError(c, ctrl.log, "Failed to change password", err)
		return
	}

	ok(c, http.StatusOK, "Password changed", nil)
}
