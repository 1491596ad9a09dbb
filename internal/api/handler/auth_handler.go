package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vertexlab/identity-api/internal/core/ports"
)

// AuthHandler handles HTTP requests for authentication and user management.
type AuthHandler struct {
	service ports.AuthService
}

func NewAuthHandler(service ports.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// SeedRoles ensures the four canonical roles exist.
//
// @Summary      Seed the role registry
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statusResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /auth/seed-roles [post]
func (h *AuthHandler) SeedRoles(c echo.Context) error {
	if err := h.service.SeedRoles(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Message: "roles seeded"})
}

// Register creates a new user account with the default USER role.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  statusResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "user created successfully",
		"id":      user.ID,
	})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  ports.LoginResult
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Me re-authenticates from a presented token and returns a fresh one
// carrying the user's current roles.
//
// @Summary      Refresh a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      meRequest  true  "Current session token"
// @Success      200   {object}  ports.LoginResult
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/me [post]
func (h *AuthHandler) Me(c echo.Context) error {
	var req meRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Me(c.Request().Context(), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// UpdateRole replaces the target user's role set with the requested role.
//
// @Summary      Update a user's role
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateRoleRequest  true  "Target user and new role"
// @Success      200   {object}  statusResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/update-role [post]
func (h *AuthHandler) UpdateRole(c echo.Context) error {
	_, actorRoles, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.UpdateRole(c.Request().Context(), actorRoles, ports.UpdateRoleInput{
		Username: req.Username,
		NewRole:  req.NewRole,
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Message: "role updated successfully"})
}

// ListUsers returns every registered user.
//
// @Summary      List users
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /auth/users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// ListUsernames returns every registered username.
//
// @Summary      List usernames
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  string
// @Failure      401  {object}  errorResponse
// @Router       /auth/usernames [get]
func (h *AuthHandler) ListUsernames(c echo.Context) error {
	names, err := h.service.ListUsernames(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, names)
}

// GetUserByUsername returns a single user projection.
//
// @Summary      Get a user by username
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        username  path  string  true  "Username"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /auth/users/{username} [get]
func (h *AuthHandler) GetUserByUsername(c echo.Context) error {
	user, err := h.service.GetUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
	}
	return c.JSON(http.StatusOK, user)
}
