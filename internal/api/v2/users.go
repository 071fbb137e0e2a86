// internal/api/v2/users.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mediplant/mediplant-go/internal/datastore"
)

// initUserRoutes registers the user API endpoints
func (c *Controller) initUserRoutes() {
	c.Group.POST("/users", c.CreateUser)
	c.Group.GET("/users/:id", c.GetUser)
	c.Group.GET("/users/:id/badges", c.GetUserBadges)
	c.Group.PUT("/users/:id/admin", c.SetUserAdmin)
}

// UserResponse represents a user in the API response
type UserResponse struct {
	ID                uint            `json:"id"`
	Username          string          `json:"username"`
	Email             string          `json:"email,omitempty"`
	DisplayName       string          `json:"display_name,omitempty"`
	IsAdmin           bool            `json:"is_admin"`
	ContributionCount int             `json:"contribution_count"`
	Badges            []BadgeResponse `json:"badges,omitempty"`
	CreatedAt         string          `json:"created_at"`
}

// BadgeResponse represents an awarded badge in the API response
type BadgeResponse struct {
	Name      string `json:"name"`
	AwardedAt string `json:"awarded_at"`
}

// CreateUserRequest is the payload for registering a user
type CreateUserRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// SetAdminRequest is the payload for toggling the admin flag
type SetAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

func userToResponse(user *datastore.User) UserResponse {
	response := UserResponse{
		ID:                user.ID,
		Username:          user.Username,
		Email:             user.Email,
		DisplayName:       user.DisplayName,
		IsAdmin:           user.IsAdmin,
		ContributionCount: user.ContributionCount,
		CreatedAt:         user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for i := range user.Badges {
		response.Badges = append(response.Badges, badgeToResponse(&user.Badges[i]))
	}
	return response
}

func badgeToResponse(badge *datastore.UserBadge) BadgeResponse {
	return BadgeResponse{
		Name:      badge.Name,
		AwardedAt: badge.AwardedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateUser handles POST /api/v2/users
func (c *Controller) CreateUser(ctx echo.Context) error {
	var request CreateUserRequest
	if err := ctx.Bind(&request); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if request.Username == "" {
		return c.HandleError(ctx, nil, "username is required", http.StatusBadRequest)
	}

	if _, err := c.DS.GetUserByUsername(request.Username); err == nil {
		return c.HandleError(ctx, nil, "Username already taken", http.StatusConflict)
	} else if !isNotFound(err) {
		return c.HandleError(ctx, err, "Failed to check username", http.StatusInternalServerError)
	}

	user := datastore.User{
		Username:    request.Username,
		Email:       request.Email,
		DisplayName: request.DisplayName,
	}
	if err := c.DS.CreateUser(&user); err != nil {
		return c.HandleError(ctx, err, "Failed to create user", http.StatusInternalServerError)
	}

	response := userToResponse(&user)
	response.Badges = nil
	return ctx.JSON(http.StatusCreated, response)
}

// GetUser handles GET /api/v2/users/:id
func (c *Controller) GetUser(ctx echo.Context) error {
	user, err := c.DS.GetUser(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "User not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get user", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, userToResponse(&user))
}

// GetUserBadges handles GET /api/v2/users/:id/badges
func (c *Controller) GetUserBadges(ctx echo.Context) error {
	user, err := c.DS.GetUser(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "User not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get user", http.StatusInternalServerError)
	}

	badges, err := c.DS.GetUserBadges(user.ID)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get badges", http.StatusInternalServerError)
	}

	responses := make([]BadgeResponse, 0, len(badges))
	for i := range badges {
		responses = append(responses, badgeToResponse(&badges[i]))
	}
	return ctx.JSON(http.StatusOK, responses)
}

// SetUserAdmin handles PUT /api/v2/users/:id/admin
func (c *Controller) SetUserAdmin(ctx echo.Context) error {
	var request SetAdminRequest
	if err := ctx.Bind(&request); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}

	user, err := c.DS.SetUserAdmin(ctx.Param("id"), request.IsAdmin)
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "User not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to update user", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, userToResponse(&user))
}
