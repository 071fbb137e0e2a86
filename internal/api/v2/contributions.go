// internal/api/v2/contributions.go
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mediplant/mediplant-go/internal/datastore"
)

// initContributionRoutes registers the contribution API endpoints
func (c *Controller) initContributionRoutes() {
	c.Group.POST("/contributions", c.CreateContribution)
	c.Group.GET("/contributions/:id", c.GetContribution)
	c.Group.GET("/contributions/pending", c.GetPendingContributions)
	c.Group.GET("/plants/:id/contributions", c.GetPlantContributions)

	// Moderation endpoints
	c.Group.POST("/contributions/:id/approve", c.ApproveContribution)
	c.Group.POST("/contributions/:id/reject", c.RejectContribution)
}

// ContributionResponse represents a contribution in the API response
type ContributionResponse struct {
	ID              uint   `json:"id"`
	PlantID         uint   `json:"plant_id"`
	UserID          uint   `json:"user_id,omitempty"`
	ContributorName string `json:"contributor_name,omitempty"`
	Content         string `json:"content"`
	Language        string `json:"language,omitempty"`
	Status          string `json:"status"`
	Message         string `json:"message,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// CreateContributionRequest is the payload for submitting a contribution
type CreateContributionRequest struct {
	PlantID         uint   `json:"plant_id"`
	UserID          uint   `json:"user_id"`
	ContributorName string `json:"contributor_name"`
	Content         string `json:"content"`
	Language        string `json:"language"`
}

func contributionToResponse(contribution *datastore.Contribution) ContributionResponse {
	return ContributionResponse{
		ID:              contribution.ID,
		PlantID:         contribution.PlantID,
		UserID:          contribution.UserID,
		ContributorName: contribution.ContributorName,
		Content:         contribution.Content,
		Language:        contribution.Language,
		Status:          contribution.Status,
		CreatedAt:       contribution.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateContribution handles POST /api/v2/contributions
func (c *Controller) CreateContribution(ctx echo.Context) error {
	var request CreateContributionRequest
	if err := ctx.Bind(&request); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if request.PlantID == 0 || request.Content == "" {
		return c.HandleError(ctx, nil, "plant_id and content are required", http.StatusBadRequest)
	}

	// The plant must exist before knowledge can be attached to it.
	if _, err := c.DS.GetPlant(strconv.FormatUint(uint64(request.PlantID), 10)); err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Plant not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to check plant", http.StatusInternalServerError)
	}

	contribution := datastore.Contribution{
		PlantID:         request.PlantID,
		UserID:          request.UserID,
		ContributorName: request.ContributorName,
		Content:         request.Content,
		Language:        request.Language,
	}
	if err := c.DS.CreateContribution(&contribution); err != nil {
		return c.HandleError(ctx, err, "Failed to create contribution", http.StatusInternalServerError)
	}

	response := contributionToResponse(&contribution)
	response.Message = c.Catalog.Message("ContributionReceived", nil, c.requestLanguage(ctx))
	return ctx.JSON(http.StatusCreated, response)
}

// GetContribution handles GET /api/v2/contributions/:id
func (c *Controller) GetContribution(ctx echo.Context) error {
	contribution, err := c.DS.GetContribution(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Contribution not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get contribution", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, contributionToResponse(&contribution))
}

// GetPendingContributions handles GET /api/v2/contributions/pending
func (c *Controller) GetPendingContributions(ctx echo.Context) error {
	contributions, err := c.DS.GetContributionsByStatus(datastore.ContributionPending)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get pending contributions", http.StatusInternalServerError)
	}

	responses := make([]ContributionResponse, 0, len(contributions))
	for i := range contributions {
		responses = append(responses, contributionToResponse(&contributions[i]))
	}
	return ctx.JSON(http.StatusOK, responses)
}

// GetPlantContributions handles GET /api/v2/plants/:id/contributions
func (c *Controller) GetPlantContributions(ctx echo.Context) error {
	plant, err := c.DS.GetPlant(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Plant not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get plant", http.StatusInternalServerError)
	}

	contributions, err := c.DS.GetContributionsForPlant(plant.ID)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get contributions", http.StatusInternalServerError)
	}

	responses := make([]ContributionResponse, 0, len(contributions))
	for i := range contributions {
		responses = append(responses, contributionToResponse(&contributions[i]))
	}
	return ctx.JSON(http.StatusOK, responses)
}

// ApproveContribution handles POST /api/v2/contributions/:id/approve.
// Approval credits the contributor and may award a milestone badge.
func (c *Controller) ApproveContribution(ctx echo.Context) error {
	contribution, err := c.Moderation.ApproveContribution(ctx.Param("id"))
	if err != nil {
		return c.handleModerationError(ctx, err, "Failed to approve contribution")
	}
	if c.metrics != nil {
		c.metrics.Moderation.DecisionsTotal.WithLabelValues("contribution", "approved").Inc()
	}
	return ctx.JSON(http.StatusOK, contributionToResponse(&contribution))
}

// RejectContribution handles POST /api/v2/contributions/:id/reject
func (c *Controller) RejectContribution(ctx echo.Context) error {
	contribution, err := c.Moderation.RejectContribution(ctx.Param("id"))
	if err != nil {
		return c.handleModerationError(ctx, err, "Failed to reject contribution")
	}
	if c.metrics != nil {
		c.metrics.Moderation.DecisionsTotal.WithLabelValues("contribution", "rejected").Inc()
	}
	return ctx.JSON(http.StatusOK, contributionToResponse(&contribution))
}
