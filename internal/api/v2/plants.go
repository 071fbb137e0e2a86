// internal/api/v2/plants.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mediplant/mediplant-go/internal/datastore"
)

// initPlantRoutes registers all plant-related API endpoints
func (c *Controller) initPlantRoutes() {
	c.Group.GET("/plants", c.GetPlants)
	c.Group.GET("/plants/:id", c.GetPlant)
	c.Group.POST("/plants", c.CreatePlant)
	c.Group.GET("/plants/:id/translations", c.GetPlantTranslations)
	c.Group.PUT("/plants/:id/translations", c.UpsertPlantTranslation)

	// Moderation endpoints
	c.Group.POST("/plants/:id/verify", c.VerifyPlant)
	c.Group.POST("/plants/:id/reject", c.RejectPlant)
	c.Group.GET("/plants/pending", c.GetPendingPlants)
}

// PlantResponse represents a plant in the API response
type PlantResponse struct {
	ID                 uint                  `json:"id"`
	Name               string                `json:"name"`
	ScientificName     string                `json:"scientific_name"`
	HindiName          string                `json:"hindi_name,omitempty"`
	Description        string                `json:"description,omitempty"`
	Uses               string                `json:"uses,omitempty"`
	Preparation        string                `json:"preparation,omitempty"`
	Region             string                `json:"region,omitempty"`
	VerificationStatus string                `json:"verification_status"`
	Translations       []TranslationResponse `json:"translations,omitempty"`
	CreatedAt          string                `json:"created_at"`
}

// TranslationResponse represents localized plant text in the API response
type TranslationResponse struct {
	Language    string `json:"language"`
	Name        string `json:"name"`
	Uses        string `json:"uses,omitempty"`
	Preparation string `json:"preparation,omitempty"`
}

// CreatePlantRequest is the payload for submitting a new plant entry
type CreatePlantRequest struct {
	Name           string `json:"name"`
	ScientificName string `json:"scientific_name"`
	HindiName      string `json:"hindi_name"`
	Description    string `json:"description"`
	Uses           string `json:"uses"`
	Preparation    string `json:"preparation"`
	Region         string `json:"region"`
	ContributorID  uint   `json:"contributor_id"`
}

// TranslationRequest is the payload for adding localized plant text
type TranslationRequest struct {
	Language    string `json:"language"`
	Name        string `json:"name"`
	Uses        string `json:"uses"`
	Preparation string `json:"preparation"`
}

func plantToResponse(plant *datastore.Plant, language string) PlantResponse {
	response := PlantResponse{
		ID:                 plant.ID,
		Name:               plant.Name,
		ScientificName:     plant.ScientificName,
		HindiName:          plant.HindiName,
		Description:        plant.Description,
		Uses:               plant.Uses,
		Preparation:        plant.Preparation,
		Region:             plant.Region,
		VerificationStatus: plant.VerificationStatus,
		CreatedAt:          plant.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for i := range plant.Translations {
		translation := &plant.Translations[i]
		response.Translations = append(response.Translations, TranslationResponse{
			Language:    translation.Language,
			Name:        translation.Name,
			Uses:        translation.Uses,
			Preparation: translation.Preparation,
		})
		// Requested language overrides the display fields when translated.
		if language != "" && translation.Language == language {
			if translation.Name != "" {
				response.Name = translation.Name
			}
			if translation.Uses != "" {
				response.Uses = translation.Uses
			}
			if translation.Preparation != "" {
				response.Preparation = translation.Preparation
			}
		}
	}
	return response
}

func (c *Controller) plantsToResponse(plants []datastore.Plant, language string) []PlantResponse {
	responses := make([]PlantResponse, 0, len(plants))
	for i := range plants {
		responses = append(responses, plantToResponse(&plants[i], language))
	}
	return responses
}

// GetPlants handles GET /api/v2/plants, the public verified listing. The
// listing is cached briefly, writes that change it invalidate the cache.
func (c *Controller) GetPlants(ctx echo.Context) error {
	language := c.requestLanguage(ctx)

	var plants []datastore.Plant
	if cached, found := c.plantCache.Get(verifiedPlantsCacheKey); found {
		plants = cached.([]datastore.Plant)
	} else {
		var err error
		plants, err = c.DS.GetAllPlants()
		if err != nil {
			return c.HandleError(ctx, err, "Failed to get plants", http.StatusInternalServerError)
		}
		c.plantCache.SetDefault(verifiedPlantsCacheKey, plants)
	}

	return ctx.JSON(http.StatusOK, c.plantsToResponse(plants, language))
}

// GetPendingPlants handles GET /api/v2/plants/pending, the moderation queue.
func (c *Controller) GetPendingPlants(ctx echo.Context) error {
	plants, err := c.DS.GetPlantsByStatus(datastore.PlantPending)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get pending plants", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, c.plantsToResponse(plants, ""))
}

// GetPlant handles GET /api/v2/plants/:id
func (c *Controller) GetPlant(ctx echo.Context) error {
	plant, err := c.DS.GetPlant(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Plant not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get plant", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, plantToResponse(&plant, c.requestLanguage(ctx)))
}

// CreatePlant handles POST /api/v2/plants. New entries always start pending.
func (c *Controller) CreatePlant(ctx echo.Context) error {
	var request CreatePlantRequest
	if err := ctx.Bind(&request); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if request.Name == "" || request.ScientificName == "" {
		return c.HandleError(ctx, nil, "name and scientific_name are required", http.StatusBadRequest)
	}

	plant := datastore.Plant{
		Name:           request.Name,
		ScientificName: request.ScientificName,
		HindiName:      request.HindiName,
		Description:    request.Description,
		Uses:           request.Uses,
		Preparation:    request.Preparation,
		Region:         request.Region,
		ContributorID:  request.ContributorID,
	}
	if err := c.DS.CreatePlant(&plant); err != nil {
		return c.HandleError(ctx, err, "Failed to create plant", http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusCreated, plantToResponse(&plant, ""))
}

// VerifyPlant handles POST /api/v2/plants/:id/verify
func (c *Controller) VerifyPlant(ctx echo.Context) error {
	plant, err := c.Moderation.VerifyPlant(ctx.Param("id"))
	if err != nil {
		return c.handleModerationError(ctx, err, "Failed to verify plant")
	}
	c.invalidatePlantCache()
	if c.metrics != nil {
		c.metrics.Moderation.DecisionsTotal.WithLabelValues("plant", "verified").Inc()
	}
	return ctx.JSON(http.StatusOK, plantToResponse(&plant, ""))
}

// RejectPlant handles POST /api/v2/plants/:id/reject
func (c *Controller) RejectPlant(ctx echo.Context) error {
	plant, err := c.Moderation.RejectPlant(ctx.Param("id"))
	if err != nil {
		return c.handleModerationError(ctx, err, "Failed to reject plant")
	}
	c.invalidatePlantCache()
	if c.metrics != nil {
		c.metrics.Moderation.DecisionsTotal.WithLabelValues("plant", "rejected").Inc()
	}
	return ctx.JSON(http.StatusOK, plantToResponse(&plant, ""))
}

func (c *Controller) handleModerationError(ctx echo.Context, err error, message string) error {
	switch {
	case isNotFound(err):
		return c.HandleError(ctx, err, message, http.StatusNotFound)
	case isInvalidTransition(err):
		return c.HandleError(ctx, err, "Record is already in a final state", http.StatusConflict)
	default:
		return c.HandleError(ctx, err, message, http.StatusInternalServerError)
	}
}

// GetPlantTranslations handles GET /api/v2/plants/:id/translations
func (c *Controller) GetPlantTranslations(ctx echo.Context) error {
	plant, err := c.DS.GetPlant(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Plant not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get plant", http.StatusInternalServerError)
	}

	translations, err := c.DS.GetPlantTranslations(plant.ID)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get translations", http.StatusInternalServerError)
	}

	responses := make([]TranslationResponse, 0, len(translations))
	for i := range translations {
		responses = append(responses, TranslationResponse{
			Language:    translations[i].Language,
			Name:        translations[i].Name,
			Uses:        translations[i].Uses,
			Preparation: translations[i].Preparation,
		})
	}
	return ctx.JSON(http.StatusOK, responses)
}

// UpsertPlantTranslation handles PUT /api/v2/plants/:id/translations
func (c *Controller) UpsertPlantTranslation(ctx echo.Context) error {
	plant, err := c.DS.GetPlant(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Plant not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get plant", http.StatusInternalServerError)
	}

	var request TranslationRequest
	if err := ctx.Bind(&request); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if request.Language == "" || request.Name == "" {
		return c.HandleError(ctx, nil, "language and name are required", http.StatusBadRequest)
	}

	translation := datastore.PlantTranslation{
		PlantID:     plant.ID,
		Language:    request.Language,
		Name:        request.Name,
		Uses:        request.Uses,
		Preparation: request.Preparation,
	}
	if err := c.DS.UpsertPlantTranslation(&translation); err != nil {
		return c.HandleError(ctx, err, "Failed to store translation", http.StatusInternalServerError)
	}
	c.invalidatePlantCache()

	return ctx.JSON(http.StatusOK, TranslationResponse{
		Language:    translation.Language,
		Name:        translation.Name,
		Uses:        translation.Uses,
		Preparation: translation.Preparation,
	})
}
