// internal/api/v2/identifications.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mediplant/mediplant-go/internal/datastore"
)

// initIdentificationRoutes registers the identification and discussion endpoints
func (c *Controller) initIdentificationRoutes() {
	c.Group.POST("/identify", c.IdentifyPlant)
	c.Group.GET("/identifications/:id", c.GetIdentification)
	c.Group.GET("/identifications/unknown", c.GetUnknownIdentifications)

	c.Group.POST("/identifications/:id/discussions", c.CreateDiscussion)
	c.Group.GET("/identifications/:id/discussions", c.GetDiscussions)
	c.Group.POST("/discussions/:id/resolve", c.ResolveDiscussion)
}

// IdentifyRequest is the payload for requesting an identification
type IdentifyRequest struct {
	ImageURL string `json:"image_url"`
	ImageID  *uint  `json:"image_id,omitempty"`
}

// CandidateResponse is one ranked label in an identification response
type CandidateResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Rank       int     `json:"rank"`
}

// IdentificationResponse represents an identification in the API response
type IdentificationResponse struct {
	ID             uint                `json:"id"`
	ImageURL       string              `json:"image_url,omitempty"`
	PlantID        *uint               `json:"plant_id,omitempty"`
	ScientificName string              `json:"scientific_name,omitempty"`
	Confidence     float64             `json:"confidence"`
	IsUnknown      bool                `json:"is_unknown"`
	Provider       string              `json:"provider,omitempty"`
	Candidates     []CandidateResponse `json:"candidates,omitempty"`
	Message        string              `json:"message,omitempty"`
	CreatedAt      string              `json:"created_at"`
}

// DiscussionResponse represents a discussion comment in the API response
type DiscussionResponse struct {
	ID               uint   `json:"id"`
	IdentificationID uint   `json:"identification_id"`
	Author           string `json:"author"`
	Role             string `json:"role,omitempty"`
	Content          string `json:"content"`
	Resolved         bool   `json:"resolved"`
	CreatedAt        string `json:"created_at"`
}

// CreateDiscussionRequest is the payload for adding a discussion comment
type CreateDiscussionRequest struct {
	Author  string `json:"author"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

func identificationToResponse(ident *datastore.Identification) IdentificationResponse {
	response := IdentificationResponse{
		ID:             ident.ID,
		ImageURL:       ident.ImageURL,
		PlantID:        ident.PlantID,
		ScientificName: ident.ScientificName,
		Confidence:     ident.Confidence,
		IsUnknown:      ident.IsUnknown,
		Provider:       ident.Provider,
		CreatedAt:      ident.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for i := range ident.Candidates {
		candidate := &ident.Candidates[i]
		response.Candidates = append(response.Candidates, CandidateResponse{
			Label:      candidate.Label,
			Confidence: candidate.Confidence,
			Rank:       candidate.Rank,
		})
	}
	return response
}

func discussionToResponse(discussion *datastore.Discussion) DiscussionResponse {
	return DiscussionResponse{
		ID:               discussion.ID,
		IdentificationID: discussion.IdentificationID,
		Author:           discussion.Author,
		Role:             discussion.Role,
		Content:          discussion.Content,
		Resolved:         discussion.Resolved,
		CreatedAt:        discussion.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// IdentifyPlant handles POST /api/v2/identify
func (c *Controller) IdentifyPlant(ctx echo.Context) error {
	if c.Classifier == nil {
		return c.HandleError(ctx, nil, "Identification not enabled", http.StatusServiceUnavailable)
	}

	var request IdentifyRequest
	if err := ctx.Bind(&request); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if request.ImageURL == "" {
		return c.HandleError(ctx, nil, "image_url is required", http.StatusBadRequest)
	}

	ident, err := c.Classifier.IdentifyAndRecord(ctx.Request().Context(), request.ImageURL, request.ImageID)
	if err != nil {
		return c.HandleError(ctx, err, "Identification failed", http.StatusBadGateway)
	}
	if c.metrics != nil {
		outcome := "matched"
		if ident.IsUnknown {
			outcome = "unknown"
		}
		c.metrics.Classify.IdentificationsTotal.WithLabelValues(ident.Provider, outcome).Inc()
	}
	if ident.PlantID != nil {
		// A confident identification may have created a pending plant.
		c.invalidatePlantCache()
	}

	response := identificationToResponse(&ident)
	language := c.requestLanguage(ctx)
	if ident.IsUnknown {
		response.Message = c.Catalog.Message("IdentificationUnknown", nil, language)
	} else {
		response.Message = c.Catalog.Message("IdentificationMatched", map[string]any{
			"Plant":      ident.ScientificName,
			"Confidence": int(ident.Confidence),
		}, language)
	}
	return ctx.JSON(http.StatusCreated, response)
}

// GetIdentification handles GET /api/v2/identifications/:id
func (c *Controller) GetIdentification(ctx echo.Context) error {
	ident, err := c.DS.GetIdentification(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Identification not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get identification", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, identificationToResponse(&ident))
}

// GetUnknownIdentifications handles GET /api/v2/identifications/unknown
// These are open for community discussion.
func (c *Controller) GetUnknownIdentifications(ctx echo.Context) error {
	limit, offset := pagination(ctx.QueryParam("limit"), ctx.QueryParam("offset"))

	idents, err := c.DS.GetUnknownIdentifications(limit, offset)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get unknown identifications", http.StatusInternalServerError)
	}

	responses := make([]IdentificationResponse, 0, len(idents))
	for i := range idents {
		responses = append(responses, identificationToResponse(&idents[i]))
	}
	return ctx.JSON(http.StatusOK, responses)
}

// CreateDiscussion handles POST /api/v2/identifications/:id/discussions
func (c *Controller) CreateDiscussion(ctx echo.Context) error {
	ident, err := c.DS.GetIdentification(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Identification not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get identification", http.StatusInternalServerError)
	}

	var request CreateDiscussionRequest
	if err := ctx.Bind(&request); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if request.Author == "" || request.Content == "" {
		return c.HandleError(ctx, nil, "author and content are required", http.StatusBadRequest)
	}
	if request.Role == "" {
		request.Role = "user"
	}

	discussion := datastore.Discussion{
		IdentificationID: ident.ID,
		Author:           request.Author,
		Role:             request.Role,
		Content:          request.Content,
	}
	if err := c.DS.CreateDiscussion(&discussion); err != nil {
		return c.HandleError(ctx, err, "Failed to create discussion", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusCreated, discussionToResponse(&discussion))
}

// GetDiscussions handles GET /api/v2/identifications/:id/discussions
func (c *Controller) GetDiscussions(ctx echo.Context) error {
	ident, err := c.DS.GetIdentification(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Identification not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get identification", http.StatusInternalServerError)
	}

	discussions, err := c.DS.GetDiscussionsForIdentification(ident.ID)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get discussions", http.StatusInternalServerError)
	}

	responses := make([]DiscussionResponse, 0, len(discussions))
	for i := range discussions {
		responses = append(responses, discussionToResponse(&discussions[i]))
	}
	return ctx.JSON(http.StatusOK, responses)
}

// ResolveDiscussion handles POST /api/v2/discussions/:id/resolve
func (c *Controller) ResolveDiscussion(ctx echo.Context) error {
	discussion, err := c.DS.ResolveDiscussion(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Discussion not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to resolve discussion", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, discussionToResponse(&discussion))
}
