// internal/api/v2/media.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mediplant/mediplant-go/internal/datastore"
)

// initMediaRoutes registers the image, voice recording and speech endpoints
func (c *Controller) initMediaRoutes() {
	c.Group.POST("/plants/:id/images", c.CreatePlantImage)
	c.Group.GET("/plants/:id/images", c.GetPlantImages)
	c.Group.POST("/images/:id/like", c.LikePlantImage)

	c.Group.POST("/contributions/:id/recordings", c.CreateVoiceRecording)
	c.Group.GET("/contributions/:id/recordings", c.GetVoiceRecordings)

	c.Group.GET("/plants/:id/speak", c.SpeakPlant)
}

// ImageResponse represents a plant image in the API response
type ImageResponse struct {
	ID        uint   `json:"id"`
	PlantID   uint   `json:"plant_id"`
	URL       string `json:"url"`
	Caption   string `json:"caption,omitempty"`
	Likes     int    `json:"likes"`
	CreatedAt string `json:"created_at"`
}

// CreateImageRequest is the payload for attaching an image to a plant
type CreateImageRequest struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// RecordingResponse represents a voice recording in the API response
type RecordingResponse struct {
	ID              uint    `json:"id"`
	ContributionID  uint    `json:"contribution_id"`
	AudioURL        string  `json:"audio_url"`
	Transcript      string  `json:"transcript,omitempty"`
	Language        string  `json:"language,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// CreateRecordingRequest is the payload for attaching a voice recording
type CreateRecordingRequest struct {
	AudioURL        string  `json:"audio_url"`
	Transcript      string  `json:"transcript"`
	Language        string  `json:"language"`
	DurationSeconds float64 `json:"duration_seconds"`
}

func imageToResponse(image *datastore.PlantImage) ImageResponse {
	return ImageResponse{
		ID:        image.ID,
		PlantID:   image.PlantID,
		URL:       image.URL,
		Caption:   image.Caption,
		Likes:     image.Likes,
		CreatedAt: image.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func recordingToResponse(recording *datastore.VoiceRecording) RecordingResponse {
	return RecordingResponse{
		ID:              recording.ID,
		ContributionID:  recording.ContributionID,
		AudioURL:        recording.AudioURL,
		Transcript:      recording.Transcript,
		Language:        recording.Language,
		DurationSeconds: recording.DurationSeconds,
		CreatedAt:       recording.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreatePlantImage handles POST /api/v2/plants/:id/images
func (c *Controller) CreatePlantImage(ctx echo.Context) error {
	plant, err := c.DS.GetPlant(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Plant not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get plant", http.StatusInternalServerError)
	}

	var request CreateImageRequest
	if err := ctx.Bind(&request); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if request.URL == "" {
		return c.HandleError(ctx, nil, "url is required", http.StatusBadRequest)
	}

	image := datastore.PlantImage{
		PlantID: plant.ID,
		URL:     request.URL,
		Caption: request.Caption,
	}
	if err := c.DS.CreatePlantImage(&image); err != nil {
		return c.HandleError(ctx, err, "Failed to store image", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusCreated, imageToResponse(&image))
}

// GetPlantImages handles GET /api/v2/plants/:id/images
func (c *Controller) GetPlantImages(ctx echo.Context) error {
	plant, err := c.DS.GetPlant(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Plant not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get plant", http.StatusInternalServerError)
	}

	images, err := c.DS.GetPlantImages(plant.ID)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get images", http.StatusInternalServerError)
	}

	responses := make([]ImageResponse, 0, len(images))
	for i := range images {
		responses = append(responses, imageToResponse(&images[i]))
	}
	return ctx.JSON(http.StatusOK, responses)
}

// LikePlantImage handles POST /api/v2/images/:id/like
func (c *Controller) LikePlantImage(ctx echo.Context) error {
	image, err := c.DS.LikePlantImage(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Image not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to like image", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, imageToResponse(&image))
}

// CreateVoiceRecording handles POST /api/v2/contributions/:id/recordings
func (c *Controller) CreateVoiceRecording(ctx echo.Context) error {
	contribution, err := c.DS.GetContribution(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Contribution not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get contribution", http.StatusInternalServerError)
	}

	var request CreateRecordingRequest
	if err := ctx.Bind(&request); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if request.AudioURL == "" {
		return c.HandleError(ctx, nil, "audio_url is required", http.StatusBadRequest)
	}

	recording := datastore.VoiceRecording{
		ContributionID:  contribution.ID,
		AudioURL:        request.AudioURL,
		Transcript:      request.Transcript,
		Language:        request.Language,
		DurationSeconds: request.DurationSeconds,
	}
	if err := c.DS.CreateVoiceRecording(&recording); err != nil {
		return c.HandleError(ctx, err, "Failed to store recording", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusCreated, recordingToResponse(&recording))
}

// GetVoiceRecordings handles GET /api/v2/contributions/:id/recordings
func (c *Controller) GetVoiceRecordings(ctx echo.Context) error {
	contribution, err := c.DS.GetContribution(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Contribution not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get contribution", http.StatusInternalServerError)
	}

	recordings, err := c.DS.GetRecordingsForContribution(contribution.ID)
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get recordings", http.StatusInternalServerError)
	}

	responses := make([]RecordingResponse, 0, len(recordings))
	for i := range recordings {
		responses = append(responses, recordingToResponse(&recordings[i]))
	}
	return ctx.JSON(http.StatusOK, responses)
}

// SpeakPlant handles GET /api/v2/plants/:id/speak?lang=hi
// It synthesizes the plant's uses text in the requested language and serves
// the resulting MP3 clip.
func (c *Controller) SpeakPlant(ctx echo.Context) error {
	if c.Speech == nil {
		return c.HandleError(ctx, nil, "Speech synthesis not enabled", http.StatusServiceUnavailable)
	}

	plant, err := c.DS.GetPlant(ctx.Param("id"))
	if err != nil {
		if isNotFound(err) {
			return c.HandleError(ctx, err, "Plant not found", http.StatusNotFound)
		}
		return c.HandleError(ctx, err, "Failed to get plant", http.StatusInternalServerError)
	}

	language := c.requestLanguage(ctx)
	text := plant.Name + ". " + plant.Uses
	for i := range plant.Translations {
		if plant.Translations[i].Language == language && plant.Translations[i].Uses != "" {
			text = plant.Translations[i].Name + ". " + plant.Translations[i].Uses
			break
		}
	}

	clipPath, err := c.Speech.Synthesize(ctx.Request().Context(), text, language)
	if err != nil {
		return c.HandleError(ctx, err, "Speech synthesis failed", http.StatusBadGateway)
	}
	return ctx.File(clipPath)
}
