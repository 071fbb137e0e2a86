package classify

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"

	"github.com/mediplant/mediplant-go/internal/conf"
	"github.com/mediplant/mediplant-go/internal/errors"
)

const visionMaxLabels = 10

// VisionProvider identifies plants with the Google Cloud Vision label
// detection API.
type VisionProvider struct {
	service *vision.Service
}

// NewVisionProvider creates a Vision API client from the configured service
// account credentials.
func NewVisionProvider(ctx context.Context, settings *conf.Settings) (*VisionProvider, error) {
	var opts []option.ClientOption
	if settings.Identify.Vision.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(settings.Identify.Vision.CredentialsFile))
	}

	service, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.New(fmt.Errorf("creating Vision API client: %w", err)).
			Component("classify").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return &VisionProvider{service: service}, nil
}

// Name implements Provider.
func (p *VisionProvider) Name() string { return "vision" }

// Identify implements Provider. Labels come back with scores in 0-1 and are
// rescaled to the 0-100 range used throughout the store.
func (p *VisionProvider) Identify(ctx context.Context, imageURL string) (*Result, error) {
	request := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image: &vision.Image{
				Source: &vision.ImageSource{ImageUri: imageURL},
			},
			Features: []*vision.Feature{{
				Type:       "LABEL_DETECTION",
				MaxResults: visionMaxLabels,
			}},
		}},
	}

	response, err := p.service.Images.Annotate(request).Context(ctx).Do()
	if err != nil {
		return nil, errors.New(fmt.Errorf("annotating image: %w", err)).
			Component("classify").
			Category(errors.CategoryNetwork).
			Context("image_url", imageURL).
			Build()
	}
	if len(response.Responses) == 0 {
		return nil, errors.Newf("empty annotation response").
			Component("classify").
			Category(errors.CategoryClassification).
			Context("image_url", imageURL).
			Build()
	}
	annotation := response.Responses[0]
	if annotation.Error != nil {
		return nil, errors.Newf("annotation failed: %s", annotation.Error.Message).
			Component("classify").
			Category(errors.CategoryClassification).
			Context("image_url", imageURL).
			Build()
	}

	return labelsToResult(annotation.LabelAnnotations), nil
}

// labelsToResult builds a Result from Vision label annotations. The top
// candidate is the highest scoring label that maps to a known species; when
// none maps, the highest scoring label stands as-is.
func labelsToResult(labels []*vision.EntityAnnotation) *Result {
	result := &Result{}
	for _, label := range labels {
		confidence := label.Score * 100
		result.Candidates = append(result.Candidates, Candidate{
			Label:      label.Description,
			Confidence: confidence,
		})

		if result.ScientificName == "" {
			if entry, ok := LookupSpecies(label.Description); ok {
				result.ScientificName = entry.ScientificName
				result.CommonName = entry.CommonName
				result.Confidence = confidence
			}
		}
	}

	if result.ScientificName == "" && len(result.Candidates) > 0 {
		result.ScientificName = result.Candidates[0].Label
		result.CommonName = result.Candidates[0].Label
		result.Confidence = result.Candidates[0].Confidence
	}
	return result
}
