// Package classify turns plant photos into identification records. Providers
// wrap external classifiers behind a common interface; the service runs them
// in order, applies the unknown-confidence cutoff and persists the outcome.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mediplant/mediplant-go/internal/conf"
	"github.com/mediplant/mediplant-go/internal/datastore"
	"github.com/mediplant/mediplant-go/internal/errors"
	"github.com/mediplant/mediplant-go/internal/logging"
)

// Candidate is one ranked label from a provider's output.
type Candidate struct {
	Label      string
	Confidence float64 // 0-100
}

// Result is a provider's answer for one image.
type Result struct {
	ScientificName string
	CommonName     string
	Confidence     float64 // 0-100, confidence of the top candidate
	Candidates     []Candidate
}

// Provider identifies the plant in an image. Implementations wrap one
// external classifier each.
type Provider interface {
	Name() string
	Identify(ctx context.Context, imageURL string) (*Result, error)
}

// Service runs the provider chain and records identifications in the store.
type Service struct {
	providers []Provider
	ds        datastore.Interface
	settings  *conf.Settings
	logger    *slog.Logger
}

// NewService assembles the provider chain from configuration. Providers are
// tried in declaration order; the first successful answer wins.
func NewService(settings *conf.Settings, ds datastore.Interface) (*Service, error) {
	logger := logging.ForService("classify")

	var providers []Provider
	if settings.Identify.Vision.Enabled {
		provider, err := NewVisionProvider(context.Background(), settings)
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider)
	}
	if settings.Identify.LLM.Enabled {
		provider, err := NewLLMProvider(settings)
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider)
	}
	if settings.Identify.Fixture.Enabled {
		providers = append(providers, NewFixtureProvider())
	}
	if len(providers) == 0 {
		return nil, errors.Newf("no identification provider enabled").
			Component("classify").
			Category(errors.CategoryConfiguration).
			Build()
	}

	return &Service{
		providers: providers,
		ds:        ds,
		settings:  settings,
		logger:    logger,
	}, nil
}

// NewServiceWithProviders wires an explicit provider chain. Used by tests and
// by callers that construct providers themselves.
func NewServiceWithProviders(settings *conf.Settings, ds datastore.Interface, providers ...Provider) *Service {
	return &Service{
		providers: providers,
		ds:        ds,
		settings:  settings,
		logger:    logging.ForService("classify"),
	}
}

// Identify runs the provider chain for one image. A provider failure is
// logged and the next provider is tried; only when all fail is an error
// returned.
func (s *Service) Identify(ctx context.Context, imageURL string) (*Result, string, error) {
	var lastErr error
	for _, provider := range s.providers {
		result, err := provider.Identify(ctx, imageURL)
		if err != nil {
			s.logger.Warn("identification provider failed",
				"provider", provider.Name(), "image_url", imageURL, "error", err)
			lastErr = err
			continue
		}
		return result, provider.Name(), nil
	}
	return nil, "", errors.New(fmt.Errorf("all identification providers failed: %w", lastErr)).
		Component("classify").
		Category(errors.CategoryClassification).
		Context("image_url", imageURL).
		Build()
}

// IdentifyAndRecord classifies an image and persists the outcome.
//
// Results below the configured confidence cutoff are stored as unknown and
// become available for community discussion. Confident results are linked to
// the matching plant when one exists; otherwise a pending plant record is
// created together with the identification so moderators can review it.
func (s *Service) IdentifyAndRecord(ctx context.Context, imageURL string, imageID *uint) (datastore.Identification, error) {
	result, providerName, err := s.Identify(ctx, imageURL)
	if err != nil {
		return datastore.Identification{}, err
	}

	ident := datastore.Identification{
		PlantImageID:   imageID,
		ImageURL:       imageURL,
		ScientificName: result.ScientificName,
		Confidence:     result.Confidence,
		Provider:       providerName,
	}
	candidates := s.rankedCandidates(result)

	if result.Confidence < s.settings.Identify.UnknownThreshold {
		ident.IsUnknown = true
		ident.ScientificName = ""
		if err := s.ds.CreateIdentification(&ident, candidates); err != nil {
			return datastore.Identification{}, s.storeError(err, imageURL)
		}
		s.logger.Info("identification recorded as unknown",
			"identification_id", ident.ID,
			"provider", providerName,
			"confidence", result.Confidence)
		return s.reload(ident.ID)
	}

	if plant, ok := s.findPlant(result.ScientificName); ok {
		ident.PlantID = &plant.ID
		if err := s.ds.CreateIdentification(&ident, candidates); err != nil {
			return datastore.Identification{}, s.storeError(err, imageURL)
		}
		s.logger.Info("identification matched existing plant",
			"identification_id", ident.ID,
			"plant_id", plant.ID,
			"provider", providerName,
			"confidence", result.Confidence)
		return s.reload(ident.ID)
	}

	plant := datastore.Plant{
		Name:           result.CommonName,
		ScientificName: result.ScientificName,
	}
	if entry, ok := LookupSpecies(result.ScientificName); ok {
		plant.Name = entry.CommonName
		plant.HindiName = entry.HindiName
	}
	if plant.Name == "" {
		plant.Name = result.ScientificName
	}
	if err := s.ds.CreateIdentificationWithPlant(&ident, &plant, candidates); err != nil {
		return datastore.Identification{}, s.storeError(err, imageURL)
	}
	s.logger.Info("identification created pending plant",
		"identification_id", ident.ID,
		"plant_id", plant.ID,
		"scientific_name", result.ScientificName,
		"provider", providerName)
	return s.reload(ident.ID)
}

// rankedCandidates converts and truncates the provider output to the
// configured top-k.
func (s *Service) rankedCandidates(result *Result) []datastore.IdentificationCandidate {
	topK := s.settings.Identify.TopK
	if topK <= 0 {
		topK = len(result.Candidates)
	}
	var candidates []datastore.IdentificationCandidate
	for i, candidate := range result.Candidates {
		if i >= topK {
			break
		}
		candidates = append(candidates, datastore.IdentificationCandidate{
			Label:      candidate.Label,
			Confidence: candidate.Confidence,
			Rank:       i + 1,
		})
	}
	return candidates
}

// findPlant looks up an existing plant by scientific name.
func (s *Service) findPlant(scientificName string) (datastore.Plant, bool) {
	if scientificName == "" {
		return datastore.Plant{}, false
	}
	plants, err := s.ds.SearchPlants(scientificName, 5, 0)
	if err != nil {
		s.logger.Warn("plant lookup failed", "scientific_name", scientificName, "error", err)
		return datastore.Plant{}, false
	}
	for _, plant := range plants {
		if strings.EqualFold(plant.ScientificName, scientificName) {
			return plant, true
		}
	}
	return datastore.Plant{}, false
}

func (s *Service) reload(id uint) (datastore.Identification, error) {
	return s.ds.GetIdentification(fmt.Sprintf("%d", id))
}

func (s *Service) storeError(err error, imageURL string) error {
	return errors.New(fmt.Errorf("recording identification: %w", err)).
		Component("classify").
		Category(errors.CategoryDatabase).
		Context("image_url", imageURL).
		Build()
}
