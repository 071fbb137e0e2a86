package classify

import (
	"context"
	"hash/fnv"
)

// FixtureProvider is a deterministic stand-in for the external classifiers.
// The answer depends only on the image URL, so development and demo flows
// behave the same on every run. Not a classifier; keep disabled in production.
type FixtureProvider struct{}

// NewFixtureProvider creates the deterministic provider.
func NewFixtureProvider() *FixtureProvider {
	return &FixtureProvider{}
}

// Name implements Provider.
func (p *FixtureProvider) Name() string { return "fixture" }

// Identify implements Provider. The URL hash picks a species from the catalog
// and a confidence in the 40-99 range, so some fixture answers land below the
// unknown cutoff and exercise the discussion flow.
func (p *FixtureProvider) Identify(_ context.Context, imageURL string) (*Result, error) {
	hasher := fnv.New32a()
	_, _ = hasher.Write([]byte(imageURL))
	hash := hasher.Sum32()

	species := Species()
	primary := species[int(hash)%len(species)]
	secondary := species[int(hash>>8)%len(species)]
	confidence := float64(40 + hash%60)

	result := &Result{
		ScientificName: primary.ScientificName,
		CommonName:     primary.CommonName,
		Confidence:     confidence,
		Candidates: []Candidate{
			{Label: primary.ScientificName, Confidence: confidence},
		},
	}
	if secondary.ScientificName != primary.ScientificName {
		result.Candidates = append(result.Candidates, Candidate{
			Label:      secondary.ScientificName,
			Confidence: confidence / 2,
		})
	}
	return result, nil
}
