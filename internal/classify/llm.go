package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/mediplant/mediplant-go/internal/conf"
	"github.com/mediplant/mediplant-go/internal/errors"
)

const llmSystemPrompt = `You identify medicinal plants from photographs.
Answer with JSON only: {"scientific_name": "...", "common_name": "...",
"confidence": 0-100, "candidates": [{"label": "...", "confidence": 0-100}]}.
Rank candidates by confidence, most likely first. If the image does not show
a plant you recognize, use a low confidence value.`

// llmAnswer matches the JSON structure requested from the model.
type llmAnswer struct {
	ScientificName string `json:"scientific_name"`
	CommonName     string `json:"common_name"`
	Confidence     float64 `json:"confidence"`
	Candidates     []struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	} `json:"candidates"`
}

// LLMProvider identifies plants by asking a multimodal language model.
type LLMProvider struct {
	client llms.Model
}

// NewLLMProvider creates a provider backed by an OpenAI-compatible chat API.
func NewLLMProvider(settings *conf.Settings) (*LLMProvider, error) {
	client, err := openai.New(
		openai.WithToken(settings.Identify.LLM.APIKey),
		openai.WithModel(settings.Identify.LLM.Model),
	)
	if err != nil {
		return nil, errors.New(fmt.Errorf("creating LLM client: %w", err)).
			Component("classify").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return &LLMProvider{client: client}, nil
}

// Name implements Provider.
func (p *LLMProvider) Name() string { return "llm" }

// Identify implements Provider.
func (p *LLMProvider) Identify(ctx context.Context, imageURL string) (*Result, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(llmSystemPrompt)},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart("Identify the plant in this image."),
				llms.ImageURLPart(imageURL),
			},
		},
	}

	response, err := p.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		return nil, errors.New(fmt.Errorf("generating identification: %w", err)).
			Component("classify").
			Category(errors.CategoryNetwork).
			Context("image_url", imageURL).
			Build()
	}
	if len(response.Choices) == 0 {
		return nil, errors.Newf("no choices returned from model").
			Component("classify").
			Category(errors.CategoryClassification).
			Build()
	}

	answer, err := parseLLMAnswer(response.Choices[0].Content)
	if err != nil {
		return nil, errors.New(fmt.Errorf("parsing model answer: %w", err)).
			Component("classify").
			Category(errors.CategoryClassification).
			Context("image_url", imageURL).
			Build()
	}

	result := &Result{
		ScientificName: answer.ScientificName,
		CommonName:     answer.CommonName,
		Confidence:     answer.Confidence,
	}
	for _, candidate := range answer.Candidates {
		result.Candidates = append(result.Candidates, Candidate{
			Label:      candidate.Label,
			Confidence: candidate.Confidence,
		})
	}
	if len(result.Candidates) == 0 && answer.ScientificName != "" {
		result.Candidates = []Candidate{{Label: answer.ScientificName, Confidence: answer.Confidence}}
	}
	return result, nil
}

// parseLLMAnswer strips markdown code fences before unmarshaling, some
// models wrap JSON in them even in JSON mode.
func parseLLMAnswer(text string) (*llmAnswer, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var answer llmAnswer
	if err := json.Unmarshal([]byte(text), &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}
