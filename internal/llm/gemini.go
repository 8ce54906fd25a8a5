package llm

import (
	"context"
	"log"

	genai "google.golang.org/genai"
)

// pipelineTemperature matches the fixed sampling temperature every agent
// role is configured with.
const pipelineTemperature float32 = 0.7

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// GenerateText sends the role configuration as the system instruction and
// the task prompt as the user content. One call, no retry: a failed stage
// aborts the whole pipeline run.
func (g *GeminiClient) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	stage := StageFrom(ctx)
	if hook := HookFrom(ctx); hook != nil {
		hook.Before(ctx, stage, prompt)
	}
	log.Printf("LLM request (%s): %d bytes", stage, len(system)+len(prompt))

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(pipelineTemperature),
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		cfg,
	)
	if err == nil && (len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0) {
		err = ErrEmptyResponse
	}
	if err != nil {
		if hook := HookFrom(ctx); hook != nil {
			hook.After(ctx, stage, "", err)
		}
		return "", err
	}
	out := resp.Candidates[0].Content.Parts[0].Text
	if hook := HookFrom(ctx); hook != nil {
		hook.After(ctx, stage, out, nil)
	}
	return out, nil
}
