// Package gemini classifies observations with Google's generative models.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"sitescout/internal/scout"
)

// Config controls the Gemini classifier.
type Config struct {
	APIKey string
	Model  string
}

// Classifier implements scout.Classifier against the Gemini API.
type Classifier struct {
	client *genai.Client
	model  string
}

// New creates a Classifier. The API key is required; the model defaults to a
// lightweight tier since status classification is a simple task.
func New(ctx context.Context, cfg Config) (*Classifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Classifier{client: client, model: cfg.Model}, nil
}

// Classify asks the model whether the observed page looks operational. A
// transport failure (unreachable endpoint, empty response envelope) returns an
// error; any response the model does produce is mapped to a Verdict, with
// UNKNOWN as the fallback for unrecognizable output.
func (c *Classifier) Classify(ctx context.Context, obs scout.Observation) (scout.Verdict, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(obs)))
	if err != nil {
		return scout.Verdict{}, fmt.Errorf("generate verdict: %w", err)
	}

	text, err := extractText(resp)
	if err != nil {
		return scout.Verdict{}, fmt.Errorf("verdict envelope: %w", err)
	}
	return ParseVerdict(text), nil
}

// Close releases the underlying client.
func (c *Classifier) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func buildPrompt(obs scout.Observation) string {
	var b strings.Builder
	b.WriteString("You are checking whether a website is working properly.\n")
	b.WriteString("Below is what a browser observed when visiting it.\n")
	b.WriteString("Respond with a JSON object:\n")
	b.WriteString(`{"status": "UP" if the page loads and looks functional, "DOWN" if it is broken or showing an outage, "UNKNOWN" if you cannot tell, "reason": "brief explanation of what you see"}`)
	b.WriteString("\n\nObservation:\n")
	fmt.Fprintf(&b, "navigation completed: %t\n", obs.Reachable)
	fmt.Fprintf(&b, "latency: %s\n", obs.Latency.Round(time.Millisecond))
	b.WriteString(obs.Signal)
	return b.String()
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
