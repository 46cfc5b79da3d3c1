package genclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Client wraps the generative-text API used for event descriptions and
// volunteer-role matching
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a new generative-text client
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("generative API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// GenerateDescription produces a short event description from the event
// name and a keyword list
func (c *Client) GenerateDescription(ctx context.Context, eventName string, keywords []string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a short, friendly description for a volunteering event named %q. Keywords: %s. Plain text, two or three sentences.",
		eventName, strings.Join(keywords, ", "))

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate description: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("empty description returned")
	}

	return text, nil
}

// RankCandidates returns candidate names ordered by fit for the role,
// best first, decoded from the model's JSON array response
func (c *Client) RankCandidates(ctx context.Context, role string, candidates map[string][]string) ([]string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Rank the following volunteers by fit for the role %q, best first. ", role)
	sb.WriteString("Respond with a JSON array of volunteer names only.\n")
	for name, skills := range candidates {
		fmt.Fprintf(&sb, "- %s: %s\n", name, strings.Join(skills, ", "))
	}

	contents := []*genai.Content{
		genai.NewContentFromText(sb.String(), genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rank candidates: %w", err)
	}

	var ranked []string
	if err := json.Unmarshal([]byte(result.Text()), &ranked); err != nil {
		return nil, fmt.Errorf("failed to decode ranking: %w", err)
	}

	return ranked, nil
}
